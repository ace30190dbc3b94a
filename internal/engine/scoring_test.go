package engine

import (
	"testing"

	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			weights: DefaultWeights(),
		},
		{
			name: "valid custom split",
			weights: Weights{
				WeightAttributes:  0.7,
				WeightSpecialties: 0.3,
			},
		},
		{
			name:    "empty",
			weights: Weights{},
			wantErr: true,
		},
		{
			name: "unknown key",
			weights: Weights{
				WeightAttributes: 0.5,
				"charisma":       0.5,
			},
			wantErr: true,
		},
		{
			name: "negative weight",
			weights: Weights{
				WeightAttributes: 1.5,
				WeightProximity:  -0.5,
			},
			wantErr: true,
		},
		{
			name: "does not sum to one",
			weights: Weights{
				WeightAttributes: 0.5,
				WeightProximity:  0.2,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.weights.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !IsConfigError(err) {
					t.Fatalf("expected a ConfigError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seeker    profile.Role
		candidate profile.Role
		want      bool
	}{
		{profile.RolePlayer, profile.RoleClub, true},
		{profile.RolePlayer, profile.RolePlayer, false},
		{profile.RolePlayer, profile.RoleCoach, false},
		{profile.RoleCoach, profile.RoleClub, true},
		{profile.RoleCoach, profile.RolePlayer, false},
		{profile.RoleClub, profile.RolePlayer, true},
		{profile.RoleClub, profile.RoleCoach, true},
		{profile.RoleClub, profile.RoleClub, false},
	}

	for _, tt := range tests {
		if got := Compatible(tt.seeker, tt.candidate); got != tt.want {
			t.Errorf("Compatible(%s, %s) = %v, want %v", tt.seeker, tt.candidate, got, tt.want)
		}
	}
}

func TestScoreIsPure(t *testing.T) {
	t.Parallel()

	seeker := Extract(&profile.Profile{
		ID:          "p1",
		Role:        profile.RolePlayer,
		Position:    "Libero",
		Age:         24,
		Region:      "Buenos Aires",
		Specialties: []string{"defense"},
	})
	candidate := Extract(&profile.Profile{
		ID:        "c1",
		Role:      profile.RoleClub,
		Region:    "Buenos Aires",
		Vacancies: []profile.Vacancy{{Position: "Libero", Note: "defense first"}},
	})

	weights := DefaultWeights()
	first := Score(seeker, candidate, weights)

	for i := 0; i < 10; i++ {
		if got := Score(seeker, candidate, weights); got != first {
			t.Fatalf("score changed between calls: %v vs %v", got, first)
		}
	}

	if first <= 0 || first > 1 {
		t.Fatalf("expected score in (0, 1], got %v", first)
	}
}

func TestScoreFavorsFittingClub(t *testing.T) {
	t.Parallel()

	seeker := Extract(&profile.Profile{
		ID:       "p1",
		Role:     profile.RolePlayer,
		Position: "Libero",
		Region:   "Buenos Aires",
	})
	fitting := Extract(&profile.Profile{
		ID:        "club-fit",
		Role:      profile.RoleClub,
		Region:    "Buenos Aires",
		Vacancies: []profile.Vacancy{{Position: "Libero"}},
	})
	other := Extract(&profile.Profile{
		ID:     "club-other",
		Role:   profile.RoleClub,
		Region: "Rosario",
	})

	weights := DefaultWeights()
	if fit, rest := Score(seeker, fitting, weights), Score(seeker, other, weights); fit <= rest {
		t.Fatalf("expected fitting club to score higher: %v vs %v", fit, rest)
	}
}

func TestProximityScore(t *testing.T) {
	t.Parallel()

	same := Extract(&profile.Profile{ID: "a", Role: profile.RolePlayer, Age: 24})
	near := Extract(&profile.Profile{ID: "b", Role: profile.RoleCoach, Age: 26})
	club := Extract(&profile.Profile{ID: "c", Role: profile.RoleClub})

	if got := proximityScore(same, same); got != 1 {
		t.Fatalf("identical ages must score 1, got %v", got)
	}
	if got := proximityScore(same, near); got >= 1 || got <= 0 {
		t.Fatalf("close ages must score in (0, 1), got %v", got)
	}
	if got := proximityScore(same, club); got != 0.5 {
		t.Fatalf("pairs without both ages must be neutral, got %v", got)
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	a := map[string]struct{}{"defense": {}, "serve": {}}
	b := map[string]struct{}{"defense": {}, "blocking": {}}

	if got := jaccard(a, b); got != 1.0/3.0 {
		t.Fatalf("expected 1/3, got %v", got)
	}
	if got := jaccard(a, a); got != 1 {
		t.Fatalf("expected 1 for identical sets, got %v", got)
	}
	if got := jaccard(a, nil); got != 0 {
		t.Fatalf("expected 0 for empty set, got %v", got)
	}
}

func TestReasons(t *testing.T) {
	t.Parallel()

	seeker := Extract(&profile.Profile{
		ID:          "p1",
		Role:        profile.RolePlayer,
		Position:    "Libero",
		Region:      "Buenos Aires",
		Specialties: []string{"defense"},
	})
	candidate := Extract(&profile.Profile{
		ID:        "c1",
		Role:      profile.RoleClub,
		Region:    "Buenos Aires",
		Vacancies: []profile.Vacancy{{Position: "Libero", Note: "defense"}},
	})

	reasons := Reasons(seeker, candidate)
	if len(reasons) != 3 {
		t.Fatalf("expected 3 reasons, got %v", reasons)
	}
	if reasons[0] != "position matches a listed vacancy" {
		t.Fatalf("unexpected first reason: %q", reasons[0])
	}
}
