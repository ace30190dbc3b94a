package engine

import (
	"reflect"
	"testing"

	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{
		ID:          "p1",
		Role:        profile.RolePlayer,
		Position:    "Libero",
		Age:         24,
		Region:      "Buenos Aires",
		Specialties: []string{"defensive specialist", "serve receive"},
	}

	first := Extract(p)
	second := Extract(p)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical vectors, got %+v and %+v", first, second)
	}
}

func TestExtractPlayer(t *testing.T) {
	t.Parallel()

	v := Extract(&profile.Profile{
		ID:       "p1",
		Role:     profile.RolePlayer,
		Position: "  Libero ",
		Age:      30,
		Region:   "Buenos Aires",
	})

	if got := v.Categorical[featurePosition]; got != "libero" {
		t.Fatalf("expected canonical position, got %q", got)
	}
	if got := v.Categorical[featureRegion]; got != "buenos aires" {
		t.Fatalf("expected canonical region, got %q", got)
	}

	expectedAge := (30.0 - minAge) / (maxAge - minAge)
	if got := v.Numeric[featureAge]; got != expectedAge {
		t.Fatalf("expected age %v, got %v", expectedAge, got)
	}
}

func TestExtractClubVacancies(t *testing.T) {
	t.Parallel()

	v := Extract(&profile.Profile{
		ID:   "c1",
		Role: profile.RoleClub,
		Vacancies: []profile.Vacancy{
			{Position: "Libero", Note: "urgent defensive specialist"},
			{Position: "Setter"},
		},
	})

	for _, pos := range []string{"libero", "setter"} {
		if _, ok := v.Vacancies[pos]; !ok {
			t.Fatalf("expected vacancy %q in %v", pos, v.Vacancies)
		}
	}
	if _, ok := v.Tokens["urgent"]; !ok {
		t.Fatalf("expected vacancy note tokens, got %v", v.Tokens)
	}
	if _, ok := v.Numeric[featureAge]; ok {
		t.Fatalf("clubs must not carry an age attribute")
	}
}

func TestExtractDefaults(t *testing.T) {
	t.Parallel()

	v := Extract(&profile.Profile{ID: "p1", Role: profile.RolePlayer})

	if got := v.Numeric[featureAge]; got != defaultAgeNorm {
		t.Fatalf("expected default age %v, got %v", defaultAgeNorm, got)
	}
	if _, ok := v.Categorical[featurePosition]; ok {
		t.Fatalf("empty position must be omitted")
	}
	if _, ok := v.Categorical[featureRegion]; ok {
		t.Fatalf("empty region must be omitted")
	}
}

func TestExtractAgeClamping(t *testing.T) {
	t.Parallel()

	young := Extract(&profile.Profile{ID: "a", Role: profile.RolePlayer, Age: 10})
	old := Extract(&profile.Profile{ID: "b", Role: profile.RolePlayer, Age: 70})

	if got := young.Numeric[featureAge]; got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	if got := old.Numeric[featureAge]; got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
}

func TestAddTokens(t *testing.T) {
	t.Parallel()

	set := make(map[string]struct{})
	addTokens(set, "Serve-Receive, blocking & A defence!")

	for _, want := range []string{"serve", "receive", "blocking", "defence"} {
		if _, ok := set[want]; !ok {
			t.Fatalf("expected token %q in %v", want, set)
		}
	}
	if _, ok := set["a"]; ok {
		t.Fatalf("single-rune tokens must be dropped")
	}
}
