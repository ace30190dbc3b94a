package engine

import (
	"testing"

	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

func match(id string, score float64) *Match {
	return &Match{
		Profile: &profile.Profile{ID: id, Role: profile.RoleClub},
		Score:   score,
	}
}

func TestRankOrdersAndTruncates(t *testing.T) {
	t.Parallel()

	matches := []*Match{
		match("c", 0.2),
		match("a", 0.9),
		match("b", 0.5),
		match("d", 0.7),
	}

	result := rank("seeker", matches, 0, 3)

	if result.RequestID == "" {
		t.Fatalf("expected a request id")
	}
	if result.GeneratedAt.IsZero() {
		t.Fatalf("expected a generation timestamp")
	}
	if len(result.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(result.Matches))
	}

	for i := 1; i < len(result.Matches); i++ {
		if result.Matches[i-1].Combined < result.Matches[i].Combined {
			t.Fatalf("matches not sorted descending: %v", result.Matches)
		}
	}
	if result.Matches[0].Profile.ID != "a" {
		t.Fatalf("expected a first, got %s", result.Matches[0].Profile.ID)
	}
}

func TestRankTieBreakByIDAscending(t *testing.T) {
	t.Parallel()

	matches := []*Match{
		match("zulu", 0.5),
		match("alpha", 0.5),
		match("mike", 0.5),
	}

	result := rank("seeker", matches, 0, 10)

	got := []string{
		result.Matches[0].Profile.ID,
		result.Matches[1].Profile.ID,
		result.Matches[2].Profile.ID,
	}
	want := []string{"alpha", "mike", "zulu"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestRankBlendsExternalScore(t *testing.T) {
	t.Parallel()

	external := 1.0
	annotated := match("a", 0.5)
	annotated.ExternalScore = &external
	plain := match("b", 0.5)

	result := rank("seeker", []*Match{annotated, plain}, 0.4, 10)

	first := result.Matches[0]
	if first.Profile.ID != "a" {
		t.Fatalf("expected annotated match first, got %s", first.Profile.ID)
	}

	want := 0.6*0.5 + 0.4*1.0
	if first.Combined != want {
		t.Fatalf("expected combined %v, got %v", want, first.Combined)
	}
	if !first.AIAssisted {
		t.Fatalf("annotated match must be marked ai-assisted")
	}

	second := result.Matches[1]
	if second.AIAssisted {
		t.Fatalf("plain match must stay deterministic-only")
	}
	if second.Combined != second.Score {
		t.Fatalf("plain match combined must equal deterministic score")
	}
}

func TestRankLimitLargerThanPool(t *testing.T) {
	t.Parallel()

	result := rank("seeker", []*Match{match("a", 0.3)}, 0, 10)
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
}
