package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

// Match is one ranked entry of a recommendation result.
type Match struct {
	Profile *profile.Profile `json:"profile"`

	// Score is the deterministic compatibility score in [0, 1].
	Score float64 `json:"score"`

	// ExternalScore is the optional external annotation score; nil when
	// the external layer was off or unavailable for this candidate. It is
	// never fabricated.
	ExternalScore *float64 `json:"external_score,omitempty"`

	// Combined blends Score and ExternalScore; equals Score when no
	// annotation is present.
	Combined float64 `json:"combined"`

	// Explanation is the deterministic reasoning, extended with the
	// external explanation when one was produced.
	Explanation string `json:"explanation,omitempty"`

	// AIAssisted marks entries whose combined score includes an external
	// annotation, so callers can tell them from deterministic-only ones.
	AIAssisted bool `json:"ai_assisted"`
}

// RecommendationResult is the ordered outcome of one recommendation
// request. Matches are sorted by combined score descending, ties broken by
// candidate id ascending, truncated to the requested limit.
type RecommendationResult struct {
	RequestID   string    `json:"request_id"`
	SeekerID    string    `json:"seeker_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Matches     []*Match  `json:"matches"`
}

// rank blends scores, orders, and truncates. blendWeight is the external
// share beta: combined = (1-beta)*deterministic + beta*external. The
// deterministic share always dominates; beta is validated at setup to stay
// within [0, 0.5].
func rank(seekerID string, matches []*Match, blendWeight float64, limit int) *RecommendationResult {
	for _, m := range matches {
		m.Combined = m.Score
		if m.ExternalScore != nil {
			m.Combined = (1-blendWeight)*m.Score + blendWeight*(*m.ExternalScore)
			m.AIAssisted = true
		}
	}

	sortMatches(matches)

	if limit < len(matches) {
		matches = matches[:limit]
	}

	return &RecommendationResult{
		RequestID:   uuid.NewString(),
		SeekerID:    seekerID,
		GeneratedAt: time.Now().UTC(),
		Matches:     matches,
	}
}

// sortMatches orders by combined score descending with a stable id-ascending
// tie-break, keeping rankings reproducible for identical inputs.
func sortMatches(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Combined != matches[j].Combined {
			return matches[i].Combined > matches[j].Combined
		}
		return matches[i].Profile.ID < matches[j].Profile.ID
	})
}
