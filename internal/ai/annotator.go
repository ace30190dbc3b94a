package ai

import (
	"context"

	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

// Annotation is the supplementary signal produced by an external scorer for
// one seeker/candidate pair. Score is normalized to [0, 1].
type Annotation struct {
	Score       float64
	Explanation string
	Raw         string
}

// Annotator produces an optional annotation for a seeker/candidate pair.
// Implementations may call remote services and must honor ctx deadlines.
// Callers treat every error as "annotation unavailable" and carry on with
// the deterministic score only.
type Annotator interface {
	Annotate(ctx context.Context, seeker, candidate *profile.Profile) (*Annotation, error)
}
