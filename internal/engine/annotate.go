package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/julianarmendano-prog/transfermatch/internal/metrics"
	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

// annotate fans out external-scorer calls for the top-N deterministically
// scored matches. Bounds: at most cfg.ExternalTopN candidates, at most
// cfg.ExternalConcurrency calls in flight, one attempt per candidate, each
// with its own timeout derived from the request context. Calls do not share
// a cancellation token; one failing or slow call never cancels another.
//
// Every failure is absorbed here: the match simply keeps no annotation, and
// only a generic unavailable signal reaches the log. Each goroutine writes
// to its own match entry, so no locking is needed across calls.
func (r *Recommender) annotate(ctx context.Context, seeker *profile.Profile, matches []*Match) {
	n := r.cfg.ExternalTopN
	if n > len(matches) {
		n = len(matches)
	}
	if n <= 0 {
		return
	}

	sem := make(chan struct{}, r.cfg.ExternalConcurrency)
	var wg sync.WaitGroup

	for _, m := range matches[:n] {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(m *Match) {
			defer wg.Done()
			defer func() { <-sem }()

			r.annotateOne(ctx, seeker, m)
		}(m)
	}

	wg.Wait()
}

func (r *Recommender) annotateOne(ctx context.Context, seeker *profile.Profile, m *Match) {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.ExternalTimeout)
	defer cancel()

	start := time.Now()
	annotation, err := r.annotator.Annotate(callCtx, seeker, m.Profile)
	elapsed := time.Since(start)

	if err != nil || annotation == nil {
		metrics.RecordAnnotation(metrics.AnnotationUnavailable, elapsed.Seconds())
		r.logger.Debug("external scorer unavailable for candidate",
			zap.String("candidate_id", m.Profile.ID),
			zap.Duration("elapsed", elapsed),
		)
		return
	}

	metrics.RecordAnnotation(metrics.AnnotationOK, elapsed.Seconds())

	score := annotation.Score
	m.ExternalScore = &score
	if annotation.Explanation != "" {
		if m.Explanation != "" {
			m.Explanation += "; " + annotation.Explanation
		} else {
			m.Explanation = annotation.Explanation
		}
	}
}
