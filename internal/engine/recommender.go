// Package engine implements the profile matching and recommendation
// pipeline: feature extraction, deterministic scoring, optional external
// annotation, and ranking.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/julianarmendano-prog/transfermatch/internal/ai"
	"github.com/julianarmendano-prog/transfermatch/internal/metrics"
	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

// Config tunes the engine. Zero values are filled from DefaultConfig by
// New; a fully explicit Config must still pass validation.
type Config struct {
	// Weights drive the deterministic sub-score blend.
	Weights Weights

	// BlendWeight is the external score share in the combined score.
	// Must stay within [0, 0.5] so the deterministic score dominates.
	BlendWeight float64

	// MaxLimit caps the per-request result limit.
	MaxLimit int

	// ExternalTopN bounds how many top deterministic candidates are sent
	// to the external scorer per request.
	ExternalTopN int

	// ExternalConcurrency bounds in-flight external calls.
	ExternalConcurrency int

	// ExternalTimeout is the per-call external scorer deadline.
	ExternalTimeout time.Duration

	// RequestTimeout is the outer deadline for a whole request.
	RequestTimeout time.Duration
}

const (
	defaultMaxLimit            = 50
	defaultBlendWeight         = 0.3
	maxBlendWeight             = 0.5
	defaultExternalTopN        = 10
	defaultExternalConcurrency = 4
	defaultExternalTimeout     = 10 * time.Second
	defaultRequestTimeout      = 30 * time.Second
)

func DefaultConfig() Config {
	return Config{
		Weights:             DefaultWeights(),
		BlendWeight:         defaultBlendWeight,
		MaxLimit:            defaultMaxLimit,
		ExternalTopN:        defaultExternalTopN,
		ExternalConcurrency: defaultExternalConcurrency,
		ExternalTimeout:     defaultExternalTimeout,
		RequestTimeout:      defaultRequestTimeout,
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Weights == nil {
		c.Weights = defaults.Weights
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = defaults.MaxLimit
	}
	if c.ExternalTopN == 0 {
		c.ExternalTopN = defaults.ExternalTopN
	}
	if c.ExternalConcurrency == 0 {
		c.ExternalConcurrency = defaults.ExternalConcurrency
	}
	if c.ExternalTimeout == 0 {
		c.ExternalTimeout = defaults.ExternalTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
}

func (c Config) validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.BlendWeight < 0 || c.BlendWeight > maxBlendWeight {
		return newConfigError("blend weight must be within [0, %v], got %v", maxBlendWeight, c.BlendWeight)
	}
	if c.MaxLimit <= 0 {
		return newConfigError("max limit must be positive, got %d", c.MaxLimit)
	}
	if c.ExternalTopN < 0 {
		return newConfigError("external top-n must not be negative, got %d", c.ExternalTopN)
	}
	if c.ExternalConcurrency <= 0 {
		return newConfigError("external concurrency must be positive, got %d", c.ExternalConcurrency)
	}
	if c.ExternalTimeout <= 0 {
		return newConfigError("external timeout must be positive, got %v", c.ExternalTimeout)
	}
	if c.RequestTimeout <= 0 {
		return newConfigError("request timeout must be positive, got %v", c.RequestTimeout)
	}
	return nil
}

// Options are the per-request knobs of Recommend.
type Options struct {
	// Limit is the maximum number of matches to return. Must be positive.
	Limit int

	// UseExternalScoring enables the external annotation layer for this
	// request. A missing annotator downgrades it to deterministic-only.
	UseExternalScoring bool
}

// Recommender is the recommendation request surface. Safe for concurrent
// use: per-request state lives on the stack.
type Recommender struct {
	store     profile.Store
	annotator ai.Annotator
	cfg       Config
	logger    *zap.Logger
}

// New builds a Recommender. annotator may be nil to disable external
// scoring entirely. Configuration problems are rejected here, before any
// request runs.
func New(store profile.Store, annotator ai.Annotator, cfg Config, logger *zap.Logger) (*Recommender, error) {
	if store == nil {
		return nil, errors.New("profile store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Recommender{
		store:     store,
		annotator: annotator,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Recommend produces the ranked matches for a seeker. It either returns a
// complete result (entries may lack external annotations) or a single
// attributable error; never a partial success.
func (r *Recommender) Recommend(ctx context.Context, seekerID string, opts Options) (*RecommendationResult, error) {
	if opts.Limit <= 0 {
		metrics.RecordRecommendation("config_error")
		return nil, newConfigError("limit must be positive, got %d", opts.Limit)
	}

	limit := opts.Limit
	if limit > r.cfg.MaxLimit {
		r.logger.Debug("capping requested limit",
			zap.Int("requested", limit),
			zap.Int("max", r.cfg.MaxLimit),
		)
		limit = r.cfg.MaxLimit
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	seeker, err := r.store.GetProfile(ctx, seekerID)
	if err != nil {
		metrics.RecordRecommendation("not_found")
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, seekerID)
		}
		return nil, fmt.Errorf("resolving seeker %s: %w", seekerID, err)
	}

	matches, skipped := r.collect(ctx, seeker)

	useExternal := opts.UseExternalScoring && r.annotator != nil
	if useExternal {
		// Matches are already ordered by deterministic score, so the
		// fan-out hits only the strongest candidates.
		sortMatches(matches)
		r.annotate(ctx, seeker, matches)
	}

	result := rank(seeker.ID, matches, r.cfg.BlendWeight, limit)

	annotated := 0
	for _, m := range result.Matches {
		if m.AIAssisted {
			annotated++
		}
	}

	r.logger.Info("recommendation completed",
		zap.String("request_id", result.RequestID),
		zap.String("seeker_id", seeker.ID),
		zap.String("seeker_role", string(seeker.Role)),
		zap.Int("scored", len(matches)),
		zap.Int("skipped", skipped),
		zap.Int("returned", len(result.Matches)),
		zap.Int("ai_assisted", annotated),
		zap.Bool("external_scoring", useExternal),
	)

	metrics.RecordRecommendation("ok")
	return result, nil
}

// collect drains the candidate sequence, applies the hard role filter, and
// scores the survivors. Store errors mid-iteration drop only the affected
// candidate; the request keeps going with the rest.
func (r *Recommender) collect(ctx context.Context, seeker *profile.Profile) (matches []*Match, skipped int) {
	seekerVector := Extract(seeker)
	seeking := true

	filter := profile.Filter{Roles: compatibleRoles(seeker.Role)}
	if seeker.Role == profile.RoleClub {
		// Clubs look for people on the move; people look for clubs,
		// which announce their demand via vacancies instead.
		filter.SeekingTransfer = &seeking
	}

	for candidate, err := range r.store.ListCandidates(ctx, filter) {
		if err != nil {
			skipped++
			metrics.RecordCandidateSkipped()
			r.logger.Warn("candidate unavailable, skipping", zap.Error(err))
			continue
		}
		if candidate.ID == seeker.ID || !Compatible(seeker.Role, candidate.Role) {
			continue
		}

		candidateVector := Extract(candidate)
		score := Score(seekerVector, candidateVector, r.cfg.Weights)

		matches = append(matches, &Match{
			Profile:     candidate,
			Score:       score,
			Combined:    score,
			Explanation: explanation(seekerVector, candidateVector),
		})
		metrics.RecordCandidateScored()
	}

	return matches, skipped
}

func compatibleRoles(seeker profile.Role) []profile.Role {
	switch seeker {
	case profile.RolePlayer, profile.RoleCoach:
		return []profile.Role{profile.RoleClub}
	case profile.RoleClub:
		return []profile.Role{profile.RolePlayer, profile.RoleCoach}
	default:
		return nil
	}
}

func explanation(seeker, candidate FeatureVector) string {
	reasons := Reasons(seeker, candidate)
	if len(reasons) == 0 {
		return ""
	}

	text := reasons[0]
	for _, reason := range reasons[1:] {
		text += "; " + reason
	}
	return text
}
