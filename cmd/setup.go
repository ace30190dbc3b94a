package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/julianarmendano-prog/transfermatch/internal/ai"
	"github.com/julianarmendano-prog/transfermatch/internal/ai/gemini"
	"github.com/julianarmendano-prog/transfermatch/internal/engine"
	"github.com/julianarmendano-prog/transfermatch/internal/logger"
	"github.com/julianarmendano-prog/transfermatch/internal/profile"
	"github.com/julianarmendano-prog/transfermatch/internal/secrets"
)

// buildRecommender wires the profile store, the optional AI annotator, and
// the engine from the loaded configuration. Shared by recommend and serve.
func buildRecommender(ctx context.Context, config *Config, log *zap.Logger) (*engine.Recommender, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(config.ProfilesFile) == "" {
		return nil, errors.New("profiles-file is required")
	}

	store, err := profile.NewFileStore(config.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("loading profile store: %w", err)
	}

	log.Info("profile store loaded",
		zap.String("path", config.ProfilesFile),
		zap.Int("profiles", store.Len()),
	)

	annotator, err := newAnnotator(ctx, config.AI, log)
	if err != nil {
		log.Warn("external scoring disabled", zap.Error(err))
		annotator = nil
	}

	return engine.New(store, annotator, engineConfig(config.Engine), log)
}

func engineConfig(cfg *EngineConfig) engine.Config {
	out := engine.DefaultConfig()
	if cfg == nil {
		return out
	}

	if len(cfg.Weights) > 0 {
		out.Weights = engine.Weights(cfg.Weights)
	}
	if cfg.BlendWeight > 0 {
		out.BlendWeight = cfg.BlendWeight
	}
	if cfg.MaxLimit > 0 {
		out.MaxLimit = cfg.MaxLimit
	}
	if cfg.ExternalTopN > 0 {
		out.ExternalTopN = cfg.ExternalTopN
	}
	if cfg.ExternalConcurrency > 0 {
		out.ExternalConcurrency = cfg.ExternalConcurrency
	}
	if cfg.ExternalTimeoutSeconds > 0 {
		out.ExternalTimeout = time.Duration(cfg.ExternalTimeoutSeconds) * time.Second
	}
	if cfg.RequestTimeoutSeconds > 0 {
		out.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}

	return out
}

// newAnnotator builds the external scorer from configuration. A disabled or
// missing AI section yields (nil, nil): the engine then runs
// deterministic-only.
func newAnnotator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Annotator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	scorerLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	return gemini.NewScorer(generator, scorerLogger, cfg.Gemini.MaxLogLength), nil
}
