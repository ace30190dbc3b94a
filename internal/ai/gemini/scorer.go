package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/julianarmendano-prog/transfermatch/internal/ai"
	"github.com/julianarmendano-prog/transfermatch/internal/profile"
	"github.com/julianarmendano-prog/transfermatch/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer implements ai.Annotator on top of a Gemini content generator. It
// builds a compact seeker/candidate prompt, parses the JSON reply, and
// normalizes the score into [0, 1].
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewScorer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Annotate scores one seeker/candidate pair. Only the profile summaries are
// sent to the provider, never the full snapshots.
func (s *Scorer) Annotate(ctx context.Context, seeker, candidate *profile.Profile) (*ai.Annotation, error) {
	if seeker == nil {
		return nil, fmt.Errorf("seeker profile is required")
	}
	if candidate == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}

	seekerJSON, err := json.MarshalIndent(seeker.Summary(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal seeker summary: %w", err)
	}

	candidateJSON, err := json.MarshalIndent(candidate.Summary(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate summary: %w", err)
	}

	prompt := buildPrompt(string(seekerJSON), string(candidateJSON))

	s.logger.Debug("gemini generate content request",
		zap.String("seeker_id", seeker.ID),
		zap.String("candidate_id", candidate.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.String("seeker_id", seeker.ID),
		zap.String("candidate_id", candidate.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	annotation, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	annotation.Raw = raw
	return annotation, nil
}

func buildPrompt(seekerJSON, candidateJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Seeker:\n{{SEEKER_JSON}}\n\nCandidate:\n{{CANDIDATE_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{SEEKER_JSON}}", seekerJSON)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", candidateJSON)
	return prompt
}

func parseResponse(raw string) (*ai.Annotation, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = extractJSON(cleaned)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		return nil, fmt.Errorf("gemini response is missing a usable score")
	}

	return &ai.Annotation{
		Score:       normalizeScore(score),
		Explanation: coerceString(data["explanation"]),
	}, nil
}

// normalizeScore maps replies on a 0-100 scale back to [0, 1] and clamps.
func normalizeScore(score float64) float64 {
	if score > 1 && score <= 100 {
		score /= 100
	}
	return math.Max(0, math.Min(1, score))
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
