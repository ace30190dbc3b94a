package engine

import (
	"math"
	"strings"
	"unicode"

	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

// Feature keys used across extraction and scoring.
const (
	featureRole     = "role"
	featurePosition = "position"
	featureRegion   = "region"
	featureDivision = "division"
	featureAge      = "age"
)

// Age normalization domain. Ages outside the domain clamp to its edges;
// profiles without an age read as the domain midpoint.
const (
	minAge = 14
	maxAge = 46

	defaultAgeNorm = 0.5
)

// FeatureVector is the normalized view of one profile used for scoring.
// Extraction is a pure function of the profile snapshot: extracting twice
// from the same snapshot yields an identical vector.
type FeatureVector struct {
	// Categorical holds canonicalized string attributes (role, position,
	// region, division). Empty attributes are omitted.
	Categorical map[string]string

	// Numeric holds attributes scaled to [0, 1].
	Numeric map[string]float64

	// Tokens is the token-presence set reduced from free-text specialties
	// and vacancy notes.
	Tokens map[string]struct{}

	// Vacancies holds the canonicalized positions a club is hiring for.
	// Empty for players and coaches.
	Vacancies map[string]struct{}
}

// Extract derives the feature vector for a profile. It is total: malformed
// or missing attributes map to defaults, never to errors.
func Extract(p *profile.Profile) FeatureVector {
	v := FeatureVector{
		Categorical: make(map[string]string),
		Numeric:     make(map[string]float64),
		Tokens:      make(map[string]struct{}),
		Vacancies:   make(map[string]struct{}),
	}
	if p == nil {
		return v
	}

	v.Categorical[featureRole] = string(p.Role)
	setCategorical(v.Categorical, featureRegion, p.Region)

	for _, s := range p.Specialties {
		addTokens(v.Tokens, s)
	}

	switch p.Role {
	case profile.RolePlayer:
		setCategorical(v.Categorical, featurePosition, p.Position)
		v.Numeric[featureAge] = normalizeAge(p.Age)
	case profile.RoleCoach:
		setCategorical(v.Categorical, featurePosition, p.Specialization)
		v.Numeric[featureAge] = normalizeAge(p.Age)
	case profile.RoleClub:
		setCategorical(v.Categorical, featureDivision, p.Division)
		for _, vacancy := range p.Vacancies {
			if pos := canonical(vacancy.Position); pos != "" {
				v.Vacancies[pos] = struct{}{}
			}
			addTokens(v.Tokens, vacancy.Position)
			addTokens(v.Tokens, vacancy.Note)
		}
	}

	return v
}

func setCategorical(m map[string]string, key, value string) {
	if canon := canonical(value); canon != "" {
		m[key] = canon
	}
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAge scales an age to [0, 1] over the fixed [minAge, maxAge]
// domain. Unset or nonsensical ages read as the domain midpoint.
func normalizeAge(age int) float64 {
	if age <= 0 {
		return defaultAgeNorm
	}
	clamped := math.Max(minAge, math.Min(maxAge, float64(age)))
	return (clamped - minAge) / (maxAge - minAge)
}

// addTokens splits free text on non-alphanumeric runes and records each
// token of two or more runes, lowercased.
func addTokens(set map[string]struct{}, text string) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		set[f] = struct{}{}
	}
}
