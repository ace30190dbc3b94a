package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianarmendano-prog/transfermatch/internal/profile"
)

// Sub-score names accepted in a Weights configuration.
const (
	WeightAttributes  = "attributes"
	WeightProximity   = "proximity"
	WeightSpecialties = "specialties"
)

const weightSumEpsilon = 1e-6

// Weights maps sub-score names to their share of the deterministic score.
// Weights must be non-negative and sum to 1.
type Weights map[string]float64

// DefaultWeights favors hard attribute fit over fuzziness.
func DefaultWeights() Weights {
	return Weights{
		WeightAttributes:  0.5,
		WeightProximity:   0.2,
		WeightSpecialties: 0.3,
	}
}

// Validate rejects unknown keys, negative weights, and sums away from 1.
// It runs at setup time; scoring assumes validated weights.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return newConfigError("weights must not be empty")
	}

	known := map[string]bool{
		WeightAttributes:  true,
		WeightProximity:   true,
		WeightSpecialties: true,
	}

	sum := 0.0
	for name, weight := range w {
		if !known[name] {
			return newConfigError("unknown weight key %q", name)
		}
		if weight < 0 {
			return newConfigError("weight %q must not be negative, got %v", name, weight)
		}
		sum += weight
	}

	if math.Abs(sum-1) > weightSumEpsilon {
		return newConfigError("weights must sum to 1, got %v", sum)
	}

	return nil
}

// Compatible reports whether a candidate role can serve a seeker's transfer
// intent. Players and coaches look for clubs; clubs look for players and
// coaches. Incompatible candidates are excluded before scoring, never
// scored to zero.
func Compatible(seeker, candidate profile.Role) bool {
	switch seeker {
	case profile.RolePlayer, profile.RoleCoach:
		return candidate == profile.RoleClub
	case profile.RoleClub:
		return candidate == profile.RolePlayer || candidate == profile.RoleCoach
	default:
		return false
	}
}

// Score computes the deterministic compatibility score in [0, 1] for a
// seeker/candidate pair. Pure: identical vectors always produce an
// identical score.
func Score(seeker, candidate FeatureVector, w Weights) float64 {
	score := w[WeightAttributes]*attributeScore(seeker, candidate) +
		w[WeightProximity]*proximityScore(seeker, candidate) +
		w[WeightSpecialties]*jaccard(seeker.Tokens, candidate.Tokens)

	return math.Max(0, math.Min(1, score))
}

// attributeScore averages the categorical comparisons that are defined for
// the pair: position-to-vacancy fit and region equality. Pairs with no
// defined comparison score a neutral 0.5.
func attributeScore(seeker, candidate FeatureVector) float64 {
	total, matched := 0, 0

	if fit, ok := positionFit(seeker, candidate); ok {
		total++
		if fit {
			matched++
		}
	}

	seekerRegion, okA := seeker.Categorical[featureRegion]
	candidateRegion, okB := candidate.Categorical[featureRegion]
	if okA && okB {
		total++
		if seekerRegion == candidateRegion {
			matched++
		}
	}

	if total == 0 {
		return 0.5
	}
	return float64(matched) / float64(total)
}

// positionFit checks the seeker's position against the club side's listed
// vacancies. One side of every compatible pair is a club; when neither side
// exposes both a position and a vacancy list, the comparison is undefined.
func positionFit(seeker, candidate FeatureVector) (fit, defined bool) {
	if pos, ok := seeker.Categorical[featurePosition]; ok && len(candidate.Vacancies) > 0 {
		_, hit := candidate.Vacancies[pos]
		return hit, true
	}
	if pos, ok := candidate.Categorical[featurePosition]; ok && len(seeker.Vacancies) > 0 {
		_, hit := seeker.Vacancies[pos]
		return hit, true
	}
	return false, false
}

// proximityScore is the inverse distance between normalized ages. A side
// without an age attribute (clubs) makes the comparison neutral.
func proximityScore(seeker, candidate FeatureVector) float64 {
	a, okA := seeker.Numeric[featureAge]
	b, okB := candidate.Numeric[featureAge]
	if !okA || !okB {
		return 0.5
	}
	return 1 - math.Abs(a-b)
}

// jaccard is the token-intersection ratio of two token-presence sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersection := 0
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Reasons lists the deterministic facts behind a pair's score, used to
// build per-match explanations without any external service.
func Reasons(seeker, candidate FeatureVector) []string {
	var reasons []string

	if fit, ok := positionFit(seeker, candidate); ok {
		if fit {
			reasons = append(reasons, "position matches a listed vacancy")
		} else {
			reasons = append(reasons, "no vacancy for the position")
		}
	}

	seekerRegion, okA := seeker.Categorical[featureRegion]
	candidateRegion, okB := candidate.Categorical[featureRegion]
	if okA && okB {
		if seekerRegion == candidateRegion {
			reasons = append(reasons, fmt.Sprintf("same region (%s)", seekerRegion))
		} else {
			reasons = append(reasons, "different region")
		}
	}

	if shared := sharedTokens(seeker.Tokens, candidate.Tokens); len(shared) > 0 {
		reasons = append(reasons, fmt.Sprintf("shared specialties: %s", strings.Join(shared, ", ")))
	}

	return reasons
}

func sharedTokens(a, b map[string]struct{}) []string {
	var shared []string
	for token := range a {
		if _, ok := b[token]; ok {
			shared = append(shared, token)
		}
	}
	sort.Strings(shared)
	return shared
}
