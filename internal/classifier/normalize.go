package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidScores is returned when a raw score vector breaks its backend's contract.
	ErrInvalidScores = errors.New("invalid score vector")
	// ErrUnknownKind is returned for a backend kind the normalizer does not handle.
	ErrUnknownKind = errors.New("unknown backend kind")
)

// ProbabilityTolerance is how far a probability vector may sum away from 1.
const ProbabilityTolerance = 1e-3

// Squash maps a decision margin into (0, 1) with the logistic function.
//
// The result is for display only. It is strictly increasing in the margin
// but it is not a calibrated probability, so squashed margins must not be
// compared numerically with probabilities from another backend.
func Squash(margin float64) float64 {
	return 1 / (1 + math.Exp(-margin))
}

// Normalize converts raw backend scores into one confidence in [0, 1] per
// vocabulary label. Probabilities are validated and returned unchanged;
// margins are squashed. Malformed input is reported, never corrected.
func Normalize(raw []float64, kind Kind, vocab Vocabulary) ([]float64, error) {
	if len(raw) != vocab.Len() {
		return nil, fmt.Errorf("%w: got %d scores for %d labels", ErrInvalidScores, len(raw), vocab.Len())
	}
	for i, s := range raw {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: score %d (%s) is %v", ErrInvalidScores, i, vocab[i], s)
		}
	}

	switch kind {
	case KindProbability:
		for i, p := range raw {
			if p < 0 || p > 1 {
				return nil, fmt.Errorf("%w: probability %d (%s) = %v outside [0,1]", ErrInvalidScores, i, vocab[i], p)
			}
		}
		if sum := floats.Sum(raw); math.Abs(sum-1) > ProbabilityTolerance {
			return nil, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidScores, sum)
		}
		return append([]float64(nil), raw...), nil

	case KindMargin:
		out := make([]float64, len(raw))
		for i, m := range raw {
			out[i] = Squash(m)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
