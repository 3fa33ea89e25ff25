package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/ishara/internal/classifier"
)

// Band is a coarse confidence tier used to color a prediction.
// Bands are ordered: BandLow < BandMedium < BandHigh.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// String returns the lowercase band name.
func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText encodes the band by name.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ErrInvalidPolicy is returned by Validate for unusable thresholds.
var ErrInvalidPolicy = errors.New("invalid band policy")

// BandPolicy holds the percent thresholds at which a confidence reaches
// the high and medium bands.
type BandPolicy struct {
	High   float64 `json:"high_threshold"`
	Medium float64 `json:"medium_threshold"`
}

// DefaultPolicy returns the thresholds tuned for a backend's score scale.
// Squashed margins run lower than softmax output, so they get lower bars.
func DefaultPolicy(kind classifier.Kind) BandPolicy {
	if kind == classifier.KindMargin {
		return BandPolicy{High: 85, Medium: 65}
	}
	return BandPolicy{High: 90, Medium: 75}
}

// Band maps a confidence percent in [0, 100] to its band.
func (p BandPolicy) Band(percent float64) Band {
	switch {
	case percent >= p.High:
		return BandHigh
	case percent >= p.Medium:
		return BandMedium
	default:
		return BandLow
	}
}

// Validate reports thresholds outside [0, 100] or a medium bar above the high one.
func (p BandPolicy) Validate() error {
	for name, v := range map[string]float64{"high": p.High, "medium": p.Medium} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s threshold %v outside [0,100]", ErrInvalidPolicy, name, v)
		}
	}
	if p.Medium > p.High {
		return fmt.Errorf("%w: medium threshold %v above high threshold %v", ErrInvalidPolicy, p.Medium, p.High)
	}
	return nil
}
