package gesture

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/ishara/internal/classifier"
)

func TestBandPolicy_Band(t *testing.T) {
	tests := []struct {
		kind    classifier.Kind
		percent float64
		want    Band
	}{
		{classifier.KindProbability, 95, BandHigh},
		{classifier.KindProbability, 90, BandHigh},
		{classifier.KindProbability, 89.9, BandMedium},
		{classifier.KindProbability, 75, BandMedium},
		{classifier.KindProbability, 74.9, BandLow},
		{classifier.KindMargin, 85, BandHigh},
		{classifier.KindMargin, 84, BandMedium},
		{classifier.KindMargin, 65, BandMedium},
		{classifier.KindMargin, 64, BandLow},
		{classifier.KindMargin, 0, BandLow},
	}

	for _, tt := range tests {
		got := DefaultPolicy(tt.kind).Band(tt.percent)
		assert.Equal(t, tt.want, got, "%s at %v", tt.kind, tt.percent)
	}
}

func TestBandPolicy_Monotonic(t *testing.T) {
	for _, kind := range []classifier.Kind{classifier.KindProbability, classifier.KindMargin} {
		p := DefaultPolicy(kind)
		prev := p.Band(0)
		for c := 0.0; c <= 100; c += 0.25 {
			cur := p.Band(c)
			if cur < prev {
				t.Fatalf("%s: band dropped from %s to %s at %v", kind, prev, cur, c)
			}
			prev = cur
		}
	}
}

func TestBandPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy(classifier.KindProbability).Validate())
	assert.NoError(t, DefaultPolicy(classifier.KindMargin).Validate())
	assert.NoError(t, BandPolicy{High: 50, Medium: 50}.Validate())

	assert.ErrorIs(t, BandPolicy{High: 60, Medium: 70}.Validate(), ErrInvalidPolicy)
	assert.ErrorIs(t, BandPolicy{High: 120, Medium: 70}.Validate(), ErrInvalidPolicy)
	assert.ErrorIs(t, BandPolicy{High: 90, Medium: -1}.Validate(), ErrInvalidPolicy)
}

func TestBand_JSON(t *testing.T) {
	out, err := json.Marshal(Prediction{Label: "alif", Confidence: 91, Band: BandHigh})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"label":"alif","confidence":91,"band":"high"}`, string(out))
}
