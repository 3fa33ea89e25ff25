package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVocab(t *testing.T, labels ...string) Vocabulary {
	t.Helper()
	v, err := NewVocabulary(labels...)
	require.NoError(t, err)
	return v
}

func TestSquash(t *testing.T) {
	assert.InDelta(t, 0.5, Squash(0), 1e-12)
	assert.InDelta(t, 0.7310585786, Squash(1), 1e-9)
	assert.InDelta(t, 0.2689414214, Squash(-1), 1e-9)

	t.Run("strictly increasing", func(t *testing.T) {
		prev := Squash(-30)
		for m := -29.9; m <= 30; m += 0.1 {
			cur := Squash(m)
			if cur <= prev {
				t.Fatalf("Squash(%v) = %v not greater than previous %v", m, cur, prev)
			}
			prev = cur
		}
	})

	t.Run("stays within unit interval", func(t *testing.T) {
		for _, m := range []float64{-1000, -50, 50, 1000} {
			s := Squash(m)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	})
}

func TestNormalize_Probability(t *testing.T) {
	vocab := mustVocab(t, "alif", "ba", "ta")

	t.Run("passes a valid distribution through unchanged", func(t *testing.T) {
		raw := []float64{0.7, 0.2, 0.1}

		got, err := Normalize(raw, KindProbability, vocab)

		require.NoError(t, err)
		assert.Equal(t, raw, got)

		got[0] = 0
		assert.Equal(t, 0.7, raw[0], "normalized vector must not alias the input")
	})

	t.Run("accepts small rounding error", func(t *testing.T) {
		_, err := Normalize([]float64{0.7004, 0.2, 0.1}, KindProbability, vocab)
		assert.NoError(t, err)
	})

	invalid := map[string][]float64{
		"sum too low":  {0.5, 0.2, 0.1},
		"sum too high": {0.9, 0.2, 0.1},
		"negative":     {1.1, -0.05, -0.05},
		"nan":          {math.NaN(), 0.5, 0.5},
		"wrong length": {0.5, 0.5},
	}
	for name, raw := range invalid {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := Normalize(raw, KindProbability, vocab)
			assert.ErrorIs(t, err, ErrInvalidScores)
		})
	}
}

func TestNormalize_Margin(t *testing.T) {
	vocab := mustVocab(t, "alif", "ba", "ta")

	t.Run("squashes every class", func(t *testing.T) {
		got, err := Normalize([]float64{2.0, -1.0, 0}, KindMargin, vocab)

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.InDelta(t, Squash(2.0), got[0], 1e-12)
		assert.InDelta(t, Squash(-1.0), got[1], 1e-12)
		assert.InDelta(t, 0.5, got[2], 1e-12)
	})

	t.Run("preserves margin order", func(t *testing.T) {
		got, err := Normalize([]float64{-3.2, 1.5, 0.4}, KindMargin, vocab)

		require.NoError(t, err)
		assert.Less(t, got[0], got[2])
		assert.Less(t, got[2], got[1])
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := Normalize([]float64{1, 2, 3, 4}, KindMargin, vocab)
		assert.ErrorIs(t, err, ErrInvalidScores)
	})

	t.Run("rejects infinite margin", func(t *testing.T) {
		_, err := Normalize([]float64{math.Inf(1), 0, 0}, KindMargin, vocab)
		assert.ErrorIs(t, err, ErrInvalidScores)
	})
}

func TestNormalize_UnknownKind(t *testing.T) {
	vocab := mustVocab(t, "a")
	_, err := Normalize([]float64{1}, Kind("logits"), vocab)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"cnn":         KindProbability,
		"probability": KindProbability,
		"SVM":         KindMargin,
		" hog ":       KindMargin,
		"margin":      KindMargin,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("knn")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
