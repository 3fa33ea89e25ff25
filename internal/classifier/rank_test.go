package classifier

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	vocab := mustVocab(t, "alif", "ba", "ta")

	t.Run("top two excluding primary", func(t *testing.T) {
		got := Rank([]float64{0.7, 0.2, 0.1}, vocab, 3, true)

		want := []Ranked{{"ba", 0.2}, {"ta", 0.1}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Rank() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("including primary", func(t *testing.T) {
		got := Rank([]float64{0.1, 0.2, 0.7}, vocab, 3, false)

		want := []Ranked{{"ta", 0.7}, {"ba", 0.2}, {"alif", 0.1}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Rank() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ties broken by label", func(t *testing.T) {
		v := mustVocab(t, "zay", "dal", "ba", "ha")
		got := Rank([]float64{0.3, 0.3, 0.1, 0.3}, v, 3, false)

		want := []Ranked{{"dal", 0.3}, {"ha", 0.3}, {"zay", 0.3}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Rank() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("small vocabulary", func(t *testing.T) {
		v := mustVocab(t, "alif", "ba")

		assert.Len(t, Rank([]float64{0.6, 0.4}, v, 3, false), 2)
		assert.Len(t, Rank([]float64{0.6, 0.4}, v, 3, true), 1)

		single := mustVocab(t, "alif")
		assert.Empty(t, Rank([]float64{1}, single, 3, true))
	})

	t.Run("non-positive k", func(t *testing.T) {
		assert.Empty(t, Rank([]float64{0.7, 0.2, 0.1}, vocab, 0, false))
	})

	t.Run("does not modify the input", func(t *testing.T) {
		in := []float64{0.1, 0.7, 0.2}
		Rank(in, vocab, 3, false)
		assert.Equal(t, []float64{0.1, 0.7, 0.2}, in)
	})
}

func TestRank_LengthAndOrder(t *testing.T) {
	labels := strings.Split("alif ba ta tha jim ha kha dal dhal ra", " ")
	vocab := mustVocab(t, labels...)

	vectors := [][]float64{
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		{0.9, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.02, 0.01},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	}

	for _, v := range vectors {
		got := Rank(v, vocab, 3, false)
		require.Len(t, got, 3)

		seen := map[string]bool{}
		for i, r := range got {
			assert.False(t, seen[r.Label], "duplicate label %s", r.Label)
			seen[r.Label] = true
			if i > 0 {
				prev := got[i-1]
				ordered := prev.Confidence > r.Confidence ||
					(prev.Confidence == r.Confidence && prev.Label < r.Label)
				assert.True(t, ordered, "entries %d and %d out of order: %+v", i-1, i, got)
			}
		}

		assert.Equal(t, got, Rank(v, vocab, 3, false), "ranking must be reproducible")
	}
}

func TestSummarize(t *testing.T) {
	vocab := mustVocab(t, "alif", "ba", "ta")

	res := Summarize([]float64{0.2, 0.7, 0.1}, vocab, 3)

	assert.Equal(t, "ba", res.Label)
	assert.Equal(t, 0.7, res.Confidence)
	assert.True(t, res.HandDetected)
	require.Len(t, res.Alternatives, 3)
	assert.Equal(t, res.Confidence, res.Alternatives[0].Confidence)
}
