package classifier

import (
	"cmp"
	"slices"
)

// DefaultTopK is the number of ranked entries shown alongside a prediction.
const DefaultTopK = 3

// Rank returns the k most confident labels, best first. Equal confidences
// are ordered by label so identical inputs always rank identically.
// With excludePrimary the best entry is dropped from the top k, leaving
// min(k, n)-1 alternatives.
//
// confidences must be aligned with vocab; Normalize guarantees this.
func Rank(confidences []float64, vocab Vocabulary, k int, excludePrimary bool) []Ranked {
	n := min(len(confidences), vocab.Len())
	if k <= 0 || n == 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, n)
	for i := 0; i < n; i++ {
		ranked[i] = Ranked{Label: vocab[i], Confidence: confidences[i]}
	}

	slices.SortFunc(ranked, func(a, b Ranked) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	top := ranked[:min(k, n)]
	if excludePrimary {
		top = top[1:]
	}
	return slices.Clone(top)
}

// Summarize builds a Result from normalized confidences: the best label is
// the prediction and the top k entries, primary included, are the alternatives.
// HandDetected is set; callers that classified a whole image clear it.
func Summarize(confidences []float64, vocab Vocabulary, k int) Result {
	top := Rank(confidences, vocab, max(k, 1), false)
	if len(top) == 0 {
		return Result{}
	}
	return Result{
		Label:        top[0].Label,
		Confidence:   top[0].Confidence,
		Alternatives: top,
		HandDetected: true,
	}
}
