package classifier

import (
	"context"
	"sync"

	"gocv.io/x/gocv"
)

// MockClassifier is a test implementation of the Classifier interface.
type MockClassifier struct {
	mu     sync.Mutex
	kind   Kind
	scores []float64
	queue  [][]float64
	err    error
	sizes  [][2]int
}

// NewMockClassifier creates a MockClassifier that declares kind.
func NewMockClassifier(kind Kind) *MockClassifier {
	return &MockClassifier{kind: kind}
}

// SetScores sets the scores returned by every Classify call.
func (m *MockClassifier) SetScores(scores []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = scores
}

// Enqueue schedules per-call scores, consumed before the SetScores default.
func (m *MockClassifier) Enqueue(scores ...[]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scores...)
}

// SetError sets the error returned by Classify.
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// CropSizes returns the (cols, rows) of every crop passed to Classify.
func (m *MockClassifier) CropSizes() [][2]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]int(nil), m.sizes...)
}

// Kind returns the declared score semantics.
func (m *MockClassifier) Kind() Kind {
	return m.kind
}

// Classify returns the pre-configured scores or error.
func (m *MockClassifier) Classify(ctx context.Context, crop *gocv.Mat) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if crop != nil {
		m.sizes = append(m.sizes, [2]int{crop.Cols(), crop.Rows()})
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.scores, nil
}

// Close is a no-op for the mock classifier.
func (m *MockClassifier) Close() error {
	return nil
}
