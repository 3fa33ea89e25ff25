// Package gesture smooths noisy per-frame classifications into a stable
// prediction and grades its confidence.
package gesture

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// DefaultCapacity is the number of recent observations kept by a Buffer.
const DefaultCapacity = 5

// ErrEmptyBuffer is returned by Stabilized when nothing has been observed.
var ErrEmptyBuffer = errors.New("gesture buffer is empty")

// Observation is one per-frame classification.
type Observation struct {
	Label      string
	Confidence float64
}

// Prediction is the stabilized output for the current buffer contents.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Band       Band    `json:"band"`
}

// Buffer is a bounded FIFO of recent observations. When full, observing
// evicts the oldest entry. A Buffer belongs to a single stream and is not
// safe for concurrent use.
type Buffer struct {
	entries []Observation
	cap     int
}

// NewBuffer creates a Buffer holding at most capacity observations.
// A non-positive capacity selects DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries: make([]Observation, 0, capacity),
		cap:     capacity,
	}
}

// Observe appends a classification, evicting the oldest one at capacity.
func (b *Buffer) Observe(label string, confidence float64) {
	if len(b.entries) == b.cap {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:b.cap-1]
	}
	b.entries = append(b.entries, Observation{Label: label, Confidence: confidence})
}

// Clear drops every observation. The next Stabilized call reflects only
// frames observed after it.
func (b *Buffer) Clear() {
	b.entries = b.entries[:0]
}

// Len returns the number of buffered observations.
func (b *Buffer) Len() int { return len(b.entries) }

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int { return b.cap }

// Observations returns a copy of the buffered entries, oldest first.
func (b *Buffer) Observations() []Observation {
	return append([]Observation(nil), b.entries...)
}

// Stabilized returns the most frequent label in the buffer and the mean
// confidence of all buffered entries, whatever their label. A tie in
// frequency goes to the label that entered the buffer first. Band is left
// for the caller's BandPolicy.
func (b *Buffer) Stabilized() (Prediction, error) {
	if len(b.entries) == 0 {
		return Prediction{}, ErrEmptyBuffer
	}

	counts := make(map[string]int, len(b.entries))
	order := make([]string, 0, len(b.entries))
	confidences := make([]float64, len(b.entries))
	for i, e := range b.entries {
		if counts[e.Label] == 0 {
			order = append(order, e.Label)
		}
		counts[e.Label]++
		confidences[i] = e.Confidence
	}

	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}

	return Prediction{
		Label:      best,
		Confidence: stat.Mean(confidences, nil),
	}, nil
}
