// Package classifier defines the classifier backends and turns their raw
// scores into comparable, ranked confidences.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// Kind declares what a backend's raw scores mean.
type Kind string

const (
	// KindProbability scores form a probability distribution (CNN softmax output).
	KindProbability Kind = "probability"
	// KindMargin scores are unbounded one-vs-rest decision values (linear SVM).
	KindMargin Kind = "margin"
)

// ParseKind maps a config or flag value to a Kind. Backend names are
// accepted as aliases ("cnn", "svm", "hog").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "probability", "cnn":
		return KindProbability, nil
	case "margin", "svm", "hog", "hog+svm":
		return KindMargin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Classifier is one classification backend.
type Classifier interface {
	// Kind declares the semantics of the scores returned by Classify.
	Kind() Kind

	// Classify returns one raw score per vocabulary label, in vocabulary order.
	Classify(ctx context.Context, crop *gocv.Mat) ([]float64, error)

	// Close releases any resources held by the classifier.
	Close() error
}

// Ranked is one label with its display confidence.
type Ranked struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Result is the classification of a single image or frame.
// Alternatives is sorted by descending confidence and Confidence equals
// Alternatives[0].Confidence when a hand was detected.
type Result struct {
	Label        string   `json:"label"`
	Confidence   float64  `json:"confidence"`
	Alternatives []Ranked `json:"alternatives"`
	HandDetected bool     `json:"hand_detected"`
}
