// Package evaluate measures per-image accuracy over a folder of labelled
// sign images. Images are classified independently, never smoothed.
package evaluate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/logging"
)

// Outcomes recorded in place of a label.
const (
	NoHand = "NO HAND"
	Failed = "ERROR"
	// NoRanking is the ranking text for images without a classification.
	NoRanking = "N/A"
)

// ImageClassifier classifies one image without shared state.
// *inference.Pipeline implements it.
type ImageClassifier interface {
	Classify(ctx context.Context, frame *gocv.Mat) (classifier.Result, error)
}

// Loader reads an image file into a Mat the caller closes.
type Loader func(path string) (*gocv.Mat, error)

// Record is the outcome for one image. An image without a detected hand
// is still scored on the label predicted for the whole image.
type Record struct {
	Path         string
	TrueLabel    string
	Predicted    string
	Confidence   float64
	TopK         string
	HandDetected bool
	Correct      bool
	Err          error
}

// Report summarizes an evaluation.
type Report struct {
	Records []Record
	Correct int
}

// Total returns the number of evaluated images.
func (r Report) Total() int { return len(r.Records) }

// Accuracy returns the percent of images classified correctly. Failed
// images, and images with no label at all, count against it.
func (r Report) Accuracy() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return float64(r.Correct) / float64(len(r.Records)) * 100
}

// Evaluator runs labelled images through a classifier.
type Evaluator struct {
	classifier ImageClassifier
	load       Loader
	topK       int
}

// New creates an Evaluator reporting topK ranked labels per image.
// A nil load reads files with OpenCV.
func New(c ImageClassifier, load Loader, topK int) *Evaluator {
	if load == nil {
		load = capture.ReadImage
	}
	if topK <= 0 {
		topK = classifier.DefaultTopK
	}
	return &Evaluator{classifier: c, load: load, topK: topK}
}

// Run evaluates paths in order. onRecord, when set, is called after each
// image. Run stops early only when ctx is done.
func (e *Evaluator) Run(ctx context.Context, paths []string, onRecord func(int, Record)) (Report, error) {
	var report Report
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		rec := e.evaluate(ctx, path)
		if rec.Correct {
			report.Correct++
		}
		report.Records = append(report.Records, rec)
		if onRecord != nil {
			onRecord(i, rec)
		}
	}

	logging.Info(logging.Fields{
		"images":   report.Total(),
		"correct":  report.Correct,
		"accuracy": fmt.Sprintf("%.2f", report.Accuracy()),
	}, "evaluation finished")
	return report, nil
}

func (e *Evaluator) evaluate(ctx context.Context, path string) Record {
	rec := Record{Path: path, TrueLabel: TrueLabel(path), TopK: NoRanking}

	frame, err := e.load(path)
	if err != nil {
		rec.Predicted, rec.Err = Failed, err
		logging.Warn(logging.Fields{"path": path, "error": err}, "image could not be read")
		return rec
	}
	defer frame.Close()

	res, err := e.classifier.Classify(ctx, frame)
	switch {
	case err != nil:
		rec.Predicted, rec.Err = Failed, err
		logging.Warn(logging.Fields{"path": path, "error": err}, "image classification failed")
	case res.Label == "":
		rec.Predicted = NoHand
	default:
		rec.Predicted = res.Label
		rec.Confidence = res.Confidence
		rec.TopK = FormatRanking(res.Alternatives, e.topK)
		rec.HandDetected = res.HandDetected
		rec.Correct = strings.EqualFold(res.Label, rec.TrueLabel)
	}
	return rec
}

// TrueLabel derives the expected label from a file name: the part of the
// base name before the first underscore, lowercased. "Alif_03.jpg" is "alif".
func TrueLabel(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	label, _, _ := strings.Cut(stem, "_")
	return strings.ToLower(label)
}

// FormatRanking renders up to k entries as "label (xx.x%)" joined by ", ".
func FormatRanking(ranked []classifier.Ranked, k int) string {
	if len(ranked) == 0 || k <= 0 {
		return NoRanking
	}
	parts := make([]string, 0, min(k, len(ranked)))
	for _, r := range ranked[:min(k, len(ranked))] {
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", r.Label, r.Confidence*100))
	}
	return strings.Join(parts, ", ")
}
