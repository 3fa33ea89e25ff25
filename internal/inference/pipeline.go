// Package inference runs one image or camera frame through detection,
// cropping, classification, ranking and, for streams, stabilization.
package inference

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/detector"
	"github.com/ayusman/ishara/internal/gesture"
	"github.com/ayusman/ishara/internal/logging"
	"github.com/ayusman/ishara/internal/region"
)

// ErrClassification wraps any failure of the classifier on a crop.
var ErrClassification = errors.New("classification failed")

// Options tune a Pipeline. Zero TopK and BufferCapacity select the
// defaults. Pad is taken as given; a negative Pad selects region.DefaultPad.
type Options struct {
	Pad            int
	TopK           int
	BufferCapacity int
	// Policy overrides the backend's default band thresholds.
	Policy *gesture.BandPolicy
}

// Pipeline wires a detector and a classifier backend together.
// It holds no per-stream state and may serve batch and stream calls alike.
type Pipeline struct {
	detector   detector.Detector
	classifier classifier.Classifier
	vocab      classifier.Vocabulary
	pad        int
	topK       int
	capacity   int
	policy     gesture.BandPolicy
}

// New creates a Pipeline. det may be nil, in which case every image is
// classified whole.
func New(det detector.Detector, cls classifier.Classifier, vocab classifier.Vocabulary, opts Options) (*Pipeline, error) {
	if cls == nil {
		return nil, errors.New("inference: classifier is required")
	}
	if vocab.Len() == 0 {
		return nil, classifier.ErrEmptyVocabulary
	}

	p := &Pipeline{
		detector:   det,
		classifier: cls,
		vocab:      vocab,
		pad:        opts.Pad,
		topK:       opts.TopK,
		capacity:   opts.BufferCapacity,
		policy:     gesture.DefaultPolicy(cls.Kind()),
	}
	if p.pad < 0 {
		p.pad = region.DefaultPad
	}
	if p.topK <= 0 {
		p.topK = classifier.DefaultTopK
	}
	if p.capacity <= 0 {
		p.capacity = gesture.DefaultCapacity
	}
	if opts.Policy != nil {
		if err := opts.Policy.Validate(); err != nil {
			return nil, err
		}
		p.policy = *opts.Policy
	}
	return p, nil
}

// Kind returns the backend kind of the pipeline's classifier.
func (p *Pipeline) Kind() classifier.Kind { return p.classifier.Kind() }

// Policy returns the band thresholds in effect.
func (p *Pipeline) Policy() gesture.BandPolicy { return p.policy }

// NewSession starts stream state sized for this pipeline.
func (p *Pipeline) NewSession() *Session {
	return NewSession(p.capacity)
}

// Classify runs a single image through the pipeline without temporal
// smoothing. When no hand is found the whole image is classified and the
// Result carries its label with HandDetected false.
func (p *Pipeline) Classify(ctx context.Context, frame *gocv.Mat) (classifier.Result, error) {
	out, err := p.classify(ctx, frame)
	return out.result, err
}

// Process runs one camera frame and folds it into the session. A frame
// without a hand clears the session without voting, as does a frame the
// classifier fails on; both yield a result with HandDetected false.
func (p *Pipeline) Process(ctx context.Context, frame *gocv.Mat, s *Session) PresentationResult {
	out, err := p.classify(ctx, frame)
	crop := out.region
	if err != nil {
		s.buffer.Clear()
		level := logging.Warn
		if errors.Is(err, classifier.ErrInvalidScores) {
			level = logging.Error
		}
		level(logging.Fields{"frame": s.frames, "error": err}, "frame classification failed")
		s.frames++
		return PresentationResult{Region: crop}
	}
	s.frames++

	if !out.result.HandDetected {
		s.buffer.Clear()
		return PresentationResult{Region: crop}
	}

	s.buffer.Observe(out.result.Label, out.result.Confidence*100)
	stable, err := s.buffer.Stabilized()
	if err != nil {
		// Unreachable after Observe.
		return PresentationResult{Region: crop}
	}

	return PresentationResult{
		Label:             stable.Label,
		ConfidencePercent: stable.Confidence,
		Band:              p.policy.Band(stable.Confidence),
		Alternatives:      classifier.Rank(out.confidences, p.vocab, p.topK, true),
		HandDetected:      true,
		Region:            crop,
	}
}

// frameOutcome is the per-image output shared by Classify and Process.
type frameOutcome struct {
	result      classifier.Result
	confidences []float64
	region      region.Region
}

// classify performs detect, localize, crop, classify, normalize and rank.
// The outcome region is the one that was classified.
func (p *Pipeline) classify(ctx context.Context, frame *gocv.Mat) (frameOutcome, error) {
	var out frameOutcome
	if frame == nil || frame.Empty() {
		return out, region.ErrEmptyImage
	}
	size := image.Pt(frame.Cols(), frame.Rows())

	var boxes []detector.Box
	if p.detector != nil {
		var err error
		boxes, err = p.detector.Detect(ctx, frame)
		if err != nil {
			logging.Debug(logging.Fields{"error": err}, "hand detection unavailable, treating as no hand")
			boxes = nil
		}
	}

	r, found, err := region.Localize(size, boxes, p.pad)
	if err != nil {
		return out, err
	}
	out.region = r

	crop := region.Crop(frame, r)
	defer crop.Close()

	raw, err := p.classifier.Classify(ctx, &crop)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	confidences, err := classifier.Normalize(raw, p.classifier.Kind(), p.vocab)
	if err != nil {
		return out, err
	}

	out.confidences = confidences
	out.result = classifier.Summarize(confidences, p.vocab, p.topK)
	out.result.HandDetected = found
	return out, nil
}

// Close releases the detector and classifier backends.
func (p *Pipeline) Close() error {
	var err error
	if p.detector != nil {
		err = multierr.Append(err, p.detector.Close())
	}
	return multierr.Append(err, p.classifier.Close())
}
