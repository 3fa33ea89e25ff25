package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/config"
	"github.com/ayusman/ishara/internal/detector"
	"github.com/ayusman/ishara/internal/inference"
	"github.com/ayusman/ishara/internal/logging"
	"github.com/ayusman/ishara/internal/store"
)

// openStore opens the database and applies stored threshold overrides to cfg.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.New(cfg.GetDBPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadSettings(st.Settings()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newDetector(ctx context.Context, cfg *config.Config) (detector.Detector, error) {
	dc := detector.DefaultConfig()
	dc.MinConfidence = cfg.GetDetectorMinConfidence()
	dc.PythonPath = cfg.GetPythonPath()
	dc.ScriptPath = cfg.GetLandmarkScript()
	dc.URL = cfg.GetDetectorURL()

	switch cfg.GetDetector() {
	case config.DetectorLearned:
		d := detector.NewHTTPDetector(dc)
		hctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := d.CheckHealth(hctx); err != nil {
			// Frames report no hand until the service answers.
			logging.Warn(logging.Fields{"url": dc.URL, "error": err}, "learned detector not reachable")
		}
		return d, nil
	default:
		return detector.NewLandmarkDetector(dc)
	}
}

func newClassifier(cfg *config.Config) (classifier.Classifier, error) {
	return classifier.NewServiceClassifier(classifier.ServiceConfig{
		Kind:       cfg.GetKind(),
		ScriptPath: cfg.GetClassifierScript(),
		PythonPath: cfg.GetPythonPath(),
		ModelPath:  cfg.GetModelPath(),
	})
}

// newPipeline builds the detector, classifier and pipeline described by cfg.
// The returned pipeline owns both backends.
func newPipeline(ctx context.Context, cfg *config.Config) (*inference.Pipeline, error) {
	vocab, err := classifier.LoadVocabulary(cfg.GetLabelsFile())
	if err != nil {
		return nil, err
	}

	det, err := newDetector(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("hand detector: %w", err)
	}
	cls, err := newClassifier(cfg)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("classifier: %w", err), det.Close())
	}

	policy := cfg.GetBandPolicy()
	p, err := inference.New(det, cls, vocab, inference.Options{
		Pad:            cfg.GetPad(),
		TopK:           cfg.GetTopK(),
		BufferCapacity: cfg.GetBufferCapacity(),
		Policy:         &policy,
	})
	if err != nil {
		return nil, multierr.Combine(err, det.Close(), cls.Close())
	}

	logging.Info(logging.Fields{
		"backend":  cfg.GetBackend(),
		"detector": cfg.GetDetector(),
		"labels":   vocab.Len(),
		"high":     policy.High,
		"medium":   policy.Medium,
	}, "pipeline ready")
	return p, nil
}
