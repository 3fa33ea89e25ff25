package classifier

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/ishara/internal/service"
)

// Helper scripts hosting each backend's model.
const (
	CNNScript = "scripts/cnn_classifier.py"
	SVMScript = "scripts/hog_svm_classifier.py"
)

// ServiceClassifier runs a model in a helper process. The helper replies to
// each crop with {"scores": [...]}, one score per vocabulary label.
type ServiceClassifier struct {
	kind Kind
	proc *service.Process
}

// ServiceConfig configures a ServiceClassifier.
type ServiceConfig struct {
	Kind Kind
	// ScriptPath overrides the default script for Kind.
	ScriptPath string
	// PythonPath overrides interpreter discovery.
	PythonPath string
	// ModelPath is passed to the helper as --model when set.
	ModelPath string
}

// NewServiceClassifier prepares a helper-backed classifier. The helper
// process starts on the first Classify call.
func NewServiceClassifier(cfg ServiceConfig) (*ServiceClassifier, error) {
	script := cfg.ScriptPath
	if script == "" {
		switch cfg.Kind {
		case KindProbability:
			script = service.FindScript(CNNScript)
		case KindMargin:
			script = service.FindScript(SVMScript)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
		}
	}

	var args []string
	if cfg.ModelPath != "" {
		args = append(args, "--model", cfg.ModelPath)
	}

	proc, err := service.NewProcess(string(cfg.Kind)+" classifier", cfg.PythonPath, script, args...)
	if err != nil {
		return nil, err
	}

	return &ServiceClassifier{kind: cfg.Kind, proc: proc}, nil
}

// Kind returns the score semantics declared at construction.
func (c *ServiceClassifier) Kind() Kind {
	return c.kind
}

// Classify sends the crop to the helper and returns its raw scores.
func (c *ServiceClassifier) Classify(ctx context.Context, crop *gocv.Mat) ([]float64, error) {
	var response struct {
		Scores []float64 `json:"scores"`
	}
	if err := c.proc.Exchange(ctx, crop, &response); err != nil {
		return nil, fmt.Errorf("%s classifier: %w", c.kind, err)
	}
	return response.Scores, nil
}

// Close stops the helper process.
func (c *ServiceClassifier) Close() error {
	return c.proc.Close()
}
