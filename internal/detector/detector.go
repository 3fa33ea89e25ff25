package detector

import (
	"context"
	"errors"

	"gocv.io/x/gocv"
)

// ErrUnavailable is returned when a detector backend cannot produce a result,
// for example because its helper process or service is not running.
var ErrUnavailable = errors.New("detector unavailable")

// Box is a detected hand in source-image pixel coordinates.
type Box struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand boxes.
	// Returns an empty slice if no hands are detected.
	Detect(ctx context.Context, frame *gocv.Mat) ([]Box, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// ScriptPath points to the landmark service script. Empty means search
	// the usual locations.
	ScriptPath string

	// PythonPath is the interpreter used to run ScriptPath. Empty means
	// a virtual environment interpreter if found, python3 otherwise.
	PythonPath string

	// URL is the endpoint of the learned detector service.
	URL string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      1,
		MinConfidence: 0.3,
		URL:           "http://localhost:5000/detect",
	}
}
