package config

import (
	"os"
	"path/filepath"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/gesture"
	"github.com/ayusman/ishara/internal/region"
)

// GetBackend returns the classifier backend name.
func (c *Config) GetBackend() string {
	if c.Backend == nil {
		return DefaultBackend
	}
	return *c.Backend
}

// GetKind returns the score semantics of the configured backend.
func (c *Config) GetKind() classifier.Kind {
	kind, err := classifier.ParseKind(c.GetBackend())
	if err != nil {
		return classifier.KindProbability
	}
	return kind
}

// GetDetector returns the detector strategy.
func (c *Config) GetDetector() string {
	if c.Detector == nil {
		return DefaultDetector
	}
	return *c.Detector
}

func (c *Config) GetPad() int {
	if c.Pad == nil {
		return region.DefaultPad
	}
	return *c.Pad
}

func (c *Config) GetBufferCapacity() int {
	if c.BufferCapacity == nil {
		return gesture.DefaultCapacity
	}
	return *c.BufferCapacity
}

func (c *Config) GetTopK() int {
	if c.TopK == nil {
		return classifier.DefaultTopK
	}
	return *c.TopK
}

// GetBandPolicy returns the backend's default thresholds with any
// configured threshold applied on top.
func (c *Config) GetBandPolicy() gesture.BandPolicy {
	p := gesture.DefaultPolicy(c.GetKind())
	if c.HighThreshold != nil {
		p.High = *c.HighThreshold
	}
	if c.MediumThreshold != nil {
		p.Medium = *c.MediumThreshold
	}
	return p
}

// GetCamera returns the capture settings.
func (c *Config) GetCamera() capture.Config {
	cam := capture.DefaultConfig()
	if c.CameraID != nil {
		cam.DeviceID = *c.CameraID
	}
	if c.CameraWidth != nil {
		cam.Width = *c.CameraWidth
	}
	if c.CameraHeight != nil {
		cam.Height = *c.CameraHeight
	}
	return cam
}

func (c *Config) GetMotionThreshold() float64 {
	if c.MotionThreshold == nil {
		return capture.DefaultMotionThreshold
	}
	return *c.MotionThreshold
}

func (c *Config) GetPythonPath() string { return deref(c.PythonPath) }

func (c *Config) GetLandmarkScript() string { return deref(c.LandmarkScript) }

func (c *Config) GetClassifierScript() string { return deref(c.ClassifierScript) }

func (c *Config) GetModelPath() string { return deref(c.ModelPath) }

func (c *Config) GetDetectorURL() string {
	if c.DetectorURL == nil {
		return "http://localhost:5000/detect"
	}
	return *c.DetectorURL
}

// GetDetectorMinConfidence returns the detection threshold. The default
// depends on the detector strategy.
func (c *Config) GetDetectorMinConfidence() float64 {
	if c.DetectorMinConfidence != nil {
		return *c.DetectorMinConfidence
	}
	if c.GetDetector() == DetectorLearned {
		return DefaultLearnedMinConfidence
	}
	return DefaultLandmarkMinConfidence
}

func (c *Config) GetLabelsFile() string {
	if c.LabelsFile == nil {
		return DefaultLabelsFile
	}
	return *c.LabelsFile
}

// GetDBPath returns the database path, ~/.ishara/ishara.db by default.
func (c *Config) GetDBPath() string {
	if c.DBPath != nil {
		return *c.DBPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ishara.db"
	}
	return filepath.Join(home, ".ishara", "ishara.db")
}

func (c *Config) GetLogLevel() string {
	if c.LogLevel == nil {
		return DefaultLogLevel
	}
	return *c.LogLevel
}

func (c *Config) GetLogFile() string { return deref(c.LogFile) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
