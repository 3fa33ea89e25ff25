// Package config loads runtime settings from a JSON file, the environment
// and stored overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ayusman/ishara/internal/classifier"
)

// DefaultConfigPath is read when no config file is named.
const DefaultConfigPath = "ishara.json"

// Detector strategies.
const (
	DetectorLandmark = "landmark"
	DetectorLearned  = "learned"
)

// Defaults for values that have no natural zero.
const (
	DefaultBackend               = "cnn"
	DefaultDetector              = DetectorLandmark
	DefaultLabelsFile            = "labels.txt"
	DefaultLogLevel              = "info"
	DefaultLandmarkMinConfidence = 0.3
	DefaultLearnedMinConfidence  = 0.25
)

// Config is the file schema. Nil fields take the default returned by the
// matching Get method, so partial files are valid.
type Config struct {
	Backend  *string `json:"backend,omitempty"`
	Detector *string `json:"detector,omitempty"`

	Pad            *int `json:"pad,omitempty"`
	BufferCapacity *int `json:"buffer_capacity,omitempty"`
	TopK           *int `json:"top_k,omitempty"`

	// Band thresholds in percent. Unset values use the backend default.
	HighThreshold   *float64 `json:"high_threshold,omitempty"`
	MediumThreshold *float64 `json:"medium_threshold,omitempty"`

	CameraID        *int     `json:"camera_id,omitempty"`
	CameraWidth     *int     `json:"camera_width,omitempty"`
	CameraHeight    *int     `json:"camera_height,omitempty"`
	MotionThreshold *float64 `json:"motion_threshold,omitempty"`

	PythonPath            *string  `json:"python_path,omitempty"`
	LandmarkScript        *string  `json:"landmark_script,omitempty"`
	ClassifierScript      *string  `json:"classifier_script,omitempty"`
	ModelPath             *string  `json:"model_path,omitempty"`
	DetectorURL           *string  `json:"detector_url,omitempty"`
	DetectorMinConfidence *float64 `json:"detector_min_confidence,omitempty"`
	LabelsFile            *string  `json:"labels_file,omitempty"`

	DBPath   *string `json:"db_path,omitempty"`
	LogLevel *string `json:"log_level,omitempty"`
	LogFile  *string `json:"log_file,omitempty"`
}

func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrFloat64(v float64) *float64 { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file and validates it.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOptional reads path if it exists and returns an empty Config otherwise.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	return Load(path)
}

// LoadDotEnv loads variables from the named .env files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks set values. Unset values are always valid.
func (c *Config) Validate() error {
	if c.Backend != nil {
		if _, err := classifier.ParseKind(*c.Backend); err != nil {
			return err
		}
	}
	if c.Detector != nil {
		switch *c.Detector {
		case DetectorLandmark, DetectorLearned:
		default:
			return fmt.Errorf("detector must be %q or %q, got %q", DetectorLandmark, DetectorLearned, *c.Detector)
		}
	}
	if c.Pad != nil && *c.Pad < 0 {
		return fmt.Errorf("pad must be non-negative, got %d", *c.Pad)
	}
	if c.BufferCapacity != nil && *c.BufferCapacity < 1 {
		return fmt.Errorf("buffer_capacity must be at least 1, got %d", *c.BufferCapacity)
	}
	if c.TopK != nil && *c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", *c.TopK)
	}
	for name, v := range map[string]*float64{
		"high_threshold":   c.HighThreshold,
		"medium_threshold": c.MediumThreshold,
	} {
		if v != nil && (*v < 0 || *v > 100) {
			return fmt.Errorf("%s must be between 0 and 100, got %f", name, *v)
		}
	}
	if c.HighThreshold != nil && c.MediumThreshold != nil && *c.MediumThreshold > *c.HighThreshold {
		return fmt.Errorf("medium_threshold %f exceeds high_threshold %f", *c.MediumThreshold, *c.HighThreshold)
	}
	if (c.CameraWidth != nil && *c.CameraWidth <= 0) || (c.CameraHeight != nil && *c.CameraHeight <= 0) {
		return errors.New("camera size must be positive")
	}
	if c.DetectorMinConfidence != nil && (*c.DetectorMinConfidence < 0 || *c.DetectorMinConfidence > 1) {
		return fmt.Errorf("detector_min_confidence must be between 0 and 1, got %f", *c.DetectorMinConfidence)
	}
	if c.LogLevel != nil {
		switch strings.ToLower(*c.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("unknown log_level %q", *c.LogLevel)
		}
	}
	return nil
}

// Environment variables read by ApplyEnv.
var envKeys = map[string]func(c *Config, v string) error{
	"ISHARA_BACKEND":                 func(c *Config, v string) error { c.Backend = ptrString(v); return nil },
	"ISHARA_DETECTOR":                func(c *Config, v string) error { c.Detector = ptrString(v); return nil },
	"ISHARA_PAD":                     intEnv(func(c *Config) **int { return &c.Pad }),
	"ISHARA_BUFFER_CAPACITY":         intEnv(func(c *Config) **int { return &c.BufferCapacity }),
	"ISHARA_TOP_K":                   intEnv(func(c *Config) **int { return &c.TopK }),
	"ISHARA_HIGH_THRESHOLD":          floatEnv(func(c *Config) **float64 { return &c.HighThreshold }),
	"ISHARA_MEDIUM_THRESHOLD":        floatEnv(func(c *Config) **float64 { return &c.MediumThreshold }),
	"ISHARA_CAMERA_ID":               intEnv(func(c *Config) **int { return &c.CameraID }),
	"ISHARA_CAMERA_WIDTH":            intEnv(func(c *Config) **int { return &c.CameraWidth }),
	"ISHARA_CAMERA_HEIGHT":           intEnv(func(c *Config) **int { return &c.CameraHeight }),
	"ISHARA_MOTION_THRESHOLD":        floatEnv(func(c *Config) **float64 { return &c.MotionThreshold }),
	"ISHARA_PYTHON":                  func(c *Config, v string) error { c.PythonPath = ptrString(v); return nil },
	"ISHARA_LANDMARK_SCRIPT":         func(c *Config, v string) error { c.LandmarkScript = ptrString(v); return nil },
	"ISHARA_CLASSIFIER_SCRIPT":       func(c *Config, v string) error { c.ClassifierScript = ptrString(v); return nil },
	"ISHARA_MODEL_PATH":              func(c *Config, v string) error { c.ModelPath = ptrString(v); return nil },
	"ISHARA_DETECTOR_URL":            func(c *Config, v string) error { c.DetectorURL = ptrString(v); return nil },
	"ISHARA_DETECTOR_MIN_CONFIDENCE": floatEnv(func(c *Config) **float64 { return &c.DetectorMinConfidence }),
	"ISHARA_LABELS_FILE":             func(c *Config, v string) error { c.LabelsFile = ptrString(v); return nil },
	"ISHARA_DB_PATH":                 func(c *Config, v string) error { c.DBPath = ptrString(v); return nil },
	"ISHARA_LOG_LEVEL":               func(c *Config, v string) error { c.LogLevel = ptrString(v); return nil },
	"ISHARA_LOG_FILE":                func(c *Config, v string) error { c.LogFile = ptrString(v); return nil },
}

func intEnv(field func(c *Config) **int) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = ptrInt(n)
		return nil
	}
}

func floatEnv(field func(c *Config) **float64) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = ptrFloat64(f)
		return nil
	}
}

// ApplyEnv overrides fields from ISHARA_* variables found by lookup,
// usually os.LookupEnv, and revalidates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for key, apply := range envKeys {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		if err := apply(c, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return c.Validate()
}
