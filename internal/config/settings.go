package config

import (
	"fmt"
	"strconv"

	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/gesture"
)

// Stored setting keys for band thresholds, one pair per backend kind.
func highKey(kind classifier.Kind) string   { return "band." + string(kind) + ".high_threshold" }
func mediumKey(kind classifier.Kind) string { return "band." + string(kind) + ".medium_threshold" }

// SettingsStore is the subset of the settings repository used here.
type SettingsStore interface {
	All() (map[string]string, error)
	SetFloat(key string, value float64) error
}

// ApplySettings overrides band thresholds with values stored for the
// configured backend, then revalidates.
func (c *Config) ApplySettings(settings map[string]string) error {
	kind := c.GetKind()
	for key, field := range map[string]**float64{
		highKey(kind):   &c.HighThreshold,
		mediumKey(kind): &c.MediumThreshold,
	} {
		v, ok := settings[key]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		*field = ptrFloat64(f)
	}
	return c.Validate()
}

// LoadSettings applies the stored overrides from s.
func (c *Config) LoadSettings(s SettingsStore) error {
	settings, err := s.All()
	if err != nil {
		return err
	}
	return c.ApplySettings(settings)
}

// SaveBandPolicy stores p as the thresholds for kind.
func SaveBandPolicy(s SettingsStore, kind classifier.Kind, p gesture.BandPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.SetFloat(highKey(kind), p.High); err != nil {
		return err
	}
	return s.SetFloat(mediumKey(kind), p.Medium)
}
