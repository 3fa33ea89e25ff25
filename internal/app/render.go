package app

import (
	"sync"

	"github.com/ayusman/ishara/internal/gesture"
	"github.com/ayusman/ishara/internal/inference"
	"github.com/ayusman/ishara/internal/logging"
)

// LogRenderer logs the locked sign whenever it changes. It is used when
// no display is attached.
type LogRenderer struct {
	mu    sync.Mutex
	label string
	band  gesture.Band
	shown bool
}

// NewLogRenderer creates a LogRenderer.
func NewLogRenderer() *LogRenderer {
	return &LogRenderer{}
}

// Render logs result if its label or band differs from the last one logged.
func (r *LogRenderer) Render(result inference.PresentationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !result.HandDetected {
		if r.shown {
			logging.Info(nil, "hand lost")
		}
		r.shown = false
		return
	}
	if r.shown && result.Label == r.label && result.Band == r.band {
		return
	}

	r.label, r.band, r.shown = result.Label, result.Band, true
	logging.Info(logging.Fields{
		"sign":         result.Label,
		"confidence":   result.ConfidencePercent,
		"band":         result.Band.String(),
		"alternatives": result.Alternatives,
	}, "sign locked")
}
