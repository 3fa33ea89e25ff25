package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/gesture"
	"github.com/ayusman/ishara/internal/inference"
)

func TestDescribe(t *testing.T) {
	title, detail, alts := Describe(inference.PresentationResult{
		Label:             "ba",
		ConfidencePercent: 91.25,
		Band:              gesture.BandHigh,
		Alternatives:      []classifier.Ranked{{Label: "ta", Confidence: 0.05}, {Label: "alif", Confidence: 0.025}},
		HandDetected:      true,
	})

	assert.Equal(t, "● ba", title)
	assert.Equal(t, "ba 91.2% (high)", detail)
	assert.Equal(t, "Alternatives: ta 5.0%, alif 2.5%", alts)
}

func TestDescribe_NoHand(t *testing.T) {
	title, detail, _ := Describe(inference.PresentationResult{Label: "stale"})

	assert.Equal(t, idleTitle, title)
	assert.Equal(t, "No hand", detail)
}

func TestRender_BeforeReady(t *testing.T) {
	tr := New()

	// Menu items do not exist until the tray runs; Render only records state.
	tr.Render(inference.PresentationResult{Label: "alif", Band: gesture.BandLow, ConfidencePercent: 40, HandDetected: true})

	assert.Equal(t, "○ alif", tr.title)
	assert.True(t, tr.IsEnabled())
}

func TestRender_AlternativesOnlyChange(t *testing.T) {
	tr := New()
	locked := inference.PresentationResult{
		Label:             "ba",
		ConfidencePercent: 92,
		Band:              gesture.BandHigh,
		Alternatives:      []classifier.Ranked{{Label: "ta", Confidence: 0.05}},
		HandDetected:      true,
	}
	tr.Render(locked)

	locked.Alternatives = []classifier.Ranked{{Label: "alif", Confidence: 0.06}}
	tr.Render(locked)

	assert.Equal(t, "● ba", tr.title)
	assert.Equal(t, "Alternatives: alif 6.0%", tr.alts)
}
