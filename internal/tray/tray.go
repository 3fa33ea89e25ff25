// Package tray shows the recognized sign in the system tray and lets the
// user pause recognition.
package tray

import (
	"fmt"
	"strings"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/ishara/internal/gesture"
	"github.com/ayusman/ishara/internal/inference"
)

const idleTitle = "Ishara"

// bandMarks prefix the title so the band reads at a glance.
var bandMarks = map[gesture.Band]string{
	gesture.BandHigh:   "●",
	gesture.BandMedium: "◐",
	gesture.BandLow:    "○",
}

const noAlternatives = "Alternatives: none"

// Tray is a system tray renderer for presentation results.
type Tray struct {
	mu       sync.RWMutex
	onToggle func(enabled bool)
	onQuit   func()
	enabled  bool
	title    string
	detail   string
	alts     string

	menuToggle *systray.MenuItem
	menuSign   *systray.MenuItem
	menuAlts   *systray.MenuItem
}

// New creates a Tray with recognition enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		title:   idleTitle,
		detail:  "No hand",
		alts:    noAlternatives,
	}
}

// OnToggle sets the callback invoked when recognition is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback invoked before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is called and must run on the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	t.mu.Lock()
	systray.SetTitle(t.title)
	systray.SetTooltip("Ishara sign recognition")

	t.menuSign = systray.AddMenuItem(t.detail, "Locked sign")
	t.menuSign.Disable()
	t.menuAlts = systray.AddMenuItem(t.alts, "Next most likely signs")
	t.menuAlts.Disable()
	systray.AddSeparator()

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume recognition")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Ishara")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// Render shows the locked sign in the tray title and menu.
func (t *Tray) Render(result inference.PresentationResult) {
	title, detail, alts := Describe(result)

	t.mu.Lock()
	defer t.mu.Unlock()

	if title == t.title && detail == t.detail && alts == t.alts {
		return
	}
	t.title, t.detail, t.alts = title, detail, alts

	if t.menuSign == nil {
		return
	}
	systray.SetTitle(title)
	t.menuSign.SetTitle(detail)
	t.menuAlts.SetTitle(alts)
}

// Describe formats a result as tray title, sign line and alternatives line.
func Describe(result inference.PresentationResult) (title, detail, alts string) {
	if !result.HandDetected {
		return idleTitle, "No hand", noAlternatives
	}

	title = fmt.Sprintf("%s %s", bandMarks[result.Band], result.Label)
	detail = fmt.Sprintf("%s %.1f%% (%s)", result.Label, result.ConfidencePercent, result.Band)

	if len(result.Alternatives) == 0 {
		return title, detail, noAlternatives
	}
	parts := make([]string, len(result.Alternatives))
	for i, a := range result.Alternatives {
		parts[i] = fmt.Sprintf("%s %.1f%%", a.Label, a.Confidence*100)
	}
	return title, detail, "Alternatives: " + strings.Join(parts, ", ")
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	if !enabled {
		t.title, t.detail = idleTitle, "Paused"
		systray.SetTitle(t.title)
		t.menuSign.SetTitle(t.detail)
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// IsEnabled returns whether recognition is enabled.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "Pause recognition"
	}
	return "Resume recognition"
}
