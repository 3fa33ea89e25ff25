// Package app runs the live recognition loop: camera frames in, stabilized
// sign predictions out to a renderer.
package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/multierr"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/inference"
	"github.com/ayusman/ishara/internal/logging"
)

// Renderer consumes one presentation result per processed frame.
type Renderer interface {
	Render(result inference.PresentationResult)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(result inference.PresentationResult)

// Render calls f(result).
func (f RenderFunc) Render(result inference.PresentationResult) { f(result) }

// Config holds the collaborators of an App.
type Config struct {
	Camera   capture.Camera
	Pipeline *inference.Pipeline
	Renderer Renderer
	// MotionThreshold is the percent of changed pixels that switches the
	// loop to its active frame rate. Zero selects the default.
	MotionThreshold float64
	// Pacer overrides the idle and active frame rates.
	Pacer *capture.Pacer
}

// App owns one camera stream and its recognition session.
type App struct {
	camera   capture.Camera
	pipeline *inference.Pipeline
	renderer Renderer
	motion   *capture.MotionDetector
	pacer    *capture.Pacer
	session  *inference.Session
	// paused is owned by the loop goroutine.
	paused bool

	mu      sync.RWMutex
	enabled bool
	stopCh  chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
}

// New creates an App. Recognition starts enabled.
func New(config Config) (*App, error) {
	if config.Camera == nil || config.Pipeline == nil {
		return nil, errors.New("app: camera and pipeline are required")
	}

	renderer := config.Renderer
	if renderer == nil {
		renderer = NewLogRenderer()
	}
	pacer := config.Pacer
	if pacer == nil {
		pacer = capture.NewPacer()
	}

	return &App{
		camera:   config.Camera,
		pipeline: config.Pipeline,
		renderer: renderer,
		motion:   capture.NewMotionDetector(config.MotionThreshold),
		pacer:    pacer,
		session:  config.Pipeline.NewSession(),
		enabled:  true,
	}, nil
}

// SetEnabled pauses or resumes recognition. It only flips the flag; the
// loop clears the session on its next tick so a stale sign is not shown
// on resume.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether recognition is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and starts the loop. Starting a running App is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.pacer.FPS())

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(ctx, a.stopCh, a.done)

	logging.Info(logging.Fields{"backend": a.pipeline.Kind(), "fps": a.pacer.FPS()}, "recognition loop started")
	return nil
}

// Stop ends the loop, waits for the current frame to finish and releases
// the camera, the motion detector and the pipeline backends.
func (a *App) Stop() error {
	a.mu.Lock()
	stopCh, done, cancel := a.stopCh, a.done, a.cancel
	a.stopCh, a.done, a.cancel = nil, nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		cancel()
		<-done
	}

	err := multierr.Combine(a.camera.Close(), a.pipeline.Close())
	a.motion.Close()

	if err != nil {
		logging.Error(logging.Fields{"error": err}, "recognition loop stopped with errors")
	} else {
		logging.Info(nil, "recognition loop stopped")
	}
	return err
}

// Session returns the stream session.
func (a *App) Session() *inference.Session {
	return a.session
}
