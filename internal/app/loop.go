package app

import (
	"context"
	"time"

	"github.com/ayusman/ishara/internal/logging"
)

// run is the frame loop. One frame is processed fully before the next
// tick is taken, so observations reach the session in frame order.
//
// The pacer only sets the rate: motion raises it to the active rate and
// a still scene drops it back to idle. A held sign is still recognized
// while idle, just less often.
func (a *App) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.pacer.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if a.tick(ctx, time.Now()) {
				ticker.Reset(a.pacer.Interval())
			}
		}
	}
}

// tick handles one ticker event. The first tick after recognition is
// paused clears the session and the motion baseline; paused ticks read no
// frames. It reports whether the frame rate changed.
func (a *App) tick(ctx context.Context, now time.Time) bool {
	if !a.IsEnabled() {
		if !a.paused {
			a.session.Reset()
			a.motion.Reset()
			a.paused = true
		}
		return false
	}
	a.paused = false
	return a.step(ctx, now)
}

// step reads and processes one frame. It reports whether the frame rate changed.
func (a *App) step(ctx context.Context, now time.Time) bool {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		logging.Warn(logging.Fields{"error": err}, "failed to read frame")
		return false
	}
	defer frame.Close()

	moving, changed := a.motion.Detect(frame)
	rateChanged := a.pacer.Observe(moving, now)
	if rateChanged {
		a.camera.SetFPS(a.pacer.FPS())
		logging.Debug(logging.Fields{"fps": a.pacer.FPS(), "changed_pct": changed}, "frame rate changed")
	}

	result := a.pipeline.Process(ctx, frame, a.session)
	a.renderer.Render(result)
	return rateChanged
}
