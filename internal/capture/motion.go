package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// GaussianBlurSize is the kernel size used to suppress sensor noise.
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change that counts as motion.
	DiffThreshold = 25
	// DefaultMotionThreshold is the percent of changed pixels that counts as motion.
	DefaultMotionThreshold = 1.0
)

// MotionDetector compares each frame with the previous one and reports
// the share of pixels that changed.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	prevGray  gocv.Mat
	hasPrev   bool
}

// NewMotionDetector creates a MotionDetector. threshold is the percent of
// pixels that must change, so 1.0 means 1%. Non-positive values select
// DefaultMotionThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect reports whether frame differs from the previous frame by more than
// the threshold, and the percent of pixels that changed. The first frame,
// and any frame whose size differs from its predecessor, only sets the
// baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	if frame == nil || frame.Empty() {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(GaussianBlurSize, GaussianBlurSize), 0, 0, gocv.BorderDefault)

	if !m.hasPrev || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.hasPrev = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100
	blurred.CopyTo(&m.prevGray)

	return changed > m.threshold, changed
}

// Reset forgets the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasPrev = false
}

// Close releases the baseline frame. The detector stays usable and starts
// over with a new baseline.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prevGray.Close()
	m.prevGray = gocv.NewMat()
	m.hasPrev = false
}

// SetThreshold changes the percent of pixels that must change.
// Values less than or equal to 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Threshold returns the current motion threshold.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Pacer rates defaults.
const (
	IdleFPS     = 5
	ActiveFPS   = 15
	IdleTimeout = 2 * time.Second
)

// Pacer switches a stream between an idle and an active frame rate.
// Motion makes it active; it falls back to idle once no motion has been
// seen for the idle timeout. A Pacer is used from a single loop.
type Pacer struct {
	IdleFPS     int
	ActiveFPS   int
	IdleTimeout time.Duration

	active     bool
	lastMotion time.Time
}

// NewPacer returns an idle Pacer with the default rates.
func NewPacer() *Pacer {
	return &Pacer{
		IdleFPS:     IdleFPS,
		ActiveFPS:   ActiveFPS,
		IdleTimeout: IdleTimeout,
	}
}

// Active reports whether the stream is in the active state.
func (p *Pacer) Active() bool { return p.active }

// FPS returns the frame rate for the current state.
func (p *Pacer) FPS() int {
	if p.active {
		return p.ActiveFPS
	}
	return p.IdleFPS
}

// Interval returns the time between frames for the current state.
func (p *Pacer) Interval() time.Duration {
	return time.Second / time.Duration(max(p.FPS(), 1))
}

// Observe records whether motion was seen at now and reports whether the
// state changed.
func (p *Pacer) Observe(motion bool, now time.Time) bool {
	if motion {
		p.lastMotion = now
		if !p.active {
			p.active = true
			return true
		}
		return false
	}
	if p.active && now.Sub(p.lastMotion) > p.IdleTimeout {
		p.active = false
		return true
	}
	return false
}
