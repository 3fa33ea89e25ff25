package inference

import (
	"github.com/ayusman/ishara/internal/classifier"
	"github.com/ayusman/ishara/internal/gesture"
	"github.com/ayusman/ishara/internal/region"
)

// Session is the state of one camera stream. It is owned by a single loop.
type Session struct {
	buffer *gesture.Buffer
	frames int
}

// NewSession creates an empty session whose buffer holds capacity frames.
func NewSession(capacity int) *Session {
	return &Session{buffer: gesture.NewBuffer(capacity)}
}

// Reset forgets every buffered frame.
func (s *Session) Reset() {
	s.buffer.Clear()
}

// Buffered returns how many frames currently vote on the label.
func (s *Session) Buffered() int { return s.buffer.Len() }

// Frames returns how many frames the session has processed.
func (s *Session) Frames() int { return s.frames }

// PresentationResult is what a renderer shows for one frame.
// When HandDetected is false only Region is meaningful.
type PresentationResult struct {
	Label             string              `json:"label"`
	ConfidencePercent float64             `json:"confidence_percent"`
	Band              gesture.Band        `json:"band"`
	Alternatives      []classifier.Ranked `json:"alternatives"`
	HandDetected      bool                `json:"hand_detected"`
	Region            region.Region       `json:"region"`
}
