package detector

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/ishara/internal/service"
)

// LandmarkScript is the helper service that runs MediaPipe Hands.
const LandmarkScript = "scripts/hand_landmarks.py"

// LandmarkDetector implements Detector using a Python MediaPipe subprocess.
// Each hand's landmarks are reduced to their pixel bounding box.
type LandmarkDetector struct {
	config Config
	proc   *service.Process
}

// NewLandmarkDetector creates a new MediaPipe landmark detector.
// The Python process is started lazily on first detection.
func NewLandmarkDetector(config Config) (*LandmarkDetector, error) {
	script := config.ScriptPath
	if script == "" {
		script = service.FindScript(LandmarkScript)
	}

	proc, err := service.NewProcess("landmarks", config.PythonPath, script,
		"--max-hands", fmt.Sprint(max(config.MaxHands, 1)),
		"--min-confidence", fmt.Sprint(config.MinConfidence),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &LandmarkDetector{
		config: config,
		proc:   proc,
	}, nil
}

// Detect analyzes a frame and returns one box per detected hand.
func (d *LandmarkDetector) Detect(ctx context.Context, frame *gocv.Mat) ([]Box, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := d.proc.Exchange(ctx, frame, &response); err != nil {
		return nil, fmt.Errorf("landmarks: %w", err)
	}

	return handsToBoxes(response.Hands, frame.Cols(), frame.Rows(), d.config.MinConfidence), nil
}

// Close shuts down the Python process.
func (d *LandmarkDetector) Close() error {
	return d.proc.Close()
}

func handsToBoxes(hands []jsonHand, width, height int, minConfidence float64) []Box {
	boxes := make([]Box, 0, len(hands))
	for _, h := range hands {
		if h.Score < minConfidence {
			continue
		}
		lm := h.toHandLandmarks()
		boxes = append(boxes, lm.Bounds(width, height))
	}
	return boxes
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	n := copy(lm.Points[:], h.Points)
	// Missing points collapse onto the first one so they do not stretch the box to the origin.
	for i := n; n > 0 && i < NumLandmarks; i++ {
		lm.Points[i] = lm.Points[0]
	}

	return lm
}
