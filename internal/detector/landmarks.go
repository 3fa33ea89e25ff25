// Package detector provides hand detection interfaces and implementations.
package detector

// NumLandmarks is the number of hand landmarks reported by MediaPipe.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const NumLandmarks = 21

// Point3D is a landmark position. X and Y are normalized to the image
// size (0-1), Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Bounds converts the landmarks into a pixel bounding box for an image of
// the given size. Landmark coordinates are truncated to whole pixels.
// The returned box may extend past the image when landmarks do; clamping is
// left to the region package.
func (h *HandLandmarks) Bounds(width, height int) Box {
	xMin, yMin := width, height
	xMax, yMax := 0, 0

	for _, p := range h.Points {
		x := int(p.X * float64(width))
		y := int(p.Y * float64(height))
		xMin = min(xMin, x)
		yMin = min(yMin, y)
		xMax = max(xMax, x)
		yMax = max(yMax, y)
	}

	return Box{
		X:          xMin,
		Y:          yMin,
		Width:      xMax - xMin,
		Height:     yMax - yMin,
		Confidence: h.Score,
	}
}
