// Package region turns hand detections into the crop region handed to the classifier.
package region

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/ishara/internal/detector"
)

// DefaultPad is the margin in pixels added around a detected hand.
const DefaultPad = 20

// ErrEmptyImage is returned when the source image has no pixels.
var ErrEmptyImage = errors.New("image has zero area")

// Region is a crop rectangle in source-image pixels.
// A valid Region satisfies 0 <= X1 < X2 <= width and 0 <= Y1 < Y2 <= height.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Full returns the region covering the whole image.
func Full(size image.Point) Region {
	return Region{X1: 0, Y1: 0, X2: size.X, Y2: size.Y}
}

// Width returns the region width in pixels.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns the region height in pixels.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Localize picks the most confident detection, pads it by pad pixels on every
// side and clamps it to the image. It reports false, together with the full
// image region, when there is no detection or when clamping leaves nothing
// of the box inside the image.
//
// Ties on confidence go to the box seen first.
func Localize(size image.Point, boxes []detector.Box, pad int) (Region, bool, error) {
	if size.X <= 0 || size.Y <= 0 {
		return Region{}, false, ErrEmptyImage
	}

	full := Full(size)
	if len(boxes) == 0 {
		return full, false, nil
	}

	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Confidence > best.Confidence {
			best = b
		}
	}

	pad = max(pad, 0)
	r := Region{
		X1: clamp(best.X-pad, 0, size.X),
		Y1: clamp(best.Y-pad, 0, size.Y),
		X2: clamp(best.X+best.Width+pad, 0, size.X),
		Y2: clamp(best.Y+best.Height+pad, 0, size.Y),
	}

	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return full, false, nil
	}

	return r, true, nil
}

// Crop returns a view of frame restricted to r. The caller must Close it.
// The view shares pixel data with frame.
func Crop(frame *gocv.Mat, r Region) gocv.Mat {
	return frame.Region(r.Rect())
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
