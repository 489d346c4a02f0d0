package compositor

import (
	"image"
	"math"
)

// Placement is where a frame lands on the surface.
// X and Y may be negative: the overflow is cropped.
type Placement struct {
	Scale  float64
	X, Y   float64
	Width  float64
	Height float64
}

// Cover computes cover placement of an iw x ih image on a cw x ch surface:
// the image is scaled by max(cw/iw, ch/ih) and centered on both axes.
// A zero Placement is returned when either image dimension is not positive.
func Cover(iw, ih, cw, ch float64) Placement {
	if !(iw > 0) || !(ih > 0) {
		return Placement{}
	}
	scale := math.Max(cw/iw, ch/ih)
	w := iw * scale
	h := ih * scale
	return Placement{
		Scale:  scale,
		X:      (cw - w) / 2,
		Y:      (ch - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Rect returns the destination rectangle, snapped to whole pixels.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(p.X)),
		int(math.Round(p.Y)),
		int(math.Round(p.X+p.Width)),
		int(math.Round(p.Y+p.Height)),
	)
}

// Empty reports whether the placement draws nothing.
func (p Placement) Empty() bool {
	return p.Rect().Empty()
}
