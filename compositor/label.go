package compositor

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// labelSize is the label font size in points at 72 DPI, before the surface
// scale is applied.
const labelSize = 14

// labeler stamps the frame number in the bottom-left corner.
type labeler struct {
	font  *opentype.Font
	face  font.Face
	scale float64
	ink   image.Image
}

func newLabeler() (*labeler, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("compositor: parse label font: %w", err)
	}
	return &labeler{font: f, ink: image.NewUniform(color.White)}, nil
}

// faceFor returns a face sized for the given device scale, reusing the
// previous one when the scale did not change.
func (l *labeler) faceFor(scale float64) (font.Face, error) {
	if scale <= 0 {
		scale = 1
	}
	if l.face != nil && l.scale == scale {
		return l.face, nil
	}
	face, err := opentype.NewFace(l.font, &opentype.FaceOptions{
		Size:    labelSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("compositor: label face: %w", err)
	}
	if l.face != nil {
		_ = l.face.Close()
	}
	l.face = face
	l.scale = scale
	return face, nil
}

// draw writes "index+1/count" onto dst.
func (l *labeler) draw(dst *image.RGBA, index, count int, scale float64) error {
	face, err := l.faceFor(scale)
	if err != nil {
		return err
	}
	margin := face.Metrics().Height.Ceil() / 2
	d := font.Drawer{
		Dst:  dst,
		Src:  l.ink,
		Face: face,
		Dot:  fixed.P(dst.Rect.Min.X+margin, dst.Rect.Max.Y-margin),
	}
	d.DrawString(fmt.Sprintf("%d/%d", index+1, count))
	return nil
}

func (l *labeler) close() {
	if l.face != nil {
		_ = l.face.Close()
		l.face = nil
	}
}
