package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
)

// Surface is an RGBA pixel buffer sized in device pixels.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a transparent surface. Non-positive dimensions are
// treated as 0.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Width returns the width of the surface in pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height of the surface in pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Pix returns the raw pixel data, 4 bytes per pixel in RGBA order.
func (s *Surface) Pix() []uint8 {
	return s.img.Pix
}

// RGBA returns the backing image. Writes to it are visible on the surface.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Clear fills the entire surface with a color.
func (s *Surface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// EncodeJPEG writes the surface as JPEG. A quality outside 1..100 uses
// jpeg.DefaultQuality.
func (s *Surface) EncodeJPEG(w io.Writer, quality int) error {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return jpeg.Encode(w, s.img, &jpeg.Options{Quality: quality})
}

// SavePNG saves the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := s.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	return s.img.At(x, y)
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Rect
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}
