package scrollframe

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBackground is the container background behind the frames.
const DefaultBackground = "#040408"

// ErrInvalidStyle is returned by Mount when the style cannot be parsed.
var ErrInvalidStyle = errors.New("scrollframe: invalid style")

// Style is the presentation of the backdrop container.
type Style struct {
	// Background is a hex color such as "#040408" or "#fff". Empty uses
	// DefaultBackground.
	Background string
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: background %q: %w", ErrInvalidStyle, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// background resolves the container background of the style.
func (s Style) background() (color.RGBA, error) {
	if s.Background == "" {
		return ParseColor(DefaultBackground)
	}
	return ParseColor(s.Background)
}
