package compositor

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/scrollframe/cache"
	"github.com/gogpu/scrollframe/frames"
	"github.com/gogpu/scrollframe/internal/logging"
)

// FrameSource is the frame store read by the compositor.
// *frames.Sequence implements it.
type FrameSource interface {
	// Get returns the slot at index, or false when out of range.
	Get(index int) (*frames.Slot, bool)

	// Len returns the number of frames.
	Len() int
}

// Presenter receives the surface after every successful paint, for example
// to upload it to a GPU texture or push it to a remote viewer.
type Presenter interface {
	Present(s *Surface) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(s *Surface) error

// Present calls f(s).
func (f PresenterFunc) Present(s *Surface) error {
	return f(s)
}

// Stats counts compositor activity.
type Stats struct {
	// Painted is the number of paints that drew a frame.
	Painted int

	// Skipped is the number of paints dropped because the frame was not
	// loaded, the index was out of range or there was no surface.
	Skipped int

	// Resizes is the number of Resize calls.
	Resizes int

	// PresentErrors is the number of failed Presenter calls.
	PresentErrors int

	// Cache reports the cover render cache.
	Cache cache.Stats
}

// Option configures a Compositor.
type Option func(*options)

type options struct {
	background color.Color
	interp     Interpolation
	cacheSize  int
	presenter  Presenter
	label      bool
}

// WithBackground sets the color the surface is cleared to before each
// paint. The default is opaque black.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.background = c
		}
	}
}

// WithInterpolation sets the scaling kernel. The default is ApproxBiLinear.
func WithInterpolation(i Interpolation) Option {
	return func(o *options) {
		o.interp = i
	}
}

// WithCache keeps up to n composed frames keyed by frame index and surface
// size, so scrubbing back and forth over the same frames skips rescaling.
// Zero disables the cache.
func WithCache(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithPresenter sets the post-paint hook.
func WithPresenter(p Presenter) Option {
	return func(o *options) {
		o.presenter = p
	}
}

// WithLabel stamps the 1-based frame number on every paint.
func WithLabel(enabled bool) Option {
	return func(o *options) {
		o.label = enabled
	}
}

type cacheKey struct {
	index  int
	width  int
	height int
}

// Compositor paints frames from a FrameSource onto its Surface.
type Compositor struct {
	src        FrameSource
	background color.Color
	scaler     draw.Scaler
	presenter  Presenter

	renders *cache.Cache[cacheKey, *image.RGBA]
	label   *labeler
	scale   float64

	surface *Surface
	closed  bool
	stats   Stats
}

// New creates a compositor without a surface. Call Resize before painting.
func New(src FrameSource, opts ...Option) *Compositor {
	o := options{background: color.Black}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Compositor{
		src:        src,
		background: o.background,
		scaler:     o.interp.scaler(),
		presenter:  o.presenter,
		renders:    cache.New[cacheKey, *image.RGBA](o.cacheSize),
		scale:      1,
	}
	if o.label {
		l, err := newLabeler()
		if err != nil {
			logging.Logger().Warn("compositor: frame label disabled", "err", err)
		} else {
			c.label = l
		}
	}
	return c
}

// Surface returns the current surface, or nil before the first Resize and
// after Close.
func (c *Compositor) Surface() *Surface {
	return c.surface
}

// SetScaleFactor records the device pixels per logical pixel. It only
// affects the size of the frame label.
func (c *Compositor) SetScaleFactor(scale float64) {
	if scale > 0 {
		c.scale = scale
	}
}

// Resize replaces the surface with a new width x height one and repaints
// index on it. A non-positive dimension leaves the compositor without a
// surface. Cached renders are dropped.
func (c *Compositor) Resize(width, height, index int) {
	if c.closed {
		return
	}
	c.stats.Resizes++
	c.renders.Clear()

	if width <= 0 || height <= 0 {
		c.surface = nil
		return
	}
	c.surface = NewSurface(width, height)
	logging.Logger().Debug("compositor: resized", "width", width, "height", height)

	c.Paint(index)
}

// Paint draws frame index on the surface with cover placement after
// clearing it to the background. It reports whether anything was drawn.
// Frames that are not loaded leave the surface untouched.
func (c *Compositor) Paint(index int) bool {
	if c.surface == nil || c.src == nil {
		c.stats.Skipped++
		return false
	}
	slot, ok := c.src.Get(index)
	if !ok || !slot.Loaded() {
		c.stats.Skipped++
		return false
	}

	dst := c.surface.RGBA()
	key := cacheKey{index: index, width: dst.Rect.Dx(), height: dst.Rect.Dy()}
	if composed, ok := c.renders.Get(key); ok {
		copy(dst.Pix, composed.Pix)
	} else {
		c.compose(dst, slot.Image())
		if c.renders.Capacity() > 0 {
			snapshot := image.NewRGBA(dst.Rect)
			copy(snapshot.Pix, dst.Pix)
			c.renders.Set(key, snapshot)
		}
	}

	if c.label != nil {
		if err := c.label.draw(dst, index, c.src.Len(), c.scale); err != nil {
			logging.Logger().Warn("compositor: draw label", "err", err)
		}
	}
	c.stats.Painted++

	if c.presenter != nil {
		if err := c.presenter.Present(c.surface); err != nil {
			c.stats.PresentErrors++
			logging.Logger().Warn("compositor: present failed", "err", err)
		}
	}
	return true
}

// compose clears dst and draws img with cover placement.
func (c *Compositor) compose(dst *image.RGBA, img image.Image) {
	draw.Draw(dst, dst.Rect, image.NewUniform(c.background), image.Point{}, draw.Src)

	b := img.Bounds()
	p := Cover(float64(b.Dx()), float64(b.Dy()), float64(dst.Rect.Dx()), float64(dst.Rect.Dy()))
	if p.Empty() {
		return
	}
	c.scaler.Scale(dst, p.Rect(), img, b, draw.Over, nil)
}

// Stats returns a snapshot of the paint counters.
func (c *Compositor) Stats() Stats {
	s := c.stats
	s.Cache = c.renders.Stats()
	return s
}

// Close releases the surface and cached renders. Later calls to Resize and
// Paint are no-ops. Close is idempotent.
func (c *Compositor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.surface = nil
	c.renders.Clear()
	if c.label != nil {
		c.label.close()
	}
}
