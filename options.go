package scrollframe

import (
	"image/color"
	"math"

	"github.com/gogpu/scrollframe/compositor"
	"github.com/gogpu/scrollframe/frames"
)

// DefaultFrameCount is the number of frames in a sequence unless
// WithFrameCount says otherwise.
const DefaultFrameCount = 240

// Option configures a Backdrop during Mount.
//
// Example:
//
//	b, err := scrollframe.Mount(host,
//		scrollframe.WithFrameCount(120),
//		scrollframe.WithScrollEnd(4000),
//		scrollframe.WithBackground(color.Black),
//	)
type Option func(*options)

// options holds the configuration gathered from Option values.
type options struct {
	frameCount int
	path       frames.PathFunc
	start      float64
	end        float64
	endSet     bool
	style      Style
	background color.Color
	loader     frames.Loader
	workers    int
	interp     compositor.Interpolation
	cacheSize  int
	presenter  compositor.Presenter
	label      bool
}

// defaultOptions returns the default mount options.
func defaultOptions() options {
	return options{
		frameCount: DefaultFrameCount,
		path:       frames.DefaultPath,
		loader:     frames.FileLoader{Root: "."},
		interp:     compositor.ApproxBiLinear,
	}
}

// WithFrameCount sets the number of frames in the sequence.
// Mount fails when n is not positive.
func WithFrameCount(n int) Option {
	return func(o *options) {
		o.frameCount = n
	}
}

// WithFramePath sets the function mapping a 1-based frame number to its
// locator. nil keeps frames.DefaultPath.
func WithFramePath(fn frames.PathFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.path = fn
		}
	}
}

// WithScrollStart sets the scroll offset where playback shows frame 0.
func WithScrollStart(y float64) Option {
	return func(o *options) {
		o.start = y
	}
}

// WithScrollEnd sets the scroll offset where playback reaches the last
// frame. Without it the end follows the document: scroll height minus
// viewport height, re-read on every scroll event. NaN restores that default.
func WithScrollEnd(y float64) Option {
	return func(o *options) {
		o.end = y
		o.endSet = !math.IsNaN(y)
	}
}

// WithStyle sets the container style.
func WithStyle(s Style) Option {
	return func(o *options) {
		o.style = s
	}
}

// WithBackground sets the container background directly, taking
// precedence over WithStyle.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithLoader sets the frame loader. The default reads files relative to
// the working directory.
func WithLoader(l frames.Loader) Option {
	return func(o *options) {
		if l != nil {
			o.loader = l
		}
	}
}

// WithWorkers sets the size of the loader pool for frames after the first.
// Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithInterpolation sets the scaling kernel.
func WithInterpolation(i compositor.Interpolation) Option {
	return func(o *options) {
		o.interp = i
	}
}

// WithFrameCache keeps up to n composed frames so scrubbing back over
// recent frames skips rescaling. The default 0 disables the cache.
func WithFrameCache(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithPresenter sets a hook that receives the surface after every paint.
func WithPresenter(p compositor.Presenter) Option {
	return func(o *options) {
		o.presenter = p
	}
}

// WithFrameLabel stamps the 1-based frame number on every paint.
func WithFrameLabel(enabled bool) Option {
	return func(o *options) {
		o.label = enabled
	}
}
