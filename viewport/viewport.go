// Package viewport defines the environment a scrollframe backdrop runs in.
//
// A Viewport reports the scroll offset, the scrollable document height and
// the visible size, and delivers three signals: scroll, resize and the
// display refresh. All callbacks run on the viewport's event loop, one at a
// time; work finishing on other goroutines re-enters the loop through Post.
//
// Host is a ready-made Viewport whose events are fed by the embedding
// program: a native window adapter, a websocket bridge, a test or a CLI.
package viewport

import "math"

// Viewport is the environment contract consumed by scrollframe.
//
// Except for Post, methods must be called from the event loop.
type Viewport interface {
	// ScrollY returns the current vertical scroll offset in logical pixels.
	ScrollY() float64

	// ScrollHeight returns the total scrollable document height in logical pixels.
	ScrollHeight() float64

	// Size returns the visible area in logical pixels.
	Size() (width, height int)

	// ScaleFactor returns the number of device pixels per logical pixel.
	ScaleFactor() float64

	// OnScroll registers fn to run after every scroll offset change.
	OnScroll(fn func()) Subscription

	// OnResize registers fn to run after every size or scale change.
	OnResize(fn func()) Subscription

	// RequestFrame schedules fn to run once, on the next display refresh.
	RequestFrame(fn func()) FrameRequest

	// Post queues fn to run on the event loop. Safe for concurrent use.
	Post(fn func())
}

// Subscription is a registered listener.
type Subscription interface {
	// Unsubscribe removes the listener. Calling it again is a no-op.
	Unsubscribe()
}

// FrameRequest is a scheduled refresh callback.
type FrameRequest interface {
	// Cancel prevents the callback from running. It is a no-op once the
	// callback has run or was already cancelled.
	Cancel()
}

// DeviceSize returns the viewport size in device pixels, rounding the
// logical size multiplied by the scale factor. A non-positive or NaN scale
// counts as 1.
func DeviceSize(vp Viewport) (width, height int) {
	w, h := vp.Size()
	scale := vp.ScaleFactor()
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	return int(math.Round(float64(w) * scale)), int(math.Round(float64(h) * scale))
}

// MaxScroll returns the largest scroll offset the document allows:
// ScrollHeight minus the viewport height, never negative.
func MaxScroll(vp Viewport) float64 {
	_, h := vp.Size()
	return math.Max(vp.ScrollHeight()-float64(h), 0)
}
