package viewport

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval is the refresh period used by Run when none is given.
const DefaultRefreshInterval = time.Second / 60

// Host is a Viewport driven by its embedder.
//
// The embedder calls ScrollTo, Resize and Tick from the event loop (the
// goroutine that owns the Host), or lets Run own the loop and injects
// events with Post. Host keeps no platform state of its own.
type Host struct {
	scrollY      float64
	scrollHeight float64
	width        int
	height       int
	scale        float64

	scroll listeners
	resize listeners

	// frames holds refresh callbacks for the next Tick, in request order.
	frames []*frameRequest

	// onRequest is called whenever a refresh callback is requested.
	onRequest func()

	mu     sync.Mutex
	posted []func()
	wake   chan struct{}
}

var _ Viewport = (*Host)(nil)

// HostOption configures a Host.
type HostOption func(*Host)

// WithScale sets the device scale factor.
func WithScale(scale float64) HostOption {
	return func(h *Host) {
		h.scale = scale
	}
}

// WithScrollHeight sets the scrollable document height.
func WithScrollHeight(height float64) HostOption {
	return func(h *Host) {
		h.scrollHeight = height
	}
}

// WithFrameRequestHook registers fn to run whenever a refresh callback is
// requested. Window adapters use it to ask the platform for a redraw.
func WithFrameRequestHook(fn func()) HostOption {
	return func(h *Host) {
		h.onRequest = fn
	}
}

// NewHost creates a Host with the given logical size.
func NewHost(width, height int, opts ...HostOption) *Host {
	h := &Host{
		width:  width,
		height: height,
		scale:  1,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ScrollY implements Viewport.
func (h *Host) ScrollY() float64 { return h.scrollY }

// ScrollHeight implements Viewport.
func (h *Host) ScrollHeight() float64 { return h.scrollHeight }

// Size implements Viewport.
func (h *Host) Size() (int, int) { return h.width, h.height }

// ScaleFactor implements Viewport.
func (h *Host) ScaleFactor() float64 { return h.scale }

// OnScroll implements Viewport.
func (h *Host) OnScroll(fn func()) Subscription { return h.scroll.add(fn) }

// OnResize implements Viewport.
func (h *Host) OnResize(fn func()) Subscription { return h.resize.add(fn) }

// RequestFrame implements Viewport.
func (h *Host) RequestFrame(fn func()) FrameRequest {
	r := &frameRequest{host: h, fn: fn}
	h.frames = append(h.frames, r)
	if h.onRequest != nil {
		h.onRequest()
	}
	return r
}

// Post implements Viewport. It is safe for concurrent use.
func (h *Host) Post(fn func()) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.posted = append(h.posted, fn)
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Wake returns a channel that receives a value after Post queues work.
// Embedders running their own loop select on it and call Flush.
func (h *Host) Wake() <-chan struct{} { return h.wake }

// Flush runs every function queued by Post, including functions queued
// while flushing. It returns the number of functions run.
func (h *Host) Flush() int {
	n := 0
	for {
		h.mu.Lock()
		batch := h.posted
		h.posted = nil
		h.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
		}
		n += len(batch)
	}
}

// ScrollTo sets the scroll offset and notifies scroll listeners.
// The offset is taken verbatim; hosts that clamp to the document do so
// before calling.
func (h *Host) ScrollTo(y float64) {
	h.scrollY = y
	h.scroll.dispatch()
}

// ScrollBy moves the scroll offset by dy, clamped to [0, MaxScroll].
func (h *Host) ScrollBy(dy float64) {
	y := h.scrollY + dy
	if limit := MaxScroll(h); y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}
	h.ScrollTo(y)
}

// SetScrollHeight changes the document height without firing any signal,
// the way layout changes do not scroll the page.
func (h *Host) SetScrollHeight(height float64) {
	h.scrollHeight = height
}

// Resize sets the logical size and scale factor and notifies resize
// listeners. A non-positive scale keeps the current one.
func (h *Host) Resize(width, height int, scale float64) {
	h.width = width
	h.height = height
	if scale > 0 {
		h.scale = scale
	}
	h.resize.dispatch()
}

// Tick fires the refresh signal: every callback requested before the call
// runs once, in request order. Callbacks requested during Tick wait for the
// next one. It returns the number of callbacks run.
func (h *Host) Tick() int {
	due := h.frames
	h.frames = nil

	n := 0
	for _, r := range due {
		if r.cancelled {
			continue
		}
		r.done = true
		r.fn()
		n++
	}
	return n
}

// PendingFrames returns the number of refresh callbacks waiting for Tick.
func (h *Host) PendingFrames() int {
	n := 0
	for _, r := range h.frames {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// Run owns the event loop until ctx is done: posted work runs as soon as it
// arrives and the refresh signal fires every interval.
// A non-positive interval uses DefaultRefreshInterval.
func (h *Host) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.wake:
			h.Flush()
		case <-ticker.C:
			h.Flush()
			h.Tick()
		}
	}
}

type frameRequest struct {
	host      *Host
	fn        func()
	cancelled bool
	done      bool
}

func (r *frameRequest) Cancel() {
	if r.cancelled || r.done {
		return
	}
	r.cancelled = true

	frames := r.host.frames
	for i, f := range frames {
		if f == r {
			r.host.frames = append(frames[:i], frames[i+1:]...)
			break
		}
	}
}

// listeners is an ordered set of callbacks with removable entries.
type listeners struct {
	entries []*listener
}

type listener struct {
	set *listeners
	fn  func()
}

func (l *listeners) add(fn func()) Subscription {
	e := &listener{set: l, fn: fn}
	l.entries = append(l.entries, e)
	return e
}

func (l *listeners) dispatch() {
	snapshot := append([]*listener(nil), l.entries...)
	for _, e := range snapshot {
		if e.set != nil && e.fn != nil {
			e.fn()
		}
	}
}

func (l *listeners) len() int { return len(l.entries) }

func (e *listener) Unsubscribe() {
	if e.set == nil {
		return
	}
	entries := e.set.entries
	for i, other := range entries {
		if other == e {
			e.set.entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	e.set = nil
}

// Listeners returns the number of registered scroll and resize listeners.
func (h *Host) Listeners() (scroll, resize int) {
	return h.scroll.len(), h.resize.len()
}
