package scrollframe

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/scrollframe/compositor"
	"github.com/gogpu/scrollframe/frames"
	"github.com/gogpu/scrollframe/viewport"
)

// Mount errors.
var (
	// ErrNilViewport is returned by Mount without a viewport.
	ErrNilViewport = errors.New("scrollframe: nil viewport")

	// ErrFrameCount is returned by Mount for a non-positive frame count.
	ErrFrameCount = errors.New("scrollframe: frame count must be positive")
)

// Stats counts backdrop activity since Mount.
type Stats struct {
	// ScrollEvents is the number of scroll events handled.
	ScrollEvents int

	// Scheduled is the number of redraws requested.
	Scheduled int

	// Coalesced is the number of requested redraws cancelled by a newer
	// target before the display refreshed.
	Coalesced int

	// Redraws is the number of refresh callbacks that ran.
	Redraws int

	// Resizes is the number of surface resizes.
	Resizes int

	// Painted is the number of paints that drew a frame, including the
	// repaints that follow a resize.
	Painted int

	// Skipped is the number of paints dropped because the frame was not
	// loaded yet or had failed.
	Skipped int

	// Frames reports the load state of the sequence.
	Frames frames.Counts
}

// Backdrop is a mounted scroll-scrubbed image sequence.
//
// A Backdrop is created by Mount and released by Close. Its methods must be
// called from the viewport's event loop.
type Backdrop struct {
	id  string
	vp  viewport.Viewport
	seq *frames.Sequence
	cmp *compositor.Compositor

	start  float64
	end    float64
	endSet bool

	// cursor is the frame index the next paint draws.
	cursor int

	// pending is the single outstanding redraw; a newer target cancels it.
	pending viewport.FrameRequest

	scrollSub viewport.Subscription
	resizeSub viewport.Subscription

	closed bool
	stats  Stats
}

// Mount attaches a backdrop to vp: it subscribes to scroll and resize,
// sizes the surface and starts loading every frame, the first one with
// priority. Once the first frame has loaded the surface is resized and the
// current frame painted, whatever the scroll position.
//
// Mount must be called from the viewport's event loop.
func Mount(vp viewport.Viewport, opts ...Option) (*Backdrop, error) {
	if vp == nil {
		return nil, ErrNilViewport
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.frameCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameCount, o.frameCount)
	}

	bg := o.background
	if bg == nil {
		c, err := o.style.background()
		if err != nil {
			return nil, err
		}
		bg = c
	}

	seq := frames.NewSequence(o.frameCount, o.path)
	b := &Backdrop{
		id:     uuid.NewString(),
		vp:     vp,
		seq:    seq,
		start:  o.start,
		end:    o.end,
		endSet: o.endSet,
	}
	b.cmp = compositor.New(seq,
		compositor.WithBackground(bg),
		compositor.WithInterpolation(o.interp),
		compositor.WithCache(o.cacheSize),
		compositor.WithPresenter(o.presenter),
		compositor.WithLabel(o.label),
	)

	b.scrollSub = vp.OnScroll(b.handleScroll)
	b.resizeSub = vp.OnResize(b.resizeSurface)
	b.resizeSurface()

	if err := seq.Load(o.loader,
		frames.WithWorkers(o.workers),
		frames.WithSettledHook(b.frameSettled),
	); err != nil {
		b.Close()
		return nil, fmt.Errorf("scrollframe: start loading: %w", err)
	}

	Logger().Info("scrollframe: mounted", "id", b.id, "frames", o.frameCount)
	return b, nil
}

// frameSettled runs on a loader goroutine. Only the first frame matters
// here: its arrival sizes the surface and produces the first picture.
func (b *Backdrop) frameSettled(slot *frames.Slot) {
	if slot.Index() != 0 {
		return
	}
	if !slot.Loaded() {
		Logger().Warn("scrollframe: first frame failed", "id", b.id, "locator", slot.Locator(), "err", slot.Err())
		return
	}
	b.vp.Post(func() {
		if b.closed {
			return
		}
		b.resizeSurface()
	})
}

// handleScroll recomputes the target frame and schedules one redraw when
// it changed, replacing any redraw still waiting for the display.
func (b *Backdrop) handleScroll() {
	if b.closed {
		return
	}
	b.stats.ScrollEvents++

	target := FrameIndex(Progress(b.vp.ScrollY(), b.Range()), b.seq.Len())
	if target == b.cursor {
		return
	}

	if b.pending != nil {
		b.pending.Cancel()
		b.stats.Coalesced++
	}
	b.cursor = target
	b.pending = b.vp.RequestFrame(b.redraw)
	b.stats.Scheduled++
}

// redraw is the refresh callback: it paints the cursor as it is now.
func (b *Backdrop) redraw() {
	b.pending = nil
	if b.closed {
		return
	}
	b.stats.Redraws++
	b.cmp.Paint(b.cursor)
}

// resizeSurface matches the surface to the viewport in device pixels and
// repaints the cursor. It does not re-read the scroll position.
func (b *Backdrop) resizeSurface() {
	if b.closed {
		return
	}
	w, h := viewport.DeviceSize(b.vp)
	b.cmp.SetScaleFactor(b.vp.ScaleFactor())
	b.cmp.Resize(w, h, b.cursor)
	b.stats.Resizes++
}

// ID returns the unique identifier of this mount, used in log records.
func (b *Backdrop) ID() string {
	return b.id
}

// Range returns the scroll range in effect. Without an explicit end, the
// end follows the current document and viewport size.
func (b *Backdrop) Range() ScrollRange {
	end := b.end
	if !b.endSet {
		end = b.vp.ScrollHeight() - vpHeight(b.vp)
	}
	return NewScrollRange(b.start, end)
}

func vpHeight(vp viewport.Viewport) float64 {
	_, h := vp.Size()
	return float64(h)
}

// Cursor returns the frame index the backdrop shows or is about to show.
func (b *Backdrop) Cursor() int {
	return b.cursor
}

// Surface returns the composited surface, or nil when it has no size or
// the backdrop is closed.
func (b *Backdrop) Surface() *compositor.Surface {
	return b.cmp.Surface()
}

// Frames returns the frame sequence.
func (b *Backdrop) Frames() *frames.Sequence {
	return b.seq
}

// Repaint paints the cursor immediately, bypassing redraw scheduling.
// It reports whether a frame was drawn.
func (b *Backdrop) Repaint() bool {
	if b.closed {
		return false
	}
	return b.cmp.Paint(b.cursor)
}

// Stats returns a snapshot of the activity counters.
func (b *Backdrop) Stats() Stats {
	s := b.stats
	cs := b.cmp.Stats()
	s.Painted = cs.Painted
	s.Skipped = cs.Skipped
	s.Frames = b.seq.Counts()
	return s
}

// Closed reports whether Close has been called.
func (b *Backdrop) Closed() bool {
	return b.closed
}

// Close is the single teardown path: it removes both listeners, cancels
// the pending redraw, stops frame loading and releases the surface.
// Frame loads completing afterwards are dropped. Close is idempotent.
func (b *Backdrop) Close() {
	if b.closed {
		return
	}
	b.closed = true

	b.scrollSub.Unsubscribe()
	b.resizeSub.Unsubscribe()
	if b.pending != nil {
		b.pending.Cancel()
		b.pending = nil
	}
	b.seq.Close()
	b.cmp.Close()

	Logger().Info("scrollframe: closed", "id", b.id)
}
