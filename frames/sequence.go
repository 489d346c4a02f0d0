package frames

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/scrollframe/internal/logging"
	"github.com/gogpu/scrollframe/internal/pool"
)

// Sequence errors.
var (
	// ErrClosed is returned by operations on a closed sequence.
	ErrClosed = errors.New("frames: sequence is closed")

	// ErrAlreadyLoading is returned by a second call to Load.
	ErrAlreadyLoading = errors.New("frames: sequence is already loading")
)

// Counts reports how many slots are in each state.
type Counts struct {
	Pending int
	Loaded  int
	Failed  int
}

// Sequence is a fixed-length, ordered set of frame slots.
//
// All methods are safe for concurrent use.
type Sequence struct {
	slots []*Slot

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex // guards pool, loading and closed
	pool    *pool.Pool
	loading bool
	closed  bool

	loaded    atomic.Int64
	failed    atomic.Int64
	remaining atomic.Int64

	// settled is closed once every slot has left Pending.
	settled chan struct{}

	onSettled func(*Slot)
}

// NewSequence allocates count Pending slots. Slot i is loaded from
// path(i+1). A nil path uses DefaultPath; a negative count is treated as 0.
func NewSequence(count int, path PathFunc) *Sequence {
	if count < 0 {
		count = 0
	}
	if path == nil {
		path = DefaultPath
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Sequence{
		slots:   make([]*Slot, count),
		ctx:     ctx,
		cancel:  cancel,
		settled: make(chan struct{}),
	}
	for i := range s.slots {
		s.slots[i] = newSlot(i, path(i+1))
	}
	s.remaining.Store(int64(count))
	if count == 0 {
		close(s.settled)
	}
	return s
}

// LoadOption configures Sequence.Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	workers   int
	onSettled func(*Slot)
}

// WithWorkers sets the number of loader goroutines for frames after the
// first. Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) LoadOption {
	return func(o *loadOptions) {
		o.workers = n
	}
}

// WithSettledHook registers fn to run after each slot settles. fn runs on
// the loader goroutine that settled the slot.
func WithSettledHook(fn func(*Slot)) LoadOption {
	return func(o *loadOptions) {
		o.onSettled = fn
	}
}

// Load starts loading every frame and returns immediately.
//
// Slot 0 starts at once on a goroutine of its own so the first frame is
// ready as early as possible. The other slots are queued on a worker pool
// without ordering guarantees. Failures are recorded on the slot, logged at
// debug level and never retried.
func (s *Sequence) Load(loader Loader, opts ...LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.loading {
		return ErrAlreadyLoading
	}
	s.loading = true
	s.onSettled = o.onSettled

	if len(s.slots) == 0 {
		return nil
	}

	go s.load(loader, s.slots[0])

	if len(s.slots) == 1 {
		return nil
	}

	p := pool.New(o.workers)
	s.pool = p
	rest := s.slots[1:]
	go func() {
		for _, slot := range rest {
			if s.ctx.Err() != nil {
				return
			}
			if !p.Submit(func() { s.load(loader, slot) }) {
				return
			}
		}
	}()
	return nil
}

// load fetches one slot and settles it. Loads cut short by Close leave the
// slot Pending.
func (s *Sequence) load(loader Loader, slot *Slot) {
	if s.ctx.Err() != nil {
		return
	}

	img, err := loader.Load(s.ctx, slot.locator)
	if s.ctx.Err() != nil {
		return
	}
	if !slot.settle(img, err) {
		return
	}

	log := logging.Logger()
	if slot.State() == Loaded {
		s.loaded.Add(1)
		w, h := slot.Size()
		log.Debug("frames: loaded", "index", slot.index, "locator", slot.locator, "width", w, "height", h)
	} else {
		s.failed.Add(1)
		log.Debug("frames: load failed", "index", slot.index, "locator", slot.locator, "err", slot.err)
	}

	if s.onSettled != nil {
		s.onSettled(slot)
	}
	if s.remaining.Add(-1) == 0 {
		close(s.settled)
	}
}

// Get returns the slot at index, or false when index is out of range.
// It never blocks.
func (s *Sequence) Get(index int) (*Slot, bool) {
	if index < 0 || index >= len(s.slots) {
		return nil, false
	}
	return s.slots[index], true
}

// Len returns the number of slots.
func (s *Sequence) Len() int {
	return len(s.slots)
}

// Counts returns the number of slots in each state.
func (s *Sequence) Counts() Counts {
	loaded := int(s.loaded.Load())
	failed := int(s.failed.Load())
	return Counts{
		Pending: len(s.slots) - loaded - failed,
		Loaded:  loaded,
		Failed:  failed,
	}
}

// Wait blocks until every slot has settled, ctx is done or the sequence is
// closed. Playback never waits; Wait exists for batch tools.
func (s *Sequence) Wait(ctx context.Context) error {
	select {
	case <-s.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}
}

// Close cancels outstanding loads and stops the loader pool.
// Slots that had not settled stay Pending. Close is idempotent.
func (s *Sequence) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	p := s.pool
	s.mu.Unlock()

	s.cancel()
	if p != nil {
		p.Close()
	}
}
