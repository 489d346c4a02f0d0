package frames

import (
	"image"
	"sync"
	"sync/atomic"
)

// LoadState is the loading state of a frame slot.
type LoadState int32

const (
	// Pending means the frame has not finished loading.
	Pending LoadState = iota

	// Loaded means the frame decoded successfully and can be drawn.
	Loaded

	// Failed means loading or decoding failed. Failed slots stay failed.
	Failed
)

// String returns a string representation of the state.
func (s LoadState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Loaded:
		return "Loaded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Slot holds one frame of a Sequence.
//
// A slot transitions from Pending to Loaded or Failed exactly once. State is
// published atomically, so the fields returned by Image, Size and Err are
// safe to read from any goroutine once State reports the final state.
type Slot struct {
	index   int
	locator string

	state atomic.Int32
	once  sync.Once

	img    image.Image
	width  int
	height int
	err    error
}

func newSlot(index int, locator string) *Slot {
	return &Slot{index: index, locator: locator}
}

// Index returns the 0-based position of the slot in its sequence.
func (s *Slot) Index() int { return s.index }

// Locator returns the resource locator the frame is loaded from.
func (s *Slot) Locator() string { return s.locator }

// State returns the current load state.
func (s *Slot) State() LoadState { return LoadState(s.state.Load()) }

// Loaded reports whether the frame can be drawn.
func (s *Slot) Loaded() bool { return s.State() == Loaded }

// Image returns the decoded frame, or nil unless the slot is Loaded.
func (s *Slot) Image() image.Image {
	if !s.Loaded() {
		return nil
	}
	return s.img
}

// Size returns the natural size of the frame, or 0x0 unless the slot is Loaded.
func (s *Slot) Size() (width, height int) {
	if !s.Loaded() {
		return 0, 0
	}
	return s.width, s.height
}

// Err returns the load error of a Failed slot, or nil.
func (s *Slot) Err() error {
	if s.State() != Failed {
		return nil
	}
	return s.err
}

// settle moves the slot out of Pending. It reports false if the slot had
// already settled. An image without pixels settles as Failed.
func (s *Slot) settle(img image.Image, err error) bool {
	settled := false
	s.once.Do(func() {
		settled = true
		if err == nil && img != nil {
			b := img.Bounds()
			if b.Dx() > 0 && b.Dy() > 0 {
				s.img = img
				s.width = b.Dx()
				s.height = b.Dy()
				s.state.Store(int32(Loaded))
				return
			}
		}
		if err == nil {
			err = ErrEmptyFrame
		}
		s.err = err
		s.state.Store(int32(Failed))
	})
	return settled
}
