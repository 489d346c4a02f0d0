// Package frames owns the ordered sequence of still frames a backdrop plays.
//
// A Sequence is a fixed-length array of slots, one per frame. Each slot
// starts Pending and settles exactly once, to Loaded or Failed, when its
// image finishes loading on a background goroutine. Lookups never block:
// a caller asking for a frame that has not loaded yet simply gets a slot
// that is not Loaded and skips drawing it.
//
// Frame numbers handed to a PathFunc are 1-based while slot indexes are
// 0-based, so slot i is loaded from path(i+1):
//
//	seq := frames.NewSequence(240, frames.DefaultPath)
//	_ = seq.Load(frames.FileLoader{Root: "public"})
//	defer seq.Close()
//
//	if slot, ok := seq.Get(119); ok && slot.Loaded() {
//	    img := slot.Image() // decoded from /sequence/ezgif-frame-120.jpg
//	}
//
// Slot 0 is loaded first on a goroutine of its own; the remaining frames are
// handed to a bounded worker pool in no particular order. Failed frames are
// never retried.
package frames
