package scrollframe

import "math"

// ScrollRange is the span of scroll offsets mapped onto the sequence:
// Start plays frame 0 and End plays the last frame.
type ScrollRange struct {
	Start float64
	End   float64
}

// NewScrollRange returns a range with End clamped to at least Start+1, so
// progress never divides by zero.
func NewScrollRange(start, end float64) ScrollRange {
	return ScrollRange{Start: start, End: end}.normalize()
}

func (r ScrollRange) normalize() ScrollRange {
	if math.IsNaN(r.Start) || math.IsInf(r.Start, 0) {
		r.Start = 0
	}
	if !(r.End >= r.Start+1) || math.IsInf(r.End, 0) {
		r.End = r.Start + 1
	}
	return r
}

// Span returns End - Start of the normalized range.
func (r ScrollRange) Span() float64 {
	n := r.normalize()
	return n.End - n.Start
}

// Progress maps a scroll offset onto [0, 1] within r. Offsets before Start
// give 0, offsets past End give 1 and NaN gives 0. It depends on scrollY
// alone, never on velocity or time.
func Progress(scrollY float64, r ScrollRange) float64 {
	r = r.normalize()
	p := (scrollY - r.Start) / (r.End - r.Start)
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// FrameIndex maps progress onto a frame index in [0, frameCount-1]:
// floor(progress*frameCount), with progress 1 landing on the last frame.
// It returns 0 when frameCount is not positive.
func FrameIndex(progress float64, frameCount int) int {
	if frameCount <= 0 || !(progress > 0) {
		return 0
	}
	i := math.Floor(progress * float64(frameCount))
	if i >= float64(frameCount-1) {
		return frameCount - 1
	}
	return int(i)
}
