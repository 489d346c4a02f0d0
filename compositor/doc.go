// Package compositor paints frames of a sequence onto a device-pixel surface.
//
// The Compositor owns a Surface mirroring the viewport in device pixels.
// Paint clears it to the container background and draws one frame with
// cover placement: scaled uniformly until it fills the surface on both axes,
// then centered, with the overflow cropped. Frames that are not loaded are
// skipped and the previous picture stays on screen.
//
// A Compositor is not safe for concurrent use. The scrollframe package
// drives it from the viewport's event loop.
//
// Basic usage:
//
//	seq := frames.NewSequence(240, nil)
//	c := compositor.New(seq, compositor.WithBackground(color.RGBA{4, 4, 8, 255}))
//	c.Resize(1600, 900, 0)
//	c.Paint(120)
//	_ = c.Surface().SavePNG("frame.png")
package compositor
