// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/compositor"
	"github.com/gogpu/scrollframe/viewport"
)

// Common errors returned by View operations.
var (
	// ErrNilWindow is returned when a nil WindowProvider is passed.
	ErrNilWindow = errors.New("gpuview: nil WindowProvider")

	// ErrNilEvents is returned when a nil EventSource is passed.
	ErrNilEvents = errors.New("gpuview: nil EventSource")

	// ErrViewClosed is returned when operations are attempted on a closed view.
	ErrViewClosed = errors.New("gpuview: view is closed")

	// ErrInvalidRenderer is returned when the drawer has no texture creator.
	ErrInvalidRenderer = errors.New("gpuview: drawer must provide a gpucontext.TextureCreator")
)

// Default input steps in logical pixels.
const (
	DefaultLineHeight = 40
	DefaultKeyStep    = 80
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Option configures a View.
type Option func(*config)

type config struct {
	lineHeight float64
	keyStep    float64
	backdrop   []scrollframe.Option
}

// WithLineHeight sets how many logical pixels one wheel line scrolls.
func WithLineHeight(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.lineHeight = px
		}
	}
}

// WithKeyStep sets how many logical pixels the arrow keys scroll.
func WithKeyStep(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.keyStep = px
		}
	}
}

// WithBackdropOptions passes options through to scrollframe.Mount.
// A presenter given here is replaced by the texture uploader.
func WithBackdropOptions(opts ...scrollframe.Option) Option {
	return func(c *config) {
		c.backdrop = append(c.backdrop, opts...)
	}
}

// View drives a Backdrop from a gogpu window and draws it as a texture.
//
// View is NOT safe for concurrent use; see the package documentation.
type View struct {
	window   gpucontext.WindowProvider
	host     *viewport.Host
	backdrop *scrollframe.Backdrop

	lineHeight float64
	keyStep    float64

	texture    gpucontext.Texture
	oldTexture gpucontext.Texture
	surface    *compositor.Surface
	dirty      bool
	uploads    int

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New mounts a backdrop on a virtual document documentHeight logical pixels
// tall, sized to window and scrolled by events.
func New(window gpucontext.WindowProvider, events gpucontext.EventSource, documentHeight float64, opts ...Option) (*View, error) {
	if window == nil {
		return nil, ErrNilWindow
	}
	if events == nil {
		return nil, ErrNilEvents
	}

	cfg := config{lineHeight: DefaultLineHeight, keyStep: DefaultKeyStep}
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &View{
		window:     window,
		lineHeight: cfg.lineHeight,
		keyStep:    cfg.keyStep,
		done:       make(chan struct{}),
	}

	w, h := window.Size()
	v.host = viewport.NewHost(w, h,
		viewport.WithScale(window.ScaleFactor()),
		viewport.WithScrollHeight(documentHeight),
		viewport.WithFrameRequestHook(window.RequestRedraw),
	)

	mountOpts := append(cfg.backdrop, scrollframe.WithPresenter(compositor.PresenterFunc(v.present)))
	b, err := scrollframe.Mount(v.host, mountOpts...)
	if err != nil {
		return nil, fmt.Errorf("gpuview: mount: %w", err)
	}
	v.backdrop = b

	if ses, ok := events.(gpucontext.ScrollEventSource); ok {
		ses.OnScrollEvent(v.handleScrollEvent)
	} else {
		events.OnScroll(func(_, dy float64) { v.scrollBy(dy * v.lineHeight) })
	}
	events.OnResize(v.handleResize)
	events.OnKeyPress(v.handleKey)

	v.wg.Add(1)
	go v.forwardWakeups()

	return v, nil
}

// forwardWakeups asks the window for a redraw whenever work is posted to
// the host, so the next Draw applies it.
func (v *View) forwardWakeups() {
	defer v.wg.Done()
	for {
		select {
		case <-v.done:
			return
		case <-v.host.Wake():
			v.window.RequestRedraw()
		}
	}
}

// present is the backdrop's post-paint hook.
func (v *View) present(s *compositor.Surface) error {
	v.surface = s
	v.dirty = true
	return nil
}

func (v *View) handleScrollEvent(ev gpucontext.ScrollEvent) {
	switch ev.DeltaMode {
	case gpucontext.ScrollDeltaLine:
		v.scrollBy(ev.DeltaY * v.lineHeight)
	case gpucontext.ScrollDeltaPage:
		_, h := v.host.Size()
		v.scrollBy(ev.DeltaY * float64(h))
	default:
		v.scrollBy(ev.DeltaY)
	}
}

func (v *View) scrollBy(dy float64) {
	if v.closed || dy == 0 {
		return
	}
	v.host.ScrollBy(dy)
}

func (v *View) handleResize(width, height int) {
	if v.closed {
		return
	}
	v.host.Resize(width, height, v.window.ScaleFactor())
}

func (v *View) handleKey(key gpucontext.Key, mods gpucontext.Modifiers) {
	if v.closed {
		return
	}
	_, h := v.host.Size()
	page := float64(h) * 0.9

	switch key {
	case gpucontext.KeyDown:
		v.scrollBy(v.keyStep)
	case gpucontext.KeyUp:
		v.scrollBy(-v.keyStep)
	case gpucontext.KeyPageDown:
		v.scrollBy(page)
	case gpucontext.KeyPageUp:
		v.scrollBy(-page)
	case gpucontext.KeySpace:
		if mods.HasShift() {
			v.scrollBy(-page)
		} else {
			v.scrollBy(page)
		}
	case gpucontext.KeyHome:
		v.host.ScrollTo(0)
	case gpucontext.KeyEnd:
		v.host.ScrollTo(viewport.MaxScroll(v.host))
	}
}

// Draw applies pending work, fires the refresh signal, uploads the surface
// if it changed and draws it at the origin. Call it from the window's draw
// callback.
func (v *View) Draw(dc gpucontext.TextureDrawer) error {
	if v.closed {
		return ErrViewClosed
	}

	v.host.Flush()
	v.host.Tick()

	if err := v.upload(dc); err != nil {
		return err
	}
	if v.texture == nil {
		return nil
	}
	return dc.DrawTexture(v.texture, 0, 0)
}

// upload copies the surface into the texture, recreating the texture when
// the surface size changed or the texture cannot be updated in place.
func (v *View) upload(dc gpucontext.TextureDrawer) error {
	if !v.dirty || v.surface == nil {
		return nil
	}
	s := v.surface

	if v.texture != nil {
		_, updatable := v.texture.(gpucontext.TextureUpdater)
		if !updatable || v.texture.Width() != s.Width() || v.texture.Height() != s.Height() {
			v.oldTexture = v.texture
			v.texture = nil
		}
	}

	if v.texture == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		tex, err := creator.NewTextureFromRGBA(s.Width(), s.Height(), s.Pix())
		if err != nil {
			return fmt.Errorf("gpuview: NewTextureFromRGBA failed: %w", err)
		}
		// image.RGBA holds premultiplied alpha.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		v.texture = tex
		destroy(v.oldTexture)
		v.oldTexture = nil
	} else {
		if err := v.texture.(gpucontext.TextureUpdater).UpdateData(s.Pix()); err != nil {
			return fmt.Errorf("gpuview: texture update failed: %w", err)
		}
	}

	v.dirty = false
	v.uploads++
	return nil
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// Host returns the viewport driven by the window.
func (v *View) Host() *viewport.Host {
	return v.host
}

// Backdrop returns the mounted backdrop.
func (v *View) Backdrop() *scrollframe.Backdrop {
	return v.backdrop
}

// Texture returns the current GPU texture, or nil before the first upload.
func (v *View) Texture() gpucontext.Texture {
	return v.texture
}

// Uploads returns the number of surface uploads performed.
func (v *View) Uploads() int {
	return v.uploads
}

// Close unmounts the backdrop and destroys the texture.
// Close is idempotent - multiple calls are safe.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true

	close(v.done)
	v.wg.Wait()

	v.backdrop.Close()
	destroy(v.oldTexture)
	destroy(v.texture)
	v.oldTexture = nil
	v.texture = nil
	v.surface = nil
	return nil
}
