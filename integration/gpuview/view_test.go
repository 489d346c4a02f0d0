// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/frames"
)

// mockWindow implements gpucontext.WindowProvider and counts redraw requests.
type mockWindow struct {
	gpucontext.NullWindowProvider
	redraws atomic.Int32
}

func (m *mockWindow) RequestRedraw() { m.redraws.Add(1) }

// mockEvents captures the callbacks registered by the view.
type mockEvents struct {
	gpucontext.NullEventSource
	scroll func(dx, dy float64)
	resize func(w, h int)
	key    func(gpucontext.Key, gpucontext.Modifiers)
}

func (m *mockEvents) OnScroll(fn func(dx, dy float64))                         { m.scroll = fn }
func (m *mockEvents) OnResize(fn func(w, h int))                               { m.resize = fn }
func (m *mockEvents) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) { m.key = fn }

// mockScrollEvents also provides detailed scroll events.
type mockScrollEvents struct {
	mockEvents
	detailed func(gpucontext.ScrollEvent)
}

func (m *mockScrollEvents) OnScrollEvent(fn func(gpucontext.ScrollEvent)) { m.detailed = fn }

// mockTexture implements the texture interfaces for testing.
type mockTexture struct {
	width     int
	height    int
	data      []byte
	updated   int
	destroyed bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy() { m.destroyed = true }

// fixedTexture is a texture whose contents cannot be updated.
type fixedTexture struct {
	width     int
	height    int
	destroyed bool
}

func (m *fixedTexture) Width() int  { return m.width }
func (m *fixedTexture) Height() int { return m.height }
func (m *fixedTexture) Destroy()    { m.destroyed = true }

// mockRenderer implements gpucontext.TextureCreator for testing.
type mockRenderer struct {
	textures []*mockTexture
	fixed    []*fixedTexture
	failNext bool
	// immutable makes the renderer create fixedTextures.
	immutable bool
}

func (m *mockRenderer) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	if m.immutable {
		tex := &fixedTexture{width: width, height: height}
		m.fixed = append(m.fixed, tex)
		return tex, nil
	}
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

// mockDrawContext implements gpucontext.TextureDrawer for testing.
type mockDrawContext struct {
	renderer  *mockRenderer
	drawn     gpucontext.Texture
	drawCount int
}

func (m *mockDrawContext) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawn = tex
	m.drawCount++
	return nil
}

func (m *mockDrawContext) TextureCreator() gpucontext.TextureCreator {
	if m.renderer == nil {
		return nil
	}
	return m.renderer
}

var green = color.RGBA{0, 200, 0, 255}

func greenLoader() frames.Loader {
	return frames.LoaderFunc(func(ctx context.Context, locator string) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 2))
		for i := 0; i < len(img.Pix); i += 4 {
			copy(img.Pix[i:], []byte{green.R, green.G, green.B, green.A})
		}
		return img, nil
	})
}

// newView creates a 100x50 window at scale 2 over a 2350 px document, with
// every frame loaded.
func newView(t *testing.T, events gpucontext.EventSource) (*View, *mockWindow) {
	t.Helper()
	win := &mockWindow{NullWindowProvider: gpucontext.NullWindowProvider{W: 100, H: 50, SF: 2}}
	v, err := New(win, events, 2350,
		WithBackdropOptions(scrollframe.WithLoader(greenLoader()), scrollframe.WithFrameCount(24)),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.Backdrop().Frames().Wait(ctx); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	return v, win
}

func TestNewErrors(t *testing.T) {
	win := &mockWindow{}
	events := &mockEvents{}

	if _, err := New(nil, events, 100); !errors.Is(err, ErrNilWindow) {
		t.Errorf("New(nil window) = %v, want ErrNilWindow", err)
	}
	if _, err := New(win, nil, 100); !errors.Is(err, ErrNilEvents) {
		t.Errorf("New(nil events) = %v, want ErrNilEvents", err)
	}
	_, err := New(win, events, 100, WithBackdropOptions(scrollframe.WithFrameCount(0)))
	if !errors.Is(err, scrollframe.ErrFrameCount) {
		t.Errorf("New(zero frames) = %v, want ErrFrameCount", err)
	}
}

func TestDrawUploadsFirstFrame(t *testing.T) {
	v, _ := newView(t, &mockEvents{})
	dc := &mockDrawContext{renderer: &mockRenderer{}}

	if err := v.Draw(dc); err != nil {
		t.Fatalf("Draw() = %v", err)
	}

	if len(dc.renderer.textures) != 1 {
		t.Fatalf("created %d textures, want 1", len(dc.renderer.textures))
	}
	tex := dc.renderer.textures[0]
	if tex.width != 200 || tex.height != 100 {
		t.Errorf("texture = %dx%d, want 200x100", tex.width, tex.height)
	}
	if got := (color.RGBA{tex.data[0], tex.data[1], tex.data[2], tex.data[3]}); got != green {
		t.Errorf("first texel = %v, want %v", got, green)
	}
	if dc.drawn != tex || dc.drawCount != 1 {
		t.Error("texture was not drawn")
	}

	// Nothing changed: no upload, same texture drawn again.
	if err := v.Draw(dc); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if v.Uploads() != 1 || tex.updated != 0 || dc.drawCount != 2 {
		t.Errorf("uploads %d, updates %d, draws %d; want 1, 0, 2", v.Uploads(), tex.updated, dc.drawCount)
	}
}

func TestWheelScrollsAndRequestsRedraw(t *testing.T) {
	events := &mockEvents{}
	v, win := newView(t, events)
	dc := &mockDrawContext{renderer: &mockRenderer{}}
	_ = v.Draw(dc)

	before := win.redraws.Load()
	events.scroll(0, 30) // 30 lines of 40 px

	if got := v.Host().ScrollY(); got != 1200 {
		t.Errorf("ScrollY() = %v, want 1200", got)
	}
	if win.redraws.Load() <= before {
		t.Error("scroll did not request a redraw")
	}

	if err := v.Draw(dc); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if got := v.Backdrop().Cursor(); got != 12 {
		t.Errorf("Cursor() = %d, want 12", got)
	}
	if tex := dc.renderer.textures[0]; tex.updated != 1 {
		t.Errorf("texture updated %d times, want 1", tex.updated)
	}
}

func TestScrollEventDeltaModes(t *testing.T) {
	tests := []struct {
		name string
		ev   gpucontext.ScrollEvent
		want float64
	}{
		{"pixels", gpucontext.ScrollEvent{DeltaY: 75}, 75},
		{"lines", gpucontext.ScrollEvent{DeltaY: 2, DeltaMode: gpucontext.ScrollDeltaLine}, 80},
		{"pages", gpucontext.ScrollEvent{DeltaY: 1, DeltaMode: gpucontext.ScrollDeltaPage}, 50},
		{"clamped", gpucontext.ScrollEvent{DeltaY: -10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &mockScrollEvents{}
			v, _ := newView(t, events)
			if events.scroll != nil {
				t.Error("plain OnScroll should not be used when detailed events exist")
			}
			events.detailed(tt.ev)
			if got := v.Host().ScrollY(); got != tt.want {
				t.Errorf("ScrollY() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	events := &mockEvents{}
	v, _ := newView(t, events)

	steps := []struct {
		key  gpucontext.Key
		mods gpucontext.Modifiers
		want float64
	}{
		{gpucontext.KeyDown, 0, 80},
		{gpucontext.KeyPageDown, 0, 125},
		{gpucontext.KeySpace, gpucontext.ModShift, 80},
		{gpucontext.KeyUp, 0, 0},
		{gpucontext.KeyEnd, 0, 2300},
		{gpucontext.KeyHome, 0, 0},
	}
	for _, s := range steps {
		events.key(s.key, s.mods)
		if got := v.Host().ScrollY(); got != s.want {
			t.Errorf("after key %v: ScrollY() = %v, want %v", s.key, got, s.want)
		}
	}
}

func TestResizeRecreatesTexture(t *testing.T) {
	events := &mockEvents{}
	v, _ := newView(t, events)
	dc := &mockDrawContext{renderer: &mockRenderer{}}
	_ = v.Draw(dc)

	events.resize(80, 40)
	if err := v.Draw(dc); err != nil {
		t.Fatalf("Draw() = %v", err)
	}

	if len(dc.renderer.textures) != 2 {
		t.Fatalf("created %d textures, want 2", len(dc.renderer.textures))
	}
	old, cur := dc.renderer.textures[0], dc.renderer.textures[1]
	if !old.destroyed {
		t.Error("old texture was not destroyed")
	}
	if cur.width != 160 || cur.height != 80 {
		t.Errorf("new texture = %dx%d, want 160x80", cur.width, cur.height)
	}
	if v.Texture() != cur {
		t.Error("Texture() is not the new texture")
	}
}

func TestRepaintRecreatesImmutableTexture(t *testing.T) {
	events := &mockEvents{}
	v, _ := newView(t, events)
	r := &mockRenderer{immutable: true}
	dc := &mockDrawContext{renderer: r}
	if err := v.Draw(dc); err != nil {
		t.Fatalf("Draw() = %v", err)
	}

	// Same size: the surface is repainted but the texture keeps its size.
	events.resize(100, 50)
	if err := v.Draw(dc); err != nil {
		t.Fatalf("Draw() = %v", err)
	}

	if len(r.fixed) != 2 {
		t.Fatalf("created %d textures, want 2", len(r.fixed))
	}
	if !r.fixed[0].destroyed {
		t.Error("stale texture was not destroyed")
	}
	if v.Texture() != r.fixed[1] {
		t.Error("Texture() is not the recreated texture")
	}
	if got := v.Uploads(); got != 2 {
		t.Errorf("Uploads() = %d, want 2", got)
	}
	if dc.drawn != r.fixed[1] {
		t.Error("recreated texture was not drawn")
	}
}

func TestDrawErrors(t *testing.T) {
	v, _ := newView(t, &mockEvents{})

	if err := v.Draw(&mockDrawContext{}); !errors.Is(err, ErrInvalidRenderer) {
		t.Errorf("Draw() without creator = %v, want ErrInvalidRenderer", err)
	}

	dc := &mockDrawContext{renderer: &mockRenderer{failNext: true}}
	if err := v.Draw(dc); err == nil {
		t.Error("Draw() should report texture creation failure")
	}
	if err := v.Draw(dc); err != nil {
		t.Errorf("Draw() retry = %v", err)
	}
}

func TestClose(t *testing.T) {
	events := &mockEvents{}
	v, _ := newView(t, events)
	dc := &mockDrawContext{renderer: &mockRenderer{}}
	_ = v.Draw(dc)

	if err := v.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}

	if !dc.renderer.textures[0].destroyed {
		t.Error("texture not destroyed on Close")
	}
	if !v.Backdrop().Closed() {
		t.Error("backdrop not closed")
	}
	if err := v.Draw(dc); !errors.Is(err, ErrViewClosed) {
		t.Errorf("Draw() after Close = %v, want ErrViewClosed", err)
	}

	events.scroll(0, 5)
	events.resize(10, 10)
	if got := v.Host().ScrollY(); got != 0 {
		t.Errorf("scroll after Close moved the host to %v", got)
	}
}
