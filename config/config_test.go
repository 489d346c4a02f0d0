package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/frames"
	"github.com/gogpu/scrollframe/viewport"
)

func TestParseFull(t *testing.T) {
	data := []byte(`
frames:
  count: 120
  pattern: /clip/f-%04d.png
  root: ./public
scroll:
  start: 100
  end: 2400
style:
  background: "#102030"
render:
  workers: 4
  cache: 8
  interpolation: catmull-rom
  label: true
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}

	if s.Frames.Count != 120 || s.Frames.Pattern != "/clip/f-%04d.png" || s.Frames.Root != "./public" {
		t.Errorf("Frames = %+v", s.Frames)
	}
	if s.Scroll.Start != 100 || s.Scroll.End == nil || *s.Scroll.End != 2400 {
		t.Errorf("Scroll = %+v", s.Scroll)
	}
	if s.Style.Background != "#102030" {
		t.Errorf("Background = %q", s.Style.Background)
	}
	if s.Render != (RenderConfig{Workers: 4, Cache: 8, Interpolation: "catmull-rom", Label: true}) {
		t.Errorf("Render = %+v", s.Render)
	}

	if l, ok := s.Loader().(frames.FileLoader); !ok || l.Root != "./public" {
		t.Errorf("Loader() = %#v, want FileLoader in ./public", s.Loader())
	}
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) = %v", err)
	}
	want := Default()
	if s.Frames != want.Frames || s.Style != want.Style || s.Render != want.Render {
		t.Errorf("Parse(nil) = %+v, want %+v", s, want)
	}
	if s.Scroll.End != nil {
		t.Error("scroll.end should default to automatic")
	}
}

func TestParseNullEnd(t *testing.T) {
	s, err := Parse([]byte("scroll: {start: 10, end: null}\n"))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if s.Scroll.End != nil || s.Scroll.Start != 10 {
		t.Errorf("Scroll = %+v, want start 10 and automatic end", s.Scroll)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"unknown key", "frames: {count: 3, colour: red}", false},
		{"bad yaml", "frames: [", false},
		{"zero count", "frames: {count: 0}", true},
		{"pattern without verb", "frames: {pattern: /a.jpg}", true},
		{"pattern wrong verb", "frames: {pattern: /a-%s.jpg}", true},
		{"base url scheme", "frames: {base_url: ftp://host/}", true},
		{"background", "style: {background: blue}", true},
		{"negative workers", "render: {workers: -1}", true},
		{"negative cache", "render: {cache: -2}", true},
		{"interpolation", "render: {interpolation: lanczos}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() = nil, want error")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalid) = %v, want %v", err, got, tt.invalid)
			}
			if !strings.HasPrefix(err.Error(), "config: ") {
				t.Errorf("error %q lacks the config prefix", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("frames: {count: 12, base_url: \"https://cdn.example.com/\"}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	l, ok := s.Loader().(frames.HTTPLoader)
	if !ok || l.BaseURL != "https://cdn.example.com/" {
		t.Errorf("Loader() = %#v, want HTTPLoader", s.Loader())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestOptionsMount(t *testing.T) {
	s, err := Parse([]byte(`
frames: {count: 10, root: /nonexistent}
scroll: {start: 50, end: 150}
`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}

	host := viewport.NewHost(40, 30)
	b, err := scrollframe.Mount(host, s.Options()...)
	if err != nil {
		t.Fatalf("Mount() = %v", err)
	}
	t.Cleanup(b.Close)

	if b.Frames().Len() != 10 {
		t.Errorf("frames = %d, want 10", b.Frames().Len())
	}
	if r := b.Range(); r.Start != 50 || r.End != 150 {
		t.Errorf("Range() = %+v, want {50 150}", r)
	}
	slot, _ := b.Frames().Get(9)
	if want := "/sequence/ezgif-frame-010.jpg"; slot.Locator() != want {
		t.Errorf("locator = %q, want %q", slot.Locator(), want)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	end := 900.0
	s := Default()
	s.Scroll.End = &end
	s.Render.Label = true

	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) = %v\n%s", err, data)
	}
	if back.Scroll.End == nil || *back.Scroll.End != end || !back.Render.Label {
		t.Errorf("round trip lost settings:\n%s", data)
	}
}
