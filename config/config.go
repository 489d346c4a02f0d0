// Package config reads scene files: YAML descriptions of a scrollframe
// backdrop (its frames, scroll range, style and render settings) that the
// commands turn into mount options.
//
// A complete scene file:
//
//	frames:
//	  count: 240
//	  pattern: /sequence/ezgif-frame-%03d.jpg
//	  root: ./public
//	scroll:
//	  start: 0
//	  end: 2300
//	style:
//	  background: "#040408"
//	render:
//	  workers: 8
//	  cache: 8
//	  interpolation: bilinear
//	  label: false
//
// Every key is optional; missing keys keep the defaults of Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/compositor"
	"github.com/gogpu/scrollframe/frames"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid scene")

// Scene is the parsed form of a scene file.
type Scene struct {
	Frames FramesConfig `yaml:"frames"`
	Scroll ScrollConfig `yaml:"scroll"`
	Style  StyleConfig  `yaml:"style"`
	Render RenderConfig `yaml:"render"`
}

// FramesConfig describes the image sequence.
type FramesConfig struct {
	Count   int    `yaml:"count"`
	Pattern string `yaml:"pattern"`  // printf pattern over the 1-based frame number
	Root    string `yaml:"root"`     // directory frames are read from
	BaseURL string `yaml:"base_url"` // fetch frames over HTTP instead of Root
}

// ScrollConfig is the scroll range. A missing or null end follows the
// document height.
type ScrollConfig struct {
	Start float64  `yaml:"start"`
	End   *float64 `yaml:"end"`
}

// StyleConfig is the container style.
type StyleConfig struct {
	Background string `yaml:"background"`
}

// RenderConfig tunes loading and compositing.
type RenderConfig struct {
	Workers       int    `yaml:"workers"`
	Cache         int    `yaml:"cache"`
	Interpolation string `yaml:"interpolation"`
	Label         bool   `yaml:"label"`
}

// Default returns the scene used for keys a file leaves out.
func Default() *Scene {
	return &Scene{
		Frames: FramesConfig{
			Count:   scrollframe.DefaultFrameCount,
			Pattern: frames.DefaultPattern,
			Root:    ".",
		},
		Style: StyleConfig{Background: scrollframe.DefaultBackground},
		Render: RenderConfig{
			Interpolation: compositor.ApproxBiLinear.String(),
		},
	}
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("config: read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown keys are errors.
func Parse(data []byte) (*Scene, error) {
	s := Default()
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("config: parse scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports the first invalid setting.
func (s *Scene) Validate() error {
	if s.Frames.Count <= 0 {
		return fmt.Errorf("%w: frames.count must be positive, got %d", ErrInvalid, s.Frames.Count)
	}
	if got := fmt.Sprintf(s.Frames.Pattern, 1); strings.Contains(got, "%!") {
		return fmt.Errorf("%w: frames.pattern %q needs exactly one integer verb", ErrInvalid, s.Frames.Pattern)
	}
	if s.Frames.BaseURL != "" && !strings.HasPrefix(s.Frames.BaseURL, "http://") && !strings.HasPrefix(s.Frames.BaseURL, "https://") {
		return fmt.Errorf("%w: frames.base_url %q is not an http(s) URL", ErrInvalid, s.Frames.BaseURL)
	}
	if _, err := scrollframe.ParseColor(s.Style.Background); err != nil {
		return fmt.Errorf("%w: style.background: %w", ErrInvalid, err)
	}
	if s.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must not be negative", ErrInvalid)
	}
	if s.Render.Cache < 0 {
		return fmt.Errorf("%w: render.cache must not be negative", ErrInvalid)
	}
	if _, err := compositor.ParseInterpolation(s.Render.Interpolation); err != nil {
		return fmt.Errorf("%w: render.interpolation: %w", ErrInvalid, err)
	}
	return nil
}

// Loader returns the frame loader the scene asks for: HTTP when base_url is
// set, the root directory otherwise.
func (s *Scene) Loader() frames.Loader {
	if s.Frames.BaseURL != "" {
		return frames.HTTPLoader{BaseURL: s.Frames.BaseURL}
	}
	return frames.FileLoader{Root: s.Frames.Root}
}

// Options converts the scene into mount options. The scene must be valid.
func (s *Scene) Options() []scrollframe.Option {
	interp, _ := compositor.ParseInterpolation(s.Render.Interpolation)
	opts := []scrollframe.Option{
		scrollframe.WithFrameCount(s.Frames.Count),
		scrollframe.WithFramePath(frames.PatternPath(s.Frames.Pattern)),
		scrollframe.WithLoader(s.Loader()),
		scrollframe.WithScrollStart(s.Scroll.Start),
		scrollframe.WithStyle(scrollframe.Style{Background: s.Style.Background}),
		scrollframe.WithWorkers(s.Render.Workers),
		scrollframe.WithInterpolation(interp),
		scrollframe.WithFrameCache(s.Render.Cache),
		scrollframe.WithFrameLabel(s.Render.Label),
	}
	if s.Scroll.End != nil {
		opts = append(opts, scrollframe.WithScrollEnd(*s.Scroll.End))
	}
	return opts
}

// Marshal encodes the scene as YAML.
func (s *Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
