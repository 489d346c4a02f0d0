// Command scrubrender renders a scroll-scrubbed backdrop headlessly, writing
// one PNG per scroll offset.
//
// Usage:
//
//	scrubrender -scene scene.yaml -width 1280 -height 720 -offsets 0,1150,2300
//	scrubrender -root ./public -count 240 -step 100 -out frames/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/config"
	"github.com/gogpu/scrollframe/viewport"
)

func main() {
	var (
		scene        = flag.String("scene", "", "scene file (YAML)")
		root         = flag.String("root", "", "frame directory, overrides the scene")
		count        = flag.Int("count", 0, "frame count, overrides the scene")
		width        = flag.Int("width", 1280, "viewport width in logical pixels")
		height       = flag.Int("height", 720, "viewport height in logical pixels")
		scale        = flag.Float64("scale", 1, "device scale factor")
		scrollHeight = flag.Float64("scroll-height", 0, "document height (default: viewport height + 2300)")
		offsets      = flag.String("offsets", "", "comma-separated scroll offsets")
		step         = flag.Float64("step", 0, "render every step pixels from 0 to the end of the document")
		output       = flag.String("out", ".", "output directory")
		label        = flag.Bool("label", false, "stamp frame numbers")
		interp       = flag.String("interp", "", "scaling kernel: nearest, approx-bilinear, bilinear, catmull-rom")
		timeout      = flag.Duration("timeout", time.Minute, "how long to wait for frames to load")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	scrollframe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := config.Default()
	if *scene != "" {
		loaded, err := config.Load(*scene)
		if err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
		s = loaded
	}
	if *root != "" {
		s.Frames.Root = *root
		s.Frames.BaseURL = ""
	}
	if *count > 0 {
		s.Frames.Count = *count
	}
	if *label {
		s.Render.Label = true
	}
	if *interp != "" {
		s.Render.Interpolation = *interp
	}
	if err := s.Validate(); err != nil {
		log.Fatalf("Invalid scene: %v", err)
	}

	doc := *scrollHeight
	if doc <= 0 {
		doc = float64(*height) + 2300
	}
	ys, err := scrollOffsets(*offsets, *step, doc-float64(*height))
	if err != nil {
		log.Fatalf("Invalid offsets: %v", err)
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	r := renderer{
		width:  *width,
		height: *height,
		scale:  *scale,
		doc:    doc,
		dir:    *output,
	}
	written, err := r.render(s, ys, *timeout)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	log.Printf("Rendered %d offsets to %s", written, *output)
}

// scrollOffsets parses a comma-separated offset list, or steps from 0 to
// maxScroll inclusive when the list is empty. Without either it renders
// the start, middle and end of the document.
func scrollOffsets(list string, step, maxScroll float64) ([]float64, error) {
	if list != "" {
		var ys []float64
		for _, field := range strings.Split(list, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			y, err := strconv.ParseFloat(field, 64)
			if err != nil || math.IsNaN(y) {
				return nil, fmt.Errorf("bad offset %q", field)
			}
			ys = append(ys, y)
		}
		if len(ys) == 0 {
			return nil, errors.New("no offsets")
		}
		return ys, nil
	}

	maxScroll = math.Max(maxScroll, 0)
	if step <= 0 {
		return []float64{0, maxScroll / 2, maxScroll}, nil
	}
	var ys []float64
	for y := 0.0; y < maxScroll; y += step {
		ys = append(ys, y)
	}
	return append(ys, maxScroll), nil
}

// renderer drives a Host by hand: it is the event loop.
type renderer struct {
	width, height int
	scale         float64
	doc           float64
	dir           string
}

func (r renderer) render(s *config.Scene, ys []float64, timeout time.Duration) (int, error) {
	host := viewport.NewHost(r.width, r.height,
		viewport.WithScale(r.scale),
		viewport.WithScrollHeight(r.doc),
	)
	b, err := scrollframe.Mount(host, s.Options()...)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := b.Frames().Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for frames: %w", err)
	}
	host.Flush()

	counts := b.Frames().Counts()
	if counts.Failed > 0 {
		scrollframe.Logger().Warn("scrubrender: some frames failed to load", "failed", counts.Failed)
	}

	written := 0
	for _, y := range ys {
		host.ScrollTo(y)
		host.Tick()

		surface := b.Surface()
		if surface == nil {
			return written, errors.New("no surface: viewport has no area")
		}
		name := filepath.Join(r.dir, fmt.Sprintf("scroll-%06d.png", int(math.Round(y))))
		if err := surface.SavePNG(name); err != nil {
			return written, err
		}
		written++
		scrollframe.Logger().Debug("scrubrender: wrote", "file", name, "frame", b.Cursor())
	}

	st := b.Stats()
	scrollframe.Logger().Info("scrubrender: done",
		"paints", st.Painted, "skipped", st.Skipped, "loaded", st.Frames.Loaded, "failed", st.Frames.Failed)
	return written, nil
}
