// Command scrubserve serves a scroll-scrubbed backdrop to browsers.
//
// The page at / is a tall scrolling document; it reports its size and
// scroll offset over a websocket at /ws and shows the frames the server
// composites in reply. Frames are read from the scene's root directory,
// and the scene file is reloaded when it changes, applying to new
// connections.
//
// Usage:
//
//	scrubserve -addr :8080 -scene scene.yaml
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/integration/wsview"
)

//go:embed index.html
var indexHTML []byte

func main() {
	var (
		addr    = flag.String("addr", ":8080", "listen address")
		scene   = flag.String("scene", "", "scene file (YAML), reloaded on change")
		quality = flag.Int("quality", wsview.DefaultJPEGQuality, "JPEG quality of streamed frames")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	scrollframe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	store, err := newSceneStore(*scene)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *scene != "" {
		go func() {
			if err := store.watch(ctx, nil); err != nil {
				scrollframe.Logger().Warn("scrubserve: scene watcher stopped", "err", err)
			}
		}()
	}

	views := wsview.NewHandler(store.Options, wsview.WithJPEGQuality(*quality))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           routes(views),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		views.Close()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Serving %d frames on %s", store.Scene().Frames.Count, *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

// routes serves the page and the websocket endpoint.
func routes(views http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", views)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	return mux
}
