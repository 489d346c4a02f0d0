package main

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/config"
)

// sceneStore holds the current scene. Sessions read it on connect; the
// watcher swaps it when the file changes.
type sceneStore struct {
	path    string
	current atomic.Pointer[config.Scene]
	reloads atomic.Int64
}

// newSceneStore loads path, or uses the default scene when path is empty.
func newSceneStore(path string) (*sceneStore, error) {
	st := &sceneStore{path: path}
	s := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	st.current.Store(s)
	return st, nil
}

// Scene returns the current scene.
func (st *sceneStore) Scene() *config.Scene {
	return st.current.Load()
}

// Options returns mount options for a new session.
func (st *sceneStore) Options() []scrollframe.Option {
	return st.Scene().Options()
}

// reload re-reads the file. An invalid file keeps the previous scene.
func (st *sceneStore) reload() error {
	s, err := config.Load(st.path)
	if err != nil {
		return err
	}
	st.current.Store(s)
	st.reloads.Add(1)
	return nil
}

// watch reloads the scene whenever its file is written or replaced, until
// ctx is done. The directory is watched rather than the file so editors
// that save by renaming are seen too. ready, if not nil, is closed once the
// watcher is installed.
func (st *sceneStore) watch(ctx context.Context, ready chan<- struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(st.path)); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	log := scrollframe.Logger()
	target := filepath.Clean(st.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if err := st.reload(); err != nil {
				log.Warn("scrubserve: scene reload failed, keeping previous scene", "err", err)
				continue
			}
			log.Info("scrubserve: scene reloaded", "path", st.path, "frames", st.Scene().Frames.Count)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("scrubserve: watcher error", "err", err)
		}
	}
}
