// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpuview shows a scrollframe backdrop in a gogpu window.
//
// The window plays the viewport: its size and scale factor size the
// surface, wheel and keyboard input move a virtual document of fixed
// height, and every paint is uploaded to a GPU texture drawn at the origin.
// The data flow is:
//
//	EventSource -> viewport.Host -> Backdrop -> Surface (CPU) -> GPU Texture -> Window
//
// # Usage
//
//	view, err := gpuview.New(app, app.EventSource(), 6000,
//	    gpuview.WithBackdropOptions(scrollframe.WithLoader(frames.FileLoader{Root: "public"})),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer view.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    _ = view.Draw(dc.AsTextureDrawer())
//	})
//
// # Thread Safety
//
// Event callbacks and Draw must run on the window's main thread, which is
// the viewport's event loop. Frame loads finishing on other goroutines ask
// the window for a redraw and are applied by the next Draw.
//
// # Integration Without Circular Imports
//
// This package uses gpucontext interfaces only and never imports gogpu:
//
//   - gpucontext.WindowProvider for geometry and redraw requests
//   - gpucontext.EventSource for input
//   - gpucontext.TextureDrawer and TextureCreator for output
package gpuview
