// Package scrollframe turns scrolling into playback of an image sequence.
//
// # Overview
//
// A Backdrop fills the viewport with one frame of a still-image sequence
// and advances through the sequence as the viewport scrolls, so the page
// appears to scrub a video. The scroll offset is mapped linearly onto the
// frame range; redraws are coalesced so that however many scroll events
// arrive between two display refreshes, at most one frame is painted.
//
// # Quick Start
//
//	host := viewport.NewHost(1280, 720, viewport.WithScrollHeight(3000))
//
//	b, err := scrollframe.Mount(host,
//		scrollframe.WithFrameCount(240),
//		scrollframe.WithLoader(frames.FileLoader{Root: "public"}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	go host.Run(ctx, viewport.DefaultRefreshInterval)
//
// # Architecture
//
// The module is organized into:
//   - frames: the frame store, its slots and loaders
//   - compositor: the device-pixel surface and cover placement
//   - viewport: the environment contract and a host event loop
//   - scrollframe (this package): scroll-to-frame mapping, redraw
//     scheduling and lifecycle
//
// Integrations live under integration/: gpuview renders into a gogpu
// window, wsview streams frames to a browser over a websocket.
//
// # Event Loop
//
// Everything a Backdrop does runs on the viewport's event loop: scroll and
// resize listeners, refresh callbacks and the completion of the first frame
// load, which loader goroutines hand back through Viewport.Post. Backdrop
// methods must therefore be called from the loop too.
//
// # Frame Numbering
//
// Slots and the playback cursor are 0-based. Frame locators are 1-based:
// slot i is loaded from the locator of frame number i+1.
package scrollframe

// Version is the current version of the module.
const Version = "0.1.0"
