// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wsview lets a browser page act as the viewport of a backdrop.
//
// Each websocket connection gets its own session: a viewport.Host running
// on a goroutine of its own, a Backdrop mounted on it and a writer pushing
// composited frames back to the page.
//
// # Protocol
//
// On connect the server sends a JSON hello:
//
//	{"type":"hello","session":"<uuid>","frames":240}
//
// The page reports its geometry and scroll position as JSON text messages:
//
//	{"type":"resize","width":1280,"height":720,"scale":2,"scrollHeight":6000}
//	{"type":"scroll","y":1150}
//
// After every paint the server sends the surface as a binary JPEG message.
// Frames the page is too slow to receive are dropped; only the latest paint
// is kept waiting.
package wsview
