// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wsview

// Message types.
const (
	TypeHello  = "hello"
	TypeResize = "resize"
	TypeScroll = "scroll"
	TypeError  = "error"
)

// ClientMessage is a control message sent by the page.
type ClientMessage struct {
	Type string `json:"type"`

	// Resize fields. Width and Height are logical pixels.
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	ScrollHeight float64 `json:"scrollHeight,omitempty"`

	// Scroll fields.
	Y float64 `json:"y,omitempty"`
}

// Hello is the first message of every session.
type Hello struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Frames  int    `json:"frames"`
}

// ErrorMessage reports a session that could not start.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
