// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wsview

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gogpu/scrollframe"
	"github.com/gogpu/scrollframe/compositor"
	"github.com/gogpu/scrollframe/internal/logging"
	"github.com/gogpu/scrollframe/viewport"
)

// DefaultJPEGQuality is the quality of streamed frames.
const DefaultJPEGQuality = 80

// Option configures a Handler.
type Option func(*Handler)

// WithJPEGQuality sets the quality of streamed frames, 1 to 100.
func WithJPEGQuality(q int) Option {
	return func(h *Handler) {
		if q >= 1 && q <= 100 {
			h.quality = q
		}
	}
}

// WithRefreshInterval sets the refresh period of session hosts.
func WithRefreshInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.refresh = d
		}
	}
}

// WithCheckOrigin sets the websocket origin check. The default accepts
// every origin.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		if fn != nil {
			h.upgrader.CheckOrigin = fn
		}
	}
}

// Handler serves websocket viewer sessions.
type Handler struct {
	options func() []scrollframe.Option
	quality int
	refresh time.Duration

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
}

// NewHandler returns a Handler that mounts every session with the options
// returned by options at connect time, so a reloaded scene applies to the
// next connection.
func NewHandler(options func() []scrollframe.Option, opts ...Option) *Handler {
	h := &Handler{
		options:  options,
		quality:  DefaultJPEGQuality,
		refresh:  viewport.DefaultRefreshInterval,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Sessions returns the number of live sessions.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close disconnects every session and waits for them to finish.
// Later connections are refused.
func (h *Handler) Close() {
	h.mu.Lock()
	h.closed = true
	for _, s := range h.sessions {
		_ = s.conn.Close()
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// ServeHTTP upgrades the request and runs a session until the page
// disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("wsview: upgrade failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	s := &session{
		id:      uuid.NewString(),
		conn:    conn,
		quality: h.quality,
		frames:  make(chan []byte, 1),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.sessions[s.id] = s
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.sessions, s.id)
		h.mu.Unlock()
	}()

	var opts []scrollframe.Option
	if h.options != nil {
		opts = h.options()
	}
	if err := s.mount(opts); err != nil {
		logging.Logger().Warn("wsview: mount failed", "session", s.id, "err", err)
		_ = conn.WriteJSON(ErrorMessage{Type: TypeError, Message: err.Error()})
		return
	}

	s.run(h.refresh)
}

// session is one connected page.
type session struct {
	id      string
	conn    *websocket.Conn
	quality int

	host     *viewport.Host
	backdrop *scrollframe.Backdrop

	// frames holds at most the latest encoded paint.
	frames  chan []byte
	dropped atomic.Int64
}

// mount creates the host and backdrop. The host starts at 0x0 until the
// page reports its size.
func (s *session) mount(opts []scrollframe.Option) error {
	s.host = viewport.NewHost(0, 0)
	opts = append(opts, scrollframe.WithPresenter(compositor.PresenterFunc(s.present)))
	b, err := scrollframe.Mount(s.host, opts...)
	if err != nil {
		return err
	}
	s.backdrop = b
	return nil
}

// present runs on the session loop: it encodes the surface and replaces
// any frame the writer has not sent yet.
func (s *session) present(surface *compositor.Surface) error {
	var buf bytes.Buffer
	if err := surface.EncodeJPEG(&buf, s.quality); err != nil {
		return err
	}
	frame := buf.Bytes()

	select {
	case s.frames <- frame:
		return nil
	default:
	}
	select {
	case <-s.frames:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.frames <- frame:
	default:
		s.dropped.Add(1)
	}
	return nil
}

// run sends the hello, then serves the session until the connection fails.
func (s *session) run(refresh time.Duration) {
	log := logging.Logger()
	ctx, cancel := context.WithCancel(context.Background())

	hello := Hello{Type: TypeHello, Session: s.id, Frames: s.backdrop.Frames().Len()}
	if err := s.conn.WriteJSON(hello); err != nil {
		cancel()
		s.backdrop.Close()
		return
	}
	log.Info("wsview: session started", "session", s.id)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = s.host.Run(ctx, refresh)
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeFrames(ctx)
	}()

	s.readMessages()

	cancel()
	<-loopDone
	// The loop has stopped, so this goroutine owns the host again.
	s.backdrop.Close()
	_ = s.conn.Close()
	<-writerDone

	log.Info("wsview: session ended", "session", s.id, "dropped", s.dropped.Load())
}

// writeFrames is the only writer of the connection once the hello is sent.
func (s *session) writeFrames(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-s.frames:
			if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				logging.Logger().Debug("wsview: write failed", "session", s.id, "err", err)
				return
			}
		}
	}
}

// readMessages applies page messages to the host until the connection
// fails.
func (s *session) readMessages() {
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Logger().Debug("wsview: read failed", "session", s.id, "err", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Logger().Debug("wsview: invalid message", "session", s.id, "err", err)
			continue
		}

		switch msg.Type {
		case TypeResize:
			w, h, scale, height := msg.Width, msg.Height, msg.Scale, msg.ScrollHeight
			s.host.Post(func() {
				s.host.SetScrollHeight(height)
				s.host.Resize(w, h, scale)
			})
		case TypeScroll:
			y := msg.Y
			s.host.Post(func() {
				s.host.ScrollTo(y)
			})
		default:
			logging.Logger().Debug("wsview: unknown message", "session", s.id, "type", msg.Type)
		}
	}
}
