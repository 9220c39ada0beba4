// Package wstest provides a scripted WebSocket server for tests.
package wstest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Server waits for the client's first message, replies with the scripted
// frames and then keeps reading until the client goes away.
type Server struct {
	*httptest.Server

	frames     []string
	closeAfter bool

	mu       sync.Mutex
	received []string
	gotFirst chan struct{}
	once     sync.Once
}

type Option func(*Server)

// CloseAfterFrames makes the server send a normal close once the frames
// are written.
func CloseAfterFrames() Option {
	return func(s *Server) { s.closeAfter = true }
}

// NewServer starts a server replying with frames. It is closed with t.
func NewServer(t *testing.T, frames []string, opts ...Option) *Server {
	t.Helper()

	s := &Server{frames: frames, gotFirst: make(chan struct{})}
	for _, opt := range opts {
		opt(s)
	}

	upgrader := websocket.Upgrader{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		s.serve(conn)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(conn *websocket.Conn) {
	_, first, err := conn.ReadMessage()
	if err != nil {
		return
	}
	s.record(string(first))

	for _, f := range s.frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			return
		}
	}
	if s.closeAfter {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}

	// the default close handler answers the client's close frame
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.record(string(msg))
	}
}

func (s *Server) record(msg string) {
	s.mu.Lock()
	s.received = append(s.received, msg)
	s.mu.Unlock()
	s.once.Do(func() { close(s.gotFirst) })
}

// WSURL returns the ws:// address of the server.
func (s *Server) WSURL() string {
	return "ws" + strings.TrimPrefix(s.Server.URL, "http")
}

// Received returns the messages read from the client so far.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// WaitFirst blocks until the first client message arrives or d elapses.
func (s *Server) WaitFirst(d time.Duration) bool {
	select {
	case <-s.gotFirst:
		return true
	case <-time.After(d):
		return false
	}
}
