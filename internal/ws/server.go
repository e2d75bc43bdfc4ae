// Package ws serves the live preview of a tube's strip, its diagnostics
// stream and a health endpoint over HTTP and websockets.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-tubes/internal/color"
	diag "github.com/coreman2200/funtimes-tubes/internal/diagnostics"
	"github.com/coreman2200/funtimes-tubes/internal/led"
)

const (
	DefaultThrottle = 50 * time.Millisecond
	writeTimeout    = 200 * time.Millisecond
)

// Server is a led.Sink that streams frames to preview clients. It also
// implements diagnostics.Publisher.
type Server struct {
	mu          sync.Mutex
	leds        int
	frameID     uint64
	startTime   time.Time
	throttle    time.Duration
	lastEmit    time.Time
	rgb         []byte
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	status      func() any
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

func NewServer(leds int, log zerolog.Logger) *Server {
	return &Server{
		leds:        leds,
		startTime:   time.Now(),
		throttle:    DefaultThrottle,
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:         log.With().Str("component", "ws").Logger(),
	}
}

// SetThrottle sets the minimum interval between preview frames.
func (s *Server) SetThrottle(d time.Duration) {
	s.mu.Lock()
	s.throttle = d
	s.mu.Unlock()
}

// SetStatus installs the snapshot served on /health.
func (s *Server) SetStatus(f func() any) {
	s.mu.Lock()
	s.status = f
	s.mu.Unlock()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
}

var _ led.Sink = (*Server)(nil)

func (s *Server) Show(px []color.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID++
	if len(s.clients) == 0 {
		return nil
	}
	now := time.Now()
	if s.lastEmit.Add(s.throttle).After(now) {
		return nil
	}
	s.lastEmit = now

	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	s.rgb = led.Pack(s.rgb[:0], px)
	b, err := json.Marshal(frame{T: now.UnixNano(), FrameID: s.frameID, RGB: s.rgb})
	if err != nil {
		return err
	}
	s.broadcast(s.clients, b)
	return nil
}

// Close disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
	for c := range s.diagClients {
		c.Close()
		delete(s.diagClients, c)
	}
	return nil
}

func (s *Server) Publish(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast(s.diagClients, b)
}

// broadcast writes b to every conn in set. s.mu must be held.
func (s *Server) broadcast(set map[*websocket.Conn]bool, b []byte) {
	for c := range set {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("write")
		}
	}
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	top, _ := json.Marshal(map[string]any{"leds": s.leds})
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, top)
	s.mu.Unlock()
	go s.drain(conn, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.diagClients)
}

// drain reads until the client goes away, then forgets it.
func (s *Server) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"leds":     s.leds,
	}
	status := s.status
	s.mu.Unlock()
	if status != nil {
		resp["tube"] = status()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients is the number of connected preview and diagnostics clients.
func (s *Server) Clients() (frames, diags int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients), len(s.diagClients)
}
