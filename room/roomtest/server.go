// Package roomtest runs an in-process room server for tests.
//
// The server accepts joins on /api/room/join/{namespace}/{room}, records every
// frame a client sends and lets the test push frames back or drop the
// connection. It knows nothing about room semantics.
package roomtest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
)

// Namespace is the join namespace the server's Endpoint uses.
const Namespace = "dssn"

var ErrTimeout = errors.New("roomtest: timed out")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server is a fake room server.
type Server struct {
	httpServer *httptest.Server

	// OnJoin runs after a peer is upgraded and before its frames are read.
	OnJoin func(p *Peer)

	mu    sync.Mutex
	rooms map[string]bool
	peers []*Peer

	joined chan *Peer
}

// Option configures a Server.
type Option func(*Server)

// WithRooms restricts joins to the listed rooms. Other rooms are refused
// with 403 and a JSON error body.
func WithRooms(rooms ...string) Option {
	return func(s *Server) {
		s.rooms = make(map[string]bool, len(rooms))
		for _, room := range rooms {
			s.rooms[room] = true
		}
	}
}

// WithOnJoin sets the join hook.
func WithOnJoin(fn func(p *Peer)) Option {
	return func(s *Server) {
		s.OnJoin = fn
	}
}

// NewServer starts a server. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{joined: make(chan *Peer, 16)}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get(protocol.JoinPathPrefix+"{namespace}/{room}", s.handleJoin)
	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the server's base http URL.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Endpoint returns the room endpoint of this server.
func (s *Server) Endpoint() protocol.Endpoint {
	u, _ := url.Parse(s.httpServer.URL)
	port, _ := strconv.Atoi(u.Port())
	return protocol.Endpoint{Scheme: "ws", Host: u.Hostname(), Port: port, Namespace: Namespace}
}

// JoinURL returns the websocket URL for room.
func (s *Server) JoinURL(room string) string {
	joinURL, _ := protocol.JoinURL(s.Endpoint(), room)
	return joinURL
}

// WaitPeer returns the next peer to join.
func (s *Server) WaitPeer(timeout time.Duration) (*Peer, error) {
	select {
	case p := <-s.joined:
		return p, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

// Peers returns every peer that joined so far.
func (s *Server) Peers() []*Peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Peer(nil), s.peers...)
}

// Close drops all peers and stops the server.
func (s *Server) Close() {
	for _, p := range s.Peers() {
		_ = p.conn.Close()
	}
	s.httpServer.Close()
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	namespace, _ := url.PathUnescape(chi.URLParam(r, "namespace"))
	room, _ := url.PathUnescape(chi.URLParam(r, "room"))

	if s.rooms != nil && !s.rooms[room] {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "room doesn't exist / deleted",
		})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	p := &Peer{
		ID:        uuid.New().String(),
		Namespace: namespace,
		Room:      room,
		conn:      conn,
		frames:    make(chan []byte, 256),
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.peers = append(s.peers, p)
	s.mu.Unlock()

	if s.OnJoin != nil {
		s.OnJoin(p)
	}
	s.joined <- p

	go p.readLoop()
}

// Peer is one client connection seen by the server.
type Peer struct {
	ID        string
	Namespace string
	Room      string

	conn    *websocket.Conn
	writeMu sync.Mutex

	frames chan []byte
	done   chan struct{}
}

func (p *Peer) readLoop() {
	defer close(p.done)
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		p.frames <- data
	}
}

// Push sends a text frame to the client.
func (p *Peer) Push(frame string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, []byte(frame))
}

// CloseWith sends a close frame with code and drops the connection.
func (p *Peer) CloseWith(code int, text string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	msg := websocket.FormatCloseMessage(code, text)
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return p.conn.Close()
}

// Drop closes the TCP connection without a close frame.
func (p *Peer) Drop() error {
	return p.conn.Close()
}

// Next returns the next frame the client sent.
func (p *Peer) Next(timeout time.Duration) (string, error) {
	select {
	case data := <-p.frames:
		return string(data), nil
	case <-time.After(timeout):
		return "", ErrTimeout
	}
}

// Collect reads n frames.
func (p *Peer) Collect(n int, timeout time.Duration) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		frame, err := p.Next(timeout)
		if err != nil {
			return out, err
		}
		out = append(out, frame)
	}
	return out, nil
}

// Done is closed once the client's side of the connection is gone.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}
