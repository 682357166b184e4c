package comm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/google/uuid"

	"webshell/internal/logger"
)

// EventsPath is the HTTP path of the WebSocket endpoint.
const EventsPath = "/events"

// WSChannel is an event channel over a WebSocket connection. Every event line
// is sent as one text message.
type WSChannel struct {
	id      string
	conn    *websocket.Conn
	ctx     context.Context
	timeout time.Duration
	mu      sync.Mutex
}

func newWSChannel(ctx context.Context, conn *websocket.Conn, timeout time.Duration) *WSChannel {
	return &WSChannel{id: uuid.NewString(), conn: conn, ctx: ctx, timeout: timeout}
}

// ID implements events.Channel.
func (c *WSChannel) ID() string {
	return c.id
}

// Write sends p as a text message.
func (c *WSChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the connection with a normal closure status.
func (c *WSChannel) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// WebSocketServer serves EventsPath. Each client is an event channel and a
// command source: every line of every text message it sends is dispatched and
// non-empty output is sent back as a message.
type WebSocketServer struct {
	host    *Host
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	server *http.Server
	ln     net.Listener

	logger *log.Logger
}

// NewWebSocketServer creates a server for addr, e.g. "127.0.0.1:8765".
func NewWebSocketServer(host *Host, addr string) *WebSocketServer {
	return &WebSocketServer{
		host:    host,
		addr:    addr,
		timeout: DefaultWriteTimeout,
		logger:  logger.NewStyledLogger("WebSocket"),
	}
}

// Handler returns the HTTP handler for the events endpoint.
func (s *WebSocketServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(EventsPath, s.serveEvents)
	return mux
}

// Listen binds the address.
func (s *WebSocketServer) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.server = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.mu.Unlock()

	s.logger.Info("Listening", "address", ln.Addr().String(), "path", EventsPath)
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *WebSocketServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Serve handles connections until ctx is cancelled.
func (s *WebSocketServer) Serve(ctx context.Context) error {
	s.mu.Lock()
	server, ln := s.server, s.ln
	s.mu.Unlock()
	if server == nil {
		return fmt.Errorf("websocket server is not listening")
	}

	server.BaseContext = func(net.Listener) context.Context { return ctx }
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket server failed: %w", err)
	}
	return nil
}

// Close shuts the HTTP server down.
func (s *WebSocketServer) Close() error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Close()
}

func (s *WebSocketServer) serveEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket handshake failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ch := newWSChannel(ctx, conn, s.timeout)
	s.host.Attach(ch)
	defer s.host.Detach(ch)
	s.logger.Debug("Client connected", "channel", ch.ID(), "remote", r.RemoteAddr)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				s.logger.Debug("Client read failed", "channel", ch.ID(), "error", err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			out, err := s.host.Execute(strings.TrimSuffix(line, "\r"))
			if errors.Is(err, ErrStopped) {
				_ = conn.Close(websocket.StatusGoingAway, "shutting down")
				return
			}
			if out == "" {
				continue
			}
			if _, err := ch.Write([]byte(out)); err != nil {
				return
			}
		}
	}
}
