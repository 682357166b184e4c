package comm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"webshell/internal/events"
	"webshell/internal/logger"
)

// SocketVariable is the constant holding the command socket path.
const SocketVariable = "SOCKET"

// SocketPath returns the conventional socket path for an instance.
func SocketPath(dir, instance string) string {
	return filepath.Join(dir, "webshell_socket_"+instance)
}

// SocketServer accepts command connections on a unix socket. Each client is
// attached as an event channel and receives the output of its own commands.
type SocketServer struct {
	host    *Host
	path    string
	timeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	clients  map[*ConnChannel]struct{}
	wg       sync.WaitGroup

	logger *log.Logger
}

// NewSocketServer creates a server that will listen on path.
func NewSocketServer(host *Host, path string) *SocketServer {
	return &SocketServer{
		host:    host,
		path:    path,
		timeout: DefaultWriteTimeout,
		clients: make(map[*ConnChannel]struct{}),
		logger:  logger.NewStyledLogger("Socket"),
	}
}

// Path returns the socket path.
func (s *SocketServer) Path() string {
	return s.path
}

// Listen creates the socket, replacing a stale one, and publishes its path
// through the SOCKET variable and a SOCKET_SET event.
func (s *SocketServer) Listen() error {
	if info, err := os.Lstat(s.path); err == nil {
		if info.Mode()&os.ModeSocket == 0 {
			return fmt.Errorf("failed to listen on %s: file exists and is not a socket", s.path)
		}
		if err := os.Remove(s.path); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("Listening", "socket", s.path)
	s.host.Announce(events.SocketSet, SocketVariable, s.path)
	return nil
}

// Serve accepts connections until ctx is cancelled or Close is called.
func (s *SocketServer) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return fmt.Errorf("socket server is not listening")
	}

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		ch := NewConnChannel(conn, s.timeout)
		if !s.track(ch) {
			// Close ran between Accept and here and will not see this client.
			_ = ch.Close()
			return nil
		}
		go s.handle(ch, conn)
	}
}

// track registers ch with the running server. It reports false once Close has
// started, so Close never waits on a client it did not disconnect.
func (s *SocketServer) track(ch *ConnChannel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return false
	}
	s.clients[ch] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *SocketServer) handle(ch *ConnChannel, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.host.Detach(ch)
		_ = ch.Close()
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	s.host.Attach(ch)
	s.logger.Debug("Client connected", "channel", ch.ID())

	err := readLines(conn, func(line string) bool {
		out, err := s.host.Execute(line)
		if errors.Is(err, ErrStopped) {
			return false
		}
		if text := reply(out); text != "" {
			if _, err := ch.Write([]byte(text)); err != nil {
				s.logger.Debug("Failed to reply", "channel", ch.ID(), "error", err)
				return false
			}
		}
		return true
	})
	if err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug("Client read failed", "channel", ch.ID(), "error", err)
	}
	s.logger.Debug("Client disconnected", "channel", ch.ID())
}

// Close stops accepting, disconnects every client and removes the socket file.
func (s *SocketServer) Close() error {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	clients := make([]*ConnChannel, 0, len(s.clients))
	for ch := range s.clients {
		clients = append(clients, ch)
	}
	s.mu.Unlock()

	if listener == nil {
		return nil
	}

	err := listener.Close()
	for _, ch := range clients {
		_ = ch.Close()
	}
	s.wg.Wait()

	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = errors.Join(err, rmErr)
	}
	return err
}
