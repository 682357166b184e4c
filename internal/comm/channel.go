package comm

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultWriteTimeout bounds every write to a connection so a stuck peer
// surfaces as a write error and the channel is removed.
const DefaultWriteTimeout = 5 * time.Second

// maxLineSize is the longest command line a transport accepts.
const maxLineSize = 1024 * 1024

// ConnChannel is an event channel over a stream connection.
type ConnChannel struct {
	id      string
	conn    net.Conn
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewConnChannel wraps conn with a random id.
func NewConnChannel(conn net.Conn, timeout time.Duration) *ConnChannel {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &ConnChannel{id: uuid.NewString(), conn: conn, timeout: timeout}
}

// ID implements events.Channel.
func (c *ConnChannel) ID() string {
	return c.id
}

// Write implements io.Writer with a write deadline.
func (c *ConnChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.conn.Write(p)
}

// Close closes the connection once.
func (c *ConnChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// readLines calls fn for every line read from r until r fails or fn returns false.
// Trailing carriage returns are removed.
func readLines(r io.Reader, fn func(line string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if !fn(strings.TrimSuffix(scanner.Text(), "\r")) {
			return nil
		}
	}
	return scanner.Err()
}

// reply formats command output for a line-oriented peer: empty output sends
// nothing and a missing final newline is added.
func reply(out string) string {
	if out == "" || strings.HasSuffix(out, "\n") {
		return out
	}
	return out + "\n"
}
