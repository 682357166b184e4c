package events

import (
	"io"
	"sync"

	"github.com/google/uuid"
)

// WriterChannel adapts any io.Writer (stdout, a file, a pipe) into a Channel.
type WriterChannel struct {
	id string
	mu sync.Mutex
	w  io.Writer
}

// NewWriterChannel wraps w. An empty id is replaced with a random UUID.
func NewWriterChannel(id string, w io.Writer) *WriterChannel {
	if id == "" {
		id = uuid.NewString()
	}
	return &WriterChannel{id: id, w: w}
}

// ID implements Channel.
func (c *WriterChannel) ID() string {
	return c.id
}

// Write implements io.Writer.
func (c *WriterChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

// Close closes the underlying writer when it is an io.Closer.
func (c *WriterChannel) Close() error {
	if closer, ok := c.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
