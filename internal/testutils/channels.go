package testutils

import (
	"bytes"
	"strings"
	"sync"
)

// RecordingChannel is an event channel that keeps everything written to it.
type RecordingChannel struct {
	id  string
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecordingChannel creates a channel with the given id.
func NewRecordingChannel(id string) *RecordingChannel {
	return &RecordingChannel{id: id}
}

// ID implements events.Channel.
func (c *RecordingChannel) ID() string { return c.id }

// Write implements io.Writer.
func (c *RecordingChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Lines returns the complete lines received so far, without newlines.
func (c *RecordingChannel) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := strings.TrimSuffix(c.buf.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Take returns the received lines and clears the buffer.
func (c *RecordingChannel) Take() []string {
	lines := c.Lines()
	c.mu.Lock()
	c.buf.Reset()
	c.mu.Unlock()
	return lines
}
