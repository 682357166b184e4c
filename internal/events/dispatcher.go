// Package events broadcasts structured event lines to every attached communication channel.
//
// An event line has the form
//
//	EVENT [<instance-name>] <EVENT_NAME> <field> <field> ...\n
//
// and is written to each channel in attach order. A channel whose write fails is detached
// once the broadcast finishes, so one dead peer never blocks delivery to the others.
package events

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"webshell/internal/logger"
)

// Well-known lifecycle events.
const (
	InstanceStart = "INSTANCE_START"
	InstanceExit  = "INSTANCE_EXIT"
	SocketSet     = "SOCKET_SET"
	FIFOSet       = "FIFO_SET"
)

// Channel is an attached endpoint. ID identifies the channel for attach/detach.
type Channel interface {
	io.Writer
	ID() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReplayBuffer keeps up to limit events emitted while no channel is attached and
// replays them to the first channel that attaches.
func WithReplayBuffer(limit int) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.buffering = true
			d.bufferLimit = limit
		}
	}
}

// Dispatcher formats events and fans them out to the channel set.
// It is owned by the control loop and is not safe for concurrent use.
type Dispatcher struct {
	instance    string
	channels    []Channel
	buffering   bool
	bufferLimit int
	buffer      []string
	logger      *log.Logger
}

// New creates a dispatcher that tags every event with instance.
func New(instance string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		instance: instance,
		logger:   logger.NewStyledLogger("Events"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InstanceName returns the name written into every event line.
func (d *Dispatcher) InstanceName() string {
	return d.instance
}

// SetInstanceName changes the name written into subsequent event lines.
func (d *Dispatcher) SetInstanceName(name string) {
	d.instance = name
}

// Format builds a single event line including the trailing newline.
func Format(instance, name string, fields ...string) string {
	var b strings.Builder
	b.WriteString("EVENT [")
	b.WriteString(instance)
	b.WriteString("] ")
	b.WriteString(name)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	b.WriteByte('\n')
	return b.String()
}

// Emit formats an event and writes it to every attached channel.
func (d *Dispatcher) Emit(name string, fields ...string) {
	line := Format(d.instance, name, fields...)
	d.logger.Debug("Emitting", "event", strings.TrimSuffix(line, "\n"))

	if len(d.channels) == 0 {
		if d.buffering {
			d.buffer = append(d.buffer, line)
			if len(d.buffer) > d.bufferLimit {
				d.buffer = d.buffer[len(d.buffer)-d.bufferLimit:]
			}
		}
		return
	}

	d.broadcast(line)
}

func (d *Dispatcher) broadcast(line string) {
	var failed []Channel
	for _, ch := range d.channels {
		if _, err := io.WriteString(ch, line); err != nil {
			d.logger.Warn("Channel write failed", "channel", ch.ID(), "error", err)
			failed = append(failed, ch)
		}
	}

	for _, ch := range failed {
		d.drop(ch)
	}
}

// Attach adds ch to the channel set and reports whether it was newly added.
// The first attached channel receives any buffered events.
func (d *Dispatcher) Attach(ch Channel) bool {
	if d.index(ch.ID()) >= 0 {
		return false
	}
	d.channels = append(d.channels, ch)
	d.logger.Debug("Channel attached", "channel", ch.ID(), "count", len(d.channels))

	if d.buffering {
		pending := d.buffer
		d.buffer = nil
		d.buffering = false
		for _, line := range pending {
			d.broadcast(line)
		}
	}
	return true
}

// Detach removes ch from the channel set. Detaching an absent channel is a no-op.
func (d *Dispatcher) Detach(ch Channel) bool {
	i := d.index(ch.ID())
	if i < 0 {
		return false
	}
	d.channels = append(d.channels[:i], d.channels[i+1:]...)
	d.logger.Debug("Channel detached", "channel", ch.ID(), "count", len(d.channels))
	return true
}

// drop detaches a failed channel and closes it when possible.
func (d *Dispatcher) drop(ch Channel) {
	if !d.Detach(ch) {
		return
	}
	if c, ok := ch.(io.Closer); ok {
		if err := c.Close(); err != nil {
			d.logger.Debug("Closing failed channel", "channel", ch.ID(), "error", err)
		}
	}
}

// Len reports the number of attached channels.
func (d *Dispatcher) Len() int {
	return len(d.channels)
}

// Buffered reports the number of events waiting for a first channel.
func (d *Dispatcher) Buffered() int {
	return len(d.buffer)
}

func (d *Dispatcher) index(id string) int {
	for i, ch := range d.channels {
		if ch.ID() == id {
			return i
		}
	}
	return -1
}
