// Package comm connects webshell to the outside world. Every transport (the
// command socket, the FIFO, WebSocket clients, event-manager connections and
// the console) reads lines on its own goroutine and posts them to the single
// control Loop, which owns the dispatcher, the variables and the channel set.
package comm

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"webshell/internal/logger"
)

// DefaultQueueSize is the number of tasks that may wait for the loop.
const DefaultQueueSize = 64

// Loop runs submitted tasks one at a time on the goroutine that called Run.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
	once    sync.Once
	logger  *log.Logger
}

// NewLoop creates a loop whose queue holds up to queueSize pending tasks.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		tasks:   make(chan func(), queueSize),
		stopped: make(chan struct{}),
		logger:  logger.NewStyledLogger("Loop"),
	}
}

// Run executes tasks until ctx is cancelled. Tasks still queued at that point
// are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.stopped) })

	l.logger.Debug("Control loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("Control loop stopped")
			return ctx.Err()
		case task := <-l.tasks:
			task()
		}
	}
}

// Submit queues task. It blocks while the queue is full and reports false once
// the loop has stopped.
func (l *Loop) Submit(task func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}

	select {
	case l.tasks <- task:
		return true
	case <-l.stopped:
		return false
	}
}

// TrySubmit queues task without blocking. It reports false when the queue is
// full or the loop has stopped.
func (l *Loop) TrySubmit(task func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}

	select {
	case l.tasks <- task:
		return true
	default:
		return false
	}
}

// Do runs task on the loop and waits for it to finish. It reports false if the
// loop stopped before task ran.
func (l *Loop) Do(task func()) bool {
	done := make(chan struct{})
	if !l.Submit(func() {
		defer close(done)
		task()
	}) {
		return false
	}

	select {
	case <-done:
		return true
	case <-l.stopped:
		// The task may have been dequeued just before the loop stopped.
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}
