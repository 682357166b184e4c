package comm

import (
	"context"
	"errors"

	webcontext "webshell/internal/context"
	"webshell/internal/events"
	"webshell/internal/execution"
	"webshell/internal/logger"
	"webshell/internal/variables"
	"webshell/pkg/webtypes"
)

// ErrStopped is returned when the control loop is no longer running.
var ErrStopped = errors.New("control loop stopped")

// Host gives transports loop-safe access to the dispatcher and the channel set.
// Every method may be called from any goroutine.
type Host struct {
	loop *Loop
	sm   *execution.StateMachine
	ctx  *webcontext.Context
}

// NewHost binds the dispatcher and its context to loop.
func NewHost(loop *Loop, sm *execution.StateMachine, ctx *webcontext.Context) *Host {
	return &Host{loop: loop, sm: sm, ctx: ctx}
}

// Loop returns the control loop.
func (h *Host) Loop() *Loop {
	return h.loop
}

// Run runs the control loop with ctx installed as the context's standard
// context, so blocking commands are cancelled on shutdown.
func (h *Host) Run(ctx context.Context) error {
	h.ctx.SetStd(ctx)
	return h.loop.Run(ctx)
}

// Execute dispatches line and waits for its output.
func (h *Host) Execute(line string) (string, error) {
	var (
		out string
		err error
	)
	if !h.loop.Do(func() {
		result := webtypes.NewResult()
		err = h.sm.Dispatch(line, result)
		out = result.String()
	}) {
		return "", ErrStopped
	}
	return out, err
}

// Post dispatches line without waiting. Its output is discarded.
func (h *Host) Post(line string) bool {
	return h.loop.Submit(func() {
		_ = h.sm.Dispatch(line, nil)
	})
}

// Attach adds ch to the event channel set.
func (h *Host) Attach(ch events.Channel) bool {
	attached := false
	h.loop.Do(func() { attached = h.ctx.Events().Attach(ch) })
	return attached
}

// Detach removes ch from the event channel set. It is a no-op once the loop has stopped.
func (h *Host) Detach(ch events.Channel) {
	h.loop.Submit(func() { h.ctx.Events().Detach(ch) })
}

// Emit broadcasts an event from the loop.
func (h *Host) Emit(name string, fields ...string) {
	h.loop.Submit(func() { h.ctx.Emit(name, fields...) })
}

// Notify is Emit for callers that must never wait on the loop, such as engine
// callbacks running while the loop is itself blocked on the engine. When the
// queue is full the event is handed to a goroutine instead of being dropped.
func (h *Host) Notify(name string, fields ...string) {
	task := func() { h.ctx.Emit(name, fields...) }
	if h.loop.TrySubmit(task) {
		return
	}
	go h.loop.Submit(task)
}

// Do runs fn with the context on the loop and waits for it.
func (h *Host) Do(fn func(ctx *webcontext.Context)) bool {
	return h.loop.Do(func() { fn(h.ctx) })
}

// Announce defines the constant variable name = value and emits event with value.
// Transports use it to publish the endpoint they listen on.
func (h *Host) Announce(event, name, value string) {
	h.Do(func(ctx *webcontext.Context) {
		if err := ctx.DefineConstant(name, variables.StringValue(value)); err != nil {
			logger.Warn("Cannot publish endpoint variable", "variable", name, "error", err)
		}
		ctx.Emit(event, value)
	})
}
