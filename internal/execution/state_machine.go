package execution

import (
	"fmt"

	"github.com/charmbracelet/log"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/logger"
	"webshell/internal/parser"
	"webshell/pkg/webtypes"
)

// StateMachine implements command dispatch for webshell.
// It is owned by the control loop; commands such as chain re-enter it through
// the Context, so each line keeps its state in a run of its own.
type StateMachine struct {
	context  *webcontext.Context
	registry *commands.Registry
	config   Config
	depth    int
	logger   *log.Logger
}

// run is the execution state of one line.
type run struct {
	state   State
	input   string
	parsed  *parser.Command
	command commands.Command
	err     error
}

// NewStateMachine creates a state machine and installs it as the context's dispatcher.
func NewStateMachine(ctx *webcontext.Context, registry *commands.Registry, config Config) *StateMachine {
	sm := &StateMachine{
		context:  ctx,
		registry: registry,
		config:   config,
		logger:   logger.NewStyledLogger("Dispatch"),
	}
	ctx.SetDispatcher(sm)
	return sm
}

// NewStateMachineWithDefaults creates a state machine over the global command registry.
func NewStateMachineWithDefaults(ctx *webcontext.Context) *StateMachine {
	return NewStateMachine(ctx, commands.GlobalRegistry, DefaultConfig())
}

// Dispatch is the top-level entry point: it clears result and runs line.
// The returned error has already been logged; callers may show it to a user.
func (sm *StateMachine) Dispatch(line string, result *webtypes.Result) error {
	result.Reset()
	return sm.Run(line, result)
}

// Execute runs line, appending to result. It implements webcontext.Dispatcher.
func (sm *StateMachine) Execute(line string, result *webtypes.Result) {
	_ = sm.Run(line, result)
}

// Run drives line through the state machine until it completes or fails.
// Unknown commands and handler failures are logged at warn level and returned.
func (sm *StateMachine) Run(line string, result *webtypes.Result) error {
	if sm.config.RecursionLimit > 0 && sm.depth >= sm.config.RecursionLimit {
		err := fmt.Errorf("recursion limit %d reached", sm.config.RecursionLimit)
		sm.logger.Warn("Command not executed", "command", line, "error", err)
		return err
	}
	sm.depth++
	defer func() { sm.depth-- }()

	r := &run{state: StateReceived, input: line}
	for r.state != StateCompleted && r.state != StateError && r.state != StateSkipped {
		sm.step(r, result)
	}

	if r.state == StateError {
		sm.logger.Warn("Command failed", "command", line, "error", r.err)
		return r.err
	}
	return nil
}

// step processes the current state and moves r to the next one.
func (sm *StateMachine) step(r *run, result *webtypes.Result) {
	switch r.state {
	case StateReceived:
		r.state = StateParsing

	case StateParsing:
		parsed, ok := parser.ParseCommand(r.input)
		if !ok {
			r.state = StateSkipped
			return
		}
		r.parsed = parsed
		r.state = StateResolving

	case StateResolving:
		cmd, ok := sm.registry.Get(r.parsed.Name)
		if !ok {
			r.err = fmt.Errorf("unknown command: %s", r.parsed.Name)
			r.state = StateError
			return
		}
		r.command = cmd
		r.state = StateExecuting

	case StateExecuting:
		logger.CommandExecution(r.parsed.Name, r.parsed.Args)
		if err := r.command.Execute(sm.context, r.parsed.Args, result); err != nil {
			r.err = err
			r.state = StateError
			return
		}
		r.state = StateCompleted

	default:
		r.err = fmt.Errorf("unknown state: %s", r.state)
		r.state = StateError
	}

	sm.logger.Debug("State transition", "new_state", r.state.String())
}
