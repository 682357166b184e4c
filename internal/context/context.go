// Package context holds the process state shared by every webshell command:
// the variable registry, the event dispatcher, the expander, the capabilities
// and the last-result register. There is one Context per process; it is
// created at startup and handed to each component explicitly.
package context

import (
	stdcontext "context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"webshell/internal/events"
	"webshell/internal/expansion"
	"webshell/internal/logger"
	"webshell/internal/menu"
	"webshell/internal/variables"
	"webshell/pkg/webtypes"
)

// ErrUnavailable is returned by the placeholder capabilities installed when
// no engine or shell was provided.
var ErrUnavailable = errors.New("capability not available")

// Dispatcher runs a command line, appending its output to result.
type Dispatcher interface {
	Execute(line string, result *webtypes.Result)
}

// Settings is the storage bound to the mutable builtin variables.
type Settings struct {
	URI         string
	UserAgent   string
	ForwardKeys int64
	ShowStatus  int64
	ZoomStep    float64
	Verbose     int64
}

// Options configures a new Context.
type Options struct {
	InstanceName string
	Engine       webtypes.Engine
	Shell        webtypes.Shell
	// Adjustments overrides the scroll state per axis. Axes not listed fall back
	// to the engine when it implements webtypes.Scrollable.
	Adjustments map[webtypes.Axis]webtypes.Adjustment
	// ReplayBuffer keeps up to this many events emitted before the first channel attaches.
	ReplayBuffer int
	Settings     Settings
}

// Context is the explicit process state. It is owned by the control loop and
// must only be used from that goroutine.
type Context struct {
	std         stdcontext.Context
	vars        *variables.Registry
	events      *events.Dispatcher
	expander    *expansion.Expander
	engine      webtypes.Engine
	shell       webtypes.Shell
	adjustments map[webtypes.Axis]webtypes.Adjustment
	menu        *menu.Menu
	settings    *Settings
	dispatcher  Dispatcher
	lastResult  string

	exitOnce sync.Once
	exit     chan struct{}

	logger *log.Logger
}

// New creates a Context and defines the builtin variables.
func New(opts Options) (*Context, error) {
	var evOpts []events.Option
	if opts.ReplayBuffer > 0 {
		evOpts = append(evOpts, events.WithReplayBuffer(opts.ReplayBuffer))
	}

	engine := opts.Engine
	if engine == nil {
		engine = nullEngine{}
	}
	shell := opts.Shell
	if shell == nil {
		shell = nullShell{}
	}

	settings := opts.Settings
	c := &Context{
		std:         stdcontext.Background(),
		events:      events.New(opts.InstanceName, evOpts...),
		engine:      engine,
		shell:       shell,
		adjustments: make(map[webtypes.Axis]webtypes.Adjustment),
		menu:        menu.New(),
		settings:    &settings,
		exit:        make(chan struct{}),
		logger:      logger.NewStyledLogger("Context"),
	}
	for axis, adj := range opts.Adjustments {
		c.adjustments[axis] = adj
	}

	c.vars = variables.NewRegistry(c.events)
	c.expander = expansion.New(c.vars, c.shell, c.engine)

	if err := c.defineBuiltins(); err != nil {
		return nil, err
	}
	return c, nil
}

// Std returns the context.Context passed to blocking capability calls.
func (c *Context) Std() stdcontext.Context {
	return c.std
}

// SetStd replaces the context.Context used for capability calls. The control
// loop installs its own so that shutdown cancels running commands.
func (c *Context) SetStd(ctx stdcontext.Context) {
	if ctx == nil {
		ctx = stdcontext.Background()
	}
	c.std = ctx
}

// Variables returns the variable registry.
func (c *Context) Variables() *variables.Registry {
	return c.vars
}

// Events returns the event dispatcher.
func (c *Context) Events() *events.Dispatcher {
	return c.events
}

// Emit is shorthand for Events().Emit.
func (c *Context) Emit(name string, fields ...string) {
	c.events.Emit(name, fields...)
}

// Expand substitutes the embedded expressions in text.
func (c *Context) Expand(text string) string {
	return c.expander.Expand(c.std, text)
}

// Engine returns the rendering engine.
func (c *Context) Engine() webtypes.Engine {
	return c.engine
}

// Navigator returns the engine's history interface when it has one.
func (c *Context) Navigator() (webtypes.Navigator, bool) {
	nav, ok := c.engine.(webtypes.Navigator)
	return nav, ok
}

// Shell returns the shell capability.
func (c *Context) Shell() webtypes.Shell {
	return c.shell
}

// Adjustment returns the scroll state for axis.
func (c *Context) Adjustment(axis webtypes.Axis) (webtypes.Adjustment, bool) {
	if adj, ok := c.adjustments[axis]; ok {
		return adj, true
	}
	if s, ok := c.engine.(webtypes.Scrollable); ok {
		if adj := s.Adjustment(axis); adj != nil {
			return adj, true
		}
	}
	return nil, false
}

// Menu returns the context menu.
func (c *Context) Menu() *menu.Menu {
	return c.menu
}

// Settings returns the storage behind the mutable builtin variables.
func (c *Context) Settings() *Settings {
	return c.settings
}

// LastResult returns the output of the most recent js evaluation.
func (c *Context) LastResult() string {
	return c.lastResult
}

// SetLastResult replaces the last-result register.
func (c *Context) SetLastResult(s string) {
	c.lastResult = s
}

// SetDispatcher installs the dispatcher used by Dispatch.
func (c *Context) SetDispatcher(d Dispatcher) {
	c.dispatcher = d
}

// Dispatch runs line through the installed dispatcher, appending to result.
// Commands such as chain use it to run sub-commands.
func (c *Context) Dispatch(line string, result *webtypes.Result) {
	if c.dispatcher == nil {
		c.logger.Warn("No dispatcher installed", "command", line)
		return
	}
	c.dispatcher.Execute(line, result)
}

// RequestExit asks the process to shut down. It is safe to call more than once.
func (c *Context) RequestExit() {
	c.exitOnce.Do(func() { close(c.exit) })
}

// ExitRequested is closed once RequestExit has been called.
func (c *Context) ExitRequested() <-chan struct{} {
	return c.exit
}

type nullEngine struct{}

func (nullEngine) EvaluateScript(stdcontext.Context, string) (string, error) {
	return "", ErrUnavailable
}
func (nullEngine) Navigate(stdcontext.Context, string) error { return nil }
func (nullEngine) Zoom() float64                            { return 1.0 }
func (nullEngine) SetZoom(float64) error                    { return ErrUnavailable }
func (nullEngine) Version() string                          { return "" }

type nullShell struct{}

func (nullShell) Run(stdcontext.Context, string, ...string) (string, error) {
	return "", ErrUnavailable
}
func (nullShell) Spawn(stdcontext.Context, []string) (string, error) { return "", ErrUnavailable }
