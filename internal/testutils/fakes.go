// Package testutils provides fakes for the webshell capabilities so the command core can be
// exercised without a browser or child processes.
package testutils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// FakeEngine implements webtypes.Engine and webtypes.Navigator in memory.
// EvaluateScript answers from Scripts first and otherwise evaluates integer sums such as
// "1", "-1" or "2 + 3 - 1".
type FakeEngine struct {
	Scripts   map[string]string
	Failures  map[string]error
	Evaluated []string
	Navigated []string
	History   []string
	ZoomLevel float64
	Ver       string
}

// NewFakeEngine creates an engine at zoom 1.0 reporting version 2.40.1.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Scripts:   make(map[string]string),
		Failures:  make(map[string]error),
		ZoomLevel: 1.0,
		Ver:       "2.40.1",
	}
}

// EvaluateScript implements webtypes.Engine.
func (f *FakeEngine) EvaluateScript(_ context.Context, script string) (string, error) {
	f.Evaluated = append(f.Evaluated, script)
	if err, ok := f.Failures[script]; ok {
		return err.Error(), err
	}
	if out, ok := f.Scripts[script]; ok {
		return out, nil
	}
	n, err := evalSum(script)
	if err != nil {
		return "", fmt.Errorf("ReferenceError: %s", strings.TrimSpace(script))
	}
	return strconv.FormatInt(n, 10), nil
}

// Navigate implements webtypes.Engine.
func (f *FakeEngine) Navigate(_ context.Context, uri string) error {
	f.Navigated = append(f.Navigated, uri)
	return nil
}

// Zoom implements webtypes.Engine.
func (f *FakeEngine) Zoom() float64 { return f.ZoomLevel }

// SetZoom implements webtypes.Engine.
func (f *FakeEngine) SetZoom(level float64) error {
	if level <= 0 {
		return fmt.Errorf("zoom level must be positive, got %v", level)
	}
	f.ZoomLevel = level
	return nil
}

// Version implements webtypes.Engine.
func (f *FakeEngine) Version() string { return f.Ver }

// Back implements webtypes.Navigator.
func (f *FakeEngine) Back(context.Context) error {
	f.History = append(f.History, "back")
	return nil
}

// Forward implements webtypes.Navigator.
func (f *FakeEngine) Forward(context.Context) error {
	f.History = append(f.History, "forward")
	return nil
}

// Reload implements webtypes.Navigator.
func (f *FakeEngine) Reload(_ context.Context, bypassCache bool) error {
	if bypassCache {
		f.History = append(f.History, "reload_ign_cache")
	} else {
		f.History = append(f.History, "reload")
	}
	return nil
}

// Stop implements webtypes.Navigator.
func (f *FakeEngine) Stop(context.Context) error {
	f.History = append(f.History, "stop")
	return nil
}

// evalSum evaluates whitespace separated integer terms joined by + and -.
func evalSum(script string) (int64, error) {
	fields := strings.Fields(script)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty expression")
	}
	total, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, err
	}
	for i := 1; i+1 < len(fields); i += 2 {
		n, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil {
			return 0, err
		}
		switch fields[i] {
		case "+":
			total += n
		case "-":
			total -= n
		default:
			return 0, fmt.Errorf("unsupported operator %q", fields[i])
		}
	}
	if len(fields)%2 == 0 {
		return 0, fmt.Errorf("dangling operator")
	}
	return total, nil
}

// FakeShell implements webtypes.Shell from canned outputs.
// It is safe for the background goroutines started by sh and spawn.
type FakeShell struct {
	Outputs map[string]string
	Errors  map[string]error
	Calls   []string

	mu sync.Mutex
}

// NewFakeShell creates a shell with no canned outputs.
func NewFakeShell() *FakeShell {
	return &FakeShell{
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// Run implements webtypes.Shell. Unknown scripts produce no output.
func (f *FakeShell) Run(_ context.Context, script string, args ...string) (string, error) {
	call := strings.TrimSpace(strings.Join(append([]string{script}, args...), " "))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	return f.Outputs[call], f.Errors[call]
}

// CallLog returns a copy of the calls made so far.
func (f *FakeShell) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

// Spawn implements webtypes.Shell.
func (f *FakeShell) Spawn(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty argv")
	}
	return f.Run(ctx, argv[0], argv[1:]...)
}
