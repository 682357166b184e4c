// Package execution provides the state machine that dispatches webshell command lines.
// A line moves through Received, Parsing, Resolving and Executing before it is
// Completed; any failure moves it to Error, which is logged and never aborts the process.
package execution

// State represents the current state of command execution in the state machine.
type State int

const (
	// StateReceived - Initial state: command line received and ready for processing
	StateReceived State = iota
	// StateParsing - Splitting the line into command name and raw arguments
	StateParsing
	// StateResolving - Finding the command in the registry
	StateResolving
	// StateExecuting - Running the command handler
	StateExecuting
	// StateSkipped - Blank or comment line, nothing to do
	StateSkipped
	// StateCompleted - Execution finished successfully
	StateCompleted
	// StateError - Execution failed with an error
	StateError
)

// String returns a human-readable representation of the execution state.
func (s State) String() string {
	switch s {
	case StateReceived:
		return "Received"
	case StateParsing:
		return "Parsing"
	case StateResolving:
		return "Resolving"
	case StateExecuting:
		return "Executing"
	case StateSkipped:
		return "Skipped"
	case StateCompleted:
		return "Completed"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Config holds configuration options for the state machine.
type Config struct {
	// RecursionLimit sets the maximum nesting of commands that dispatch other
	// commands, such as chain and include.
	RecursionLimit int
}

// DefaultConfig returns sensible default configuration for the state machine.
func DefaultConfig() Config {
	return Config{
		RecursionLimit: 50,
	}
}
