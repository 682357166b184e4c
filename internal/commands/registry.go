// Package commands provides command registration and lookup for webshell.
// It manages a global registry of commands that builtin packages fill during init.
package commands

import (
	"fmt"
	"sort"
	"sync"

	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// Command is a named handler for one command of the command language.
// Execute receives the raw, unexpanded argument text; each command decides
// whether and how to expand it. Output goes to result, which may be nil.
type Command interface {
	Name() string
	Description() string
	Usage() string
	HelpInfo() HelpInfo
	Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error
}

// HelpExample is one example invocation shown by help.
type HelpExample struct {
	Command     string
	Description string
}

// HelpInfo is the structured help of a command.
type HelpInfo struct {
	Command     string
	Description string
	Usage       string
	Examples    []HelpExample
	Notes       []string
}

// Registry manages command registration and lookup for webshell commands.
// It provides thread-safe registration and retrieval of commands by name.
// Names are matched exactly, including case.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates a new command registry with an empty command map.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry. Returns an error if the command
// name is empty or if a command with the same name is already registered.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cmd.Name() == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if _, exists := r.commands[cmd.Name()]; exists {
		return fmt.Errorf("command %s already registered", cmd.Name())
	}

	r.commands[cmd.Name()] = cmd
	return nil
}

// Unregister removes a command from the registry by name.
// This operation is thread-safe and will not error if the command doesn't exist.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get retrieves a command by name. Returns the command and true if found,
// or nil and false if the command is not registered.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetAll returns every registered command sorted by name.
// The returned slice is a copy and can be safely modified.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})
	return commands
}

// Names returns the sorted names of every registered command.
func (r *Registry) Names() []string {
	all := r.GetAll()
	names := make([]string, len(all))
	for i, cmd := range all {
		names[i] = cmd.Name()
	}
	return names
}

// Execute runs a command by name. Returns an error if the command is not found
// or if the command execution fails.
func (r *Registry) Execute(ctx *webcontext.Context, name, args string, result *webtypes.Result) error {
	cmd, exists := r.Get(name)
	if !exists {
		return fmt.Errorf("unknown command: %s", name)
	}
	return cmd.Execute(ctx, args, result)
}

// IsValidCommand checks if a command exists in the registry.
func (r *Registry) IsValidCommand(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// GlobalRegistry is the global command registry instance used throughout webshell.
// Commands register themselves with this instance during initialization.
var GlobalRegistry = NewRegistry()
