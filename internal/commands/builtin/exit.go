package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// ExitCommand implements the exit command for shutting down the instance.
// Shutdown itself, including the INSTANCE_EXIT event, happens in the main loop.
type ExitCommand struct{}

// Name returns the command name "exit" for registration and lookup.
func (c *ExitCommand) Name() string {
	return "exit"
}

// Description returns a brief description of what the exit command does.
func (c *ExitCommand) Description() string {
	return "Shut down this instance"
}

// Usage returns the syntax for the exit command.
func (c *ExitCommand) Usage() string {
	return "exit"
}

// HelpInfo returns structured help information for the exit command.
func (c *ExitCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Notes: []string{
			"Attached channels receive INSTANCE_EXIT before they are closed",
		},
	}
}

// Execute requests shutdown.
func (c *ExitCommand) Execute(ctx *webcontext.Context, _ string, _ *webtypes.Result) error {
	ctx.RequestExit()
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&ExitCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register exit command: %v", err))
	}
}
