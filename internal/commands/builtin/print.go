package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// PrintCommand implements the print command for returning expanded text as the result.
type PrintCommand struct{}

// Name returns the command name "print" for registration and lookup.
func (c *PrintCommand) Name() string {
	return "print"
}

// Description returns a brief description of what the print command does.
func (c *PrintCommand) Description() string {
	return "Expand text and return it as the command result"
}

// Usage returns the syntax for the print command.
func (c *PrintCommand) Usage() string {
	return "print TEXT"
}

// HelpInfo returns structured help information for the print command.
func (c *PrintCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "print @uri", Description: "Return the current URI"},
			{Command: "print A simple @(echo expansion)@ test", Description: "Return 'A simple expansion test'"},
		},
	}
}

// Execute writes the expanded arguments to result. No event is emitted.
func (c *PrintCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	result.WriteString(ctx.Expand(args))
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&PrintCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register print command: %v", err))
	}
}
