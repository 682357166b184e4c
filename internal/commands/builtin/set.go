package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/parser"
	"webshell/pkg/webtypes"
)

// SetCommand implements the set command for assigning variables.
type SetCommand struct{}

// Name returns the command name "set" for registration and lookup.
func (c *SetCommand) Name() string {
	return "set"
}

// Description returns a brief description of what the set command does.
func (c *SetCommand) Description() string {
	return "Set a variable, creating it as a string if it does not exist"
}

// Usage returns the syntax for the set command.
func (c *SetCommand) Usage() string {
	return "set NAME = VALUE"
}

// HelpInfo returns structured help information for the set command.
func (c *SetCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "set useragent = webshell/@VERSION", Description: "Set a builtin string variable"},
			{Command: "set zoom_level = 1.5", Description: "Set a float variable; the value must parse"},
			{Command: "set my_var = Test @(echo expansion)@", Description: "Create a user variable from an expanded value"},
		},
		Notes: []string{
			"VALUE is expanded before it is assigned; the name is not",
			"Every successful write emits VARIABLE_SET NAME KIND VALUE",
			"Writes to constants are ignored and emit nothing",
		},
	}
}

// Execute parses NAME = VALUE, expands VALUE and stores it.
func (c *SetCommand) Execute(ctx *webcontext.Context, args string, _ *webtypes.Result) error {
	name, value, err := parser.ParseAssignment(args)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}

	ctx.Variables().Set(name, ctx.Expand(value))
	return nil
}

func init() {
	if err := commands.GlobalRegistry.Register(&SetCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register set command: %v", err))
	}
}
