package builtin

import (
	"fmt"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/orchestration"
	"webshell/pkg/webtypes"
)

// IncludeCommand implements the include command, which runs every command of a file.
type IncludeCommand struct{}

// Name returns the command name "include" for registration and lookup.
func (c *IncludeCommand) Name() string {
	return "include"
}

// Description returns a brief description of what the include command does.
func (c *IncludeCommand) Description() string {
	return "Run the commands of a file"
}

// Usage returns the syntax for the include command.
func (c *IncludeCommand) Usage() string {
	return "include FILE"
}

// HelpInfo returns structured help information for the include command.
func (c *IncludeCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "include @(echo $HOME)@/.config/webshell/keys", Description: "Load extra settings"},
		},
	}
}

// Execute runs the file named by the expanded args.
func (c *IncludeCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	path := strings.TrimSpace(ctx.Expand(args))
	if path == "" {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	_, err := orchestration.ExecuteScript(path, ctx, result)
	return err
}

func init() {
	if err := commands.GlobalRegistry.Register(&IncludeCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register include command: %v", err))
	}
}
