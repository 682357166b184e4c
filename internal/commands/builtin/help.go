package builtin

import (
	"fmt"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// HelpCommand implements the help command for displaying available commands and usage information.
// It lists all registered commands with their descriptions, or details for one command.
type HelpCommand struct{}

// Name returns the command name "help" for registration and lookup.
func (c *HelpCommand) Name() string {
	return "help"
}

// Description returns a brief description of what the help command does.
func (c *HelpCommand) Description() string {
	return "Show command help"
}

// Usage returns the syntax for the help command.
func (c *HelpCommand) Usage() string {
	return "help [command]"
}

// HelpInfo returns structured help information for the help command.
func (c *HelpCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "help", Description: "List every command"},
			{Command: "help chain", Description: "Show detailed help for chain"},
		},
	}
}

// Execute writes the help text to result.
func (c *HelpCommand) Execute(_ *webcontext.Context, args string, result *webtypes.Result) error {
	requested := strings.TrimSpace(args)
	if requested != "" {
		return c.showCommandHelp(requested, result)
	}
	c.showAllCommands(result)
	return nil
}

// showCommandHelp writes detailed help for a single command.
func (c *HelpCommand) showCommandHelp(name string, result *webtypes.Result) error {
	cmd, ok := commands.GlobalRegistry.Get(name)
	if !ok {
		return fmt.Errorf("command '%s' not found. Use help to see all available commands", name)
	}

	info := cmd.HelpInfo()
	result.WriteString(fmt.Sprintf("Command: %s\n", info.Command))
	result.WriteString(fmt.Sprintf("Description: %s\n", info.Description))
	result.WriteString(fmt.Sprintf("Usage: %s\n", info.Usage))

	if len(info.Examples) > 0 {
		result.WriteString("\nExamples:\n")
		for _, ex := range info.Examples {
			result.WriteString(fmt.Sprintf("  %s\n      %s\n", ex.Command, ex.Description))
		}
	}
	if len(info.Notes) > 0 {
		result.WriteString("\nNotes:\n")
		for _, note := range info.Notes {
			result.WriteString(fmt.Sprintf("  - %s\n", note))
		}
	}
	return nil
}

// showAllCommands writes a one-line summary of every command.
func (c *HelpCommand) showAllCommands(result *webtypes.Result) {
	result.WriteString("webshell commands:\n")
	for _, cmd := range commands.GlobalRegistry.GetAll() {
		result.WriteString(fmt.Sprintf("  %-36s - %s\n", cmd.Usage(), cmd.Description()))
	}
	result.WriteString("\nUse help COMMAND for detailed help on a specific command\n")
}

func init() {
	if err := commands.GlobalRegistry.Register(&HelpCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register help command: %v", err))
	}
}
