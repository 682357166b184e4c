package builtin

import (
	"fmt"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/parser"
	"webshell/pkg/webtypes"
)

// ToggleCommand implements the toggle command for cycling a variable's value.
type ToggleCommand struct{}

// Name returns the command name "toggle" for registration and lookup.
func (c *ToggleCommand) Name() string {
	return "toggle"
}

// Description returns a brief description of what the toggle command does.
func (c *ToggleCommand) Description() string {
	return "Flip a variable or cycle it through a list of values"
}

// Usage returns the syntax for the toggle command.
func (c *ToggleCommand) Usage() string {
	return "toggle NAME [VALUE...]"
}

// HelpInfo returns structured help information for the toggle command.
func (c *ToggleCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "toggle show_status", Description: "Flip an integer between 0 and 1"},
			{Command: "toggle useragent 'x' 'y'", Description: "Cycle a variable through x and y"},
		},
		Notes: []string{
			"Without values, strings are cleared and numbers flip between 0 and 1",
			"When the current value is not in the list the first value is used",
		},
	}
}

// Execute toggles the named variable.
func (c *ToggleCommand) Execute(ctx *webcontext.Context, args string, _ *webtypes.Result) error {
	name, rest := splitFirst(args)
	if name == "" {
		return fmt.Errorf("toggle: missing variable name")
	}

	var candidates []string
	if rest != "" {
		words, err := parser.SplitArgs(ctx.Expand(rest))
		if err != nil {
			return fmt.Errorf("toggle: %w", err)
		}
		candidates = words
	}

	ctx.Variables().Toggle(name, candidates)
	return nil
}

// splitFirst separates the first whitespace-delimited word from the rest of text.
func splitFirst(text string) (string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	first := fields[0]
	rest := strings.TrimSpace(strings.TrimSpace(text)[len(first):])
	return first, rest
}

func init() {
	if err := commands.GlobalRegistry.Register(&ToggleCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register toggle command: %v", err))
	}
}
