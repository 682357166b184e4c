package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/scroll"
	"webshell/pkg/webtypes"
)

// ScrollCommand implements the scroll command.
type ScrollCommand struct{}

// Name returns the command name "scroll" for registration and lookup.
func (c *ScrollCommand) Name() string {
	return "scroll"
}

// Description returns a brief description of what the scroll command does.
func (c *ScrollCommand) Description() string {
	return "Scroll the page horizontally or vertically"
}

// Usage returns the syntax for the scroll command.
func (c *ScrollCommand) Usage() string {
	return "scroll horizontal|vertical begin|end|PIXELS|PERCENT%"
}

// HelpInfo returns structured help information for the scroll command.
func (c *ScrollCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "scroll vertical end", Description: "Jump to the bottom of the page"},
			{Command: "scroll vertical -20", Description: "Scroll up by 20 pixels"},
			{Command: "scroll horizontal 50%", Description: "Scroll right by half a page"},
		},
		Notes: []string{
			"The position is kept within [lower, upper - page size]",
		},
	}
}

// Execute moves the adjustment for the requested axis.
func (c *ScrollCommand) Execute(ctx *webcontext.Context, args string, _ *webtypes.Result) error {
	axisText, spec := splitFirst(ctx.Expand(args))
	if axisText == "" || spec == "" {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	axis, err := webtypes.ParseAxis(axisText)
	if err != nil {
		return err
	}

	adj, ok := ctx.Adjustment(axis)
	if !ok {
		return fmt.Errorf("no %s scroll adjustment available", axis)
	}
	return scroll.Apply(adj, spec)
}

func init() {
	if err := commands.GlobalRegistry.Register(&ScrollCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register scroll command: %v", err))
	}
}
