package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/variables"
	"webshell/pkg/webtypes"
)

// ZoomCommand implements zoom_in and zoom_out, which move zoom_level by zoom_step.
type ZoomCommand struct {
	name      string
	direction float64
}

// Name returns the name this instance is registered under.
func (c *ZoomCommand) Name() string {
	return c.name
}

// Description returns a brief description of the command.
func (c *ZoomCommand) Description() string {
	if c.direction > 0 {
		return "Increase zoom_level by zoom_step"
	}
	return "Decrease zoom_level by zoom_step"
}

// Usage returns the syntax for the command.
func (c *ZoomCommand) Usage() string {
	return c.name
}

// HelpInfo returns structured help information for the command.
func (c *ZoomCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{Command: c.Name(), Description: c.Description(), Usage: c.Usage()}
}

// Execute adjusts the zoom level through the variable registry so that a
// VARIABLE_SET event is emitted.
func (c *ZoomCommand) Execute(ctx *webcontext.Context, _ string, _ *webtypes.Result) error {
	vars := ctx.Variables()
	level := vars.GetFloat("zoom_level") + c.direction*vars.GetFloat("zoom_step")
	if level <= 0 {
		return fmt.Errorf("%s: zoom level would drop to %v", c.name, level)
	}
	vars.SetValue("zoom_level", variables.FloatValue(level))
	return nil
}

func init() {
	for _, cmd := range []*ZoomCommand{{name: "zoom_in", direction: 1}, {name: "zoom_out", direction: -1}} {
		if err := commands.GlobalRegistry.Register(cmd); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", cmd.name, err))
		}
	}
}
