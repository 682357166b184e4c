package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// DumpConfigCommand implements dump_config and dump_config_as_events.
// The first writes a replayable "set" line per variable to the result, the
// second emits a VARIABLE_SET event per variable.
type DumpConfigCommand struct {
	asEvents bool
}

// Name returns the name this instance is registered under.
func (c *DumpConfigCommand) Name() string {
	if c.asEvents {
		return "dump_config_as_events"
	}
	return "dump_config"
}

// Description returns a brief description of the command.
func (c *DumpConfigCommand) Description() string {
	if c.asEvents {
		return "Emit a VARIABLE_SET event for every variable"
	}
	return "Return every variable as a set command"
}

// Usage returns the syntax for the command.
func (c *DumpConfigCommand) Usage() string {
	return c.Name()
}

// HelpInfo returns structured help information for the command.
func (c *DumpConfigCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Notes:       []string{"Variables are listed in name order"},
	}
}

// Execute dumps the variable table.
func (c *DumpConfigCommand) Execute(ctx *webcontext.Context, _ string, result *webtypes.Result) error {
	vars := ctx.Variables()
	if c.asEvents {
		vars.EmitAll()
		return nil
	}

	for _, name := range vars.Names() {
		result.WriteString(fmt.Sprintf("set %s = %s\n", name, vars.GetString(name)))
	}
	return nil
}

func init() {
	for _, cmd := range []*DumpConfigCommand{{}, {asEvents: true}} {
		if err := commands.GlobalRegistry.Register(cmd); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", cmd.Name(), err))
		}
	}
}
