package builtin

import (
	stdcontext "context"
	"fmt"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// URICommand implements the uri command, which navigates by setting the uri variable.
type URICommand struct{}

// Name returns the command name "uri" for registration and lookup.
func (c *URICommand) Name() string {
	return "uri"
}

// Description returns a brief description of what the uri command does.
func (c *URICommand) Description() string {
	return "Load a URI in the current page"
}

// Usage returns the syntax for the uri command.
func (c *URICommand) Usage() string {
	return "uri URI"
}

// HelpInfo returns structured help information for the uri command.
func (c *URICommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "uri https://example.org/", Description: "Navigate to example.org"},
		},
		Notes: []string{"Without an argument nothing happens"},
	}
}

// Execute sets the uri variable to the expanded argument.
func (c *URICommand) Execute(ctx *webcontext.Context, args string, _ *webtypes.Result) error {
	uri := strings.TrimSpace(ctx.Expand(args))
	if uri == "" {
		return nil
	}
	ctx.Variables().Set("uri", uri)
	return nil
}

// HistoryCommand implements the argument-less navigation commands
// back, forward, reload, reload_ign_cache and stop.
type HistoryCommand struct {
	name        string
	description string
	action      func(nav webtypes.Navigator, std stdcontext.Context) error
}

// Name returns the name this instance is registered under.
func (c *HistoryCommand) Name() string {
	return c.name
}

// Description returns a brief description of the command.
func (c *HistoryCommand) Description() string {
	return c.description
}

// Usage returns the syntax for the command.
func (c *HistoryCommand) Usage() string {
	return c.name
}

// HelpInfo returns structured help information for the command.
func (c *HistoryCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{Command: c.Name(), Description: c.Description(), Usage: c.Usage()}
}

// Execute performs the navigation action on the engine.
func (c *HistoryCommand) Execute(ctx *webcontext.Context, _ string, _ *webtypes.Result) error {
	nav, ok := ctx.Navigator()
	if !ok {
		return fmt.Errorf("%s: engine does not support navigation", c.name)
	}
	if err := c.action(nav, ctx.Std()); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

func init() {
	toRegister := []commands.Command{
		&URICommand{},
		&HistoryCommand{
			name:        "back",
			description: "Go back in the page history",
			action:      func(nav webtypes.Navigator, std stdcontext.Context) error { return nav.Back(std) },
		},
		&HistoryCommand{
			name:        "forward",
			description: "Go forward in the page history",
			action:      func(nav webtypes.Navigator, std stdcontext.Context) error { return nav.Forward(std) },
		},
		&HistoryCommand{
			name:        "reload",
			description: "Reload the current page",
			action:      func(nav webtypes.Navigator, std stdcontext.Context) error { return nav.Reload(std, false) },
		},
		&HistoryCommand{
			name:        "reload_ign_cache",
			description: "Reload the current page, bypassing the cache",
			action:      func(nav webtypes.Navigator, std stdcontext.Context) error { return nav.Reload(std, true) },
		},
		&HistoryCommand{
			name:        "stop",
			description: "Stop loading the current page",
			action:      func(nav webtypes.Navigator, std stdcontext.Context) error { return nav.Stop(std) },
		},
	}
	for _, cmd := range toRegister {
		if err := commands.GlobalRegistry.Register(cmd); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", cmd.Name(), err))
		}
	}
}
