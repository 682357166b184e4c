package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/pkg/webtypes"
)

// EventCommand implements the event command and its request alias.
// The expanded arguments become an event: the first word, upper-cased, is the
// event name and the remainder is passed through unchanged.
type EventCommand struct {
	name string
}

// Name returns the name this instance is registered under.
func (c *EventCommand) Name() string {
	return c.name
}

// Description returns a brief description of what the event command does.
func (c *EventCommand) Description() string {
	return "Emit a custom event to every attached channel"
}

// Usage returns the syntax for the event command.
func (c *EventCommand) Usage() string {
	return c.name + " EVENT_NAME [arguments...]"
}

// HelpInfo returns structured help information for the event command.
func (c *EventCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{
				Command:     c.name + " download_done /tmp/file.pdf",
				Description: "Emits EVENT [instance] DOWNLOAD_DONE /tmp/file.pdf",
			},
			{
				Command:     c.name + " title @<document.title>@",
				Description: "Arguments are expanded before the event is sent",
			},
		},
		Notes: []string{
			"An empty argument list emits nothing",
		},
	}
}

// Execute expands args and emits the resulting event.
func (c *EventCommand) Execute(ctx *webcontext.Context, args string, _ *webtypes.Result) error {
	text := strings.TrimSpace(ctx.Expand(args))
	if text == "" {
		return nil
	}

	name, rest := text, ""
	if idx := strings.IndexFunc(text, unicode.IsSpace); idx >= 0 {
		name = text[:idx]
		rest = strings.TrimLeftFunc(text[idx:], unicode.IsSpace)
	}

	name = strings.ToUpper(name)
	if rest == "" {
		ctx.Emit(name)
	} else {
		ctx.Emit(name, rest)
	}
	return nil
}

func init() {
	for _, name := range []string{"event", "request"} {
		if err := commands.GlobalRegistry.Register(&EventCommand{name: name}); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", name, err))
		}
	}
}
