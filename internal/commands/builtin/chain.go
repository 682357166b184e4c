package builtin

import (
	"fmt"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/parser"
	"webshell/pkg/webtypes"
)

// ChainCommand implements the chain command for running several commands in order.
type ChainCommand struct{}

// Name returns the command name "chain" for registration and lookup.
func (c *ChainCommand) Name() string {
	return "chain"
}

// Description returns a brief description of what the chain command does.
func (c *ChainCommand) Description() string {
	return "Run quoted commands in sequence, passing the last result along"
}

// Usage returns the syntax for the chain command.
func (c *ChainCommand) Usage() string {
	return "chain 'COMMAND' ['COMMAND'...]"
}

// HelpInfo returns structured help information for the chain command.
func (c *ChainCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: `chain 'js 1' 'js \@_ + 1'`, Description: "Leaves 2 as the last result"},
			{Command: "chain 'set a = 1' 'print @a'", Description: "Run two commands on one result"},
		},
		Notes: []string{
			"@_ in a link is replaced by the last result before that link runs",
			"Links are expanded by the command they run, not by chain",
		},
	}
}

// Execute dispatches every link on the same result sink.
func (c *ChainCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	links, err := parser.SplitArgs(args)
	if err != nil {
		return fmt.Errorf("chain: %w", err)
	}

	for _, link := range links {
		ctx.Dispatch(substituteLastResult(link, ctx.LastResult()), result)
	}
	return nil
}

// substituteLastResult replaces every @_ (or \@_) that is not part of a longer
// variable name with last.
func substituteLastResult(link, last string) string {
	if !strings.Contains(link, "@_") {
		return link
	}

	var out strings.Builder
	for i := 0; i < len(link); {
		start, width := i, 2
		if link[i] == '\\' && strings.HasPrefix(link[i+1:], "@_") {
			width = 3
		} else if !strings.HasPrefix(link[i:], "@_") {
			out.WriteByte(link[i])
			i++
			continue
		}

		end := start + width
		if end < len(link) && isNameByte(link[end]) {
			out.WriteString(link[start:end])
			i = end
			continue
		}
		out.WriteString(last)
		i = end
	}
	return out.String()
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func init() {
	if err := commands.GlobalRegistry.Register(&ChainCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register chain command: %v", err))
	}
}
