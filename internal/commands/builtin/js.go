package builtin

import (
	"fmt"
	"os"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/logger"
	"webshell/pkg/webtypes"
)

// JSCommand implements the js command for evaluating script in the current page.
type JSCommand struct{}

// Name returns the command name "js" for registration and lookup.
func (c *JSCommand) Name() string {
	return "js"
}

// Description returns a brief description of what the js command does.
func (c *JSCommand) Description() string {
	return "Evaluate JavaScript in the current page"
}

// Usage returns the syntax for the js command.
func (c *JSCommand) Usage() string {
	return "js EXPRESSION"
}

// HelpInfo returns structured help information for the js command.
func (c *JSCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: "js document.title", Description: "Return the page title"},
			{Command: "js ('x' + 345).toUpperCase()", Description: "Return X345"},
		},
		Notes: []string{
			"The result is also stored as the last result, available to chain as @_",
			"Evaluation errors are returned as text",
		},
	}
}

// Execute expands and evaluates args.
func (c *JSCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	evaluate(ctx, ctx.Expand(args), result)
	return nil
}

// ScriptCommand implements the script command for evaluating a JavaScript file.
// The file contents are not expanded.
type ScriptCommand struct{}

// Name returns the command name "script" for registration and lookup.
func (c *ScriptCommand) Name() string {
	return "script"
}

// Description returns a brief description of what the script command does.
func (c *ScriptCommand) Description() string {
	return "Evaluate a JavaScript file in the current page"
}

// Usage returns the syntax for the script command.
func (c *ScriptCommand) Usage() string {
	return "script FILE"
}

// HelpInfo returns structured help information for the script command.
func (c *ScriptCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
	}
}

// Execute reads the file named by the expanded args and evaluates it.
func (c *ScriptCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	path := strings.TrimSpace(ctx.Expand(args))
	if path == "" {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}

	evaluate(ctx, string(data), result)
	return nil
}

// evaluate runs script in the engine and stores its result, or the error text,
// in both the result sink and the last-result register.
func evaluate(ctx *webcontext.Context, script string, result *webtypes.Result) {
	out, err := ctx.Engine().EvaluateScript(ctx.Std(), script)
	if err != nil {
		logger.Warn("Script evaluation failed", "error", err)
		if out == "" {
			out = err.Error()
		}
	}

	result.WriteString(out)
	ctx.SetLastResult(out)
}

func init() {
	if err := commands.GlobalRegistry.Register(&JSCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register js command: %v", err))
	}
	if err := commands.GlobalRegistry.Register(&ScriptCommand{}); err != nil {
		panic(fmt.Sprintf("failed to register script command: %v", err))
	}
}
