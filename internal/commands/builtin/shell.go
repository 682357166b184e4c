package builtin

import (
	"fmt"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/logger"
	"webshell/internal/parser"
	"webshell/pkg/webtypes"
)

// ShellCommand implements sync_sh and sh. The first argument is a shell script,
// the remaining ones become its positional parameters.
//
// sync_sh blocks the control loop until the script exits and returns its stdout.
// sh starts the script and returns immediately.
type ShellCommand struct {
	name string
	sync bool
}

// Name returns the name this instance is registered under.
func (c *ShellCommand) Name() string {
	return c.name
}

// Description returns a brief description of the command.
func (c *ShellCommand) Description() string {
	if c.sync {
		return "Run a shell command and return its output (blocks until it exits)"
	}
	return "Run a shell command in the background"
}

// Usage returns the syntax for the command.
func (c *ShellCommand) Usage() string {
	return c.name + " 'SCRIPT' [ARG...]"
}

// HelpInfo returns structured help information for the command.
func (c *ShellCommand) HelpInfo() commands.HelpInfo {
	info := commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
		Examples: []commands.HelpExample{
			{Command: c.name + " 'echo Test echo.'", Description: "Run a quoted script"},
			{Command: c.name + " 'echo $1' @uri", Description: "Pass the current URI as $1"},
		},
	}
	if c.sync {
		info.Notes = []string{"Output is returned verbatim, including the trailing newline"}
	}
	return info
}

// Execute runs the script through the shell capability.
func (c *ShellCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	words, err := parser.SplitArgs(ctx.Expand(args))
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if len(words) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	shell := ctx.Shell()
	if !c.sync {
		std := ctx.Std()
		go func() {
			if _, err := shell.Run(std, words[0], words[1:]...); err != nil {
				logger.Warn("Background shell command failed", "command", words[0], "error", err)
			}
		}()
		return nil
	}

	out, err := shell.Run(ctx.Std(), words[0], words[1:]...)
	result.WriteString(out)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

// SpawnCommand implements spawn and sync_spawn, which run a program directly
// without a shell.
type SpawnCommand struct {
	name string
	sync bool
}

// Name returns the name this instance is registered under.
func (c *SpawnCommand) Name() string {
	return c.name
}

// Description returns a brief description of the command.
func (c *SpawnCommand) Description() string {
	if c.sync {
		return "Run a program and return its output (blocks until it exits)"
	}
	return "Run a program in the background"
}

// Usage returns the syntax for the command.
func (c *SpawnCommand) Usage() string {
	return c.name + " PROGRAM [ARG...]"
}

// HelpInfo returns structured help information for the command.
func (c *SpawnCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{
		Command:     c.Name(),
		Description: c.Description(),
		Usage:       c.Usage(),
	}
}

// Execute spawns the program through the shell capability.
func (c *SpawnCommand) Execute(ctx *webcontext.Context, args string, result *webtypes.Result) error {
	argv, err := parser.SplitArgs(ctx.Expand(args))
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	shell := ctx.Shell()
	if !c.sync {
		std := ctx.Std()
		go func() {
			if _, err := shell.Spawn(std, argv); err != nil {
				logger.Warn("Background spawn failed", "program", argv[0], "error", err)
			}
		}()
		return nil
	}

	out, err := shell.Spawn(ctx.Std(), argv)
	result.WriteString(out)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

func init() {
	toRegister := []commands.Command{
		&ShellCommand{name: "sync_sh", sync: true},
		&ShellCommand{name: "sh"},
		&SpawnCommand{name: "sync_spawn", sync: true},
		&SpawnCommand{name: "spawn"},
	}
	for _, cmd := range toRegister {
		if err := commands.GlobalRegistry.Register(cmd); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", cmd.Name(), err))
		}
	}
}
