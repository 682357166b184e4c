package builtin

import (
	"fmt"
	"strings"

	"webshell/internal/commands"
	webcontext "webshell/internal/context"
	"webshell/internal/menu"
	"webshell/pkg/webtypes"
)

type menuOp int

const (
	menuAdd menuOp = iota
	menuSeparator
	menuRemove
)

// MenuCommand implements the context menu commands. One instance is registered
// per operation and page context, e.g. menu_link_add or menu_image_remove.
type MenuCommand struct {
	op      menuOp
	context menu.Context
}

// Name returns the name this instance is registered under.
func (c *MenuCommand) Name() string {
	var b strings.Builder
	b.WriteString("menu_")
	if c.context != menu.Document {
		b.WriteString(c.context.String())
		b.WriteString("_")
	}
	switch c.op {
	case menuAdd:
		b.WriteString("add")
	case menuSeparator:
		b.WriteString("separator")
	case menuRemove:
		b.WriteString("remove")
	}
	return b.String()
}

// Description returns a brief description of the command.
func (c *MenuCommand) Description() string {
	switch c.op {
	case menuAdd:
		return fmt.Sprintf("Add a %s context menu item", c.context)
	case menuSeparator:
		return fmt.Sprintf("Add a %s context menu separator", c.context)
	default:
		return fmt.Sprintf("Remove %s context menu items by name", c.context)
	}
}

// Usage returns the syntax for the command.
func (c *MenuCommand) Usage() string {
	if c.op == menuAdd {
		return c.Name() + " NAME = COMMAND"
	}
	return c.Name() + " NAME"
}

// HelpInfo returns structured help information for the command.
func (c *MenuCommand) HelpInfo() commands.HelpInfo {
	return commands.HelpInfo{Command: c.Name(), Description: c.Description(), Usage: c.Usage()}
}

// Execute updates the context menu.
func (c *MenuCommand) Execute(ctx *webcontext.Context, args string, _ *webtypes.Result) error {
	m := ctx.Menu()

	if c.op == menuAdd {
		eq := strings.IndexByte(args, '=')
		if eq < 0 {
			return fmt.Errorf("usage: %s", c.Usage())
		}
		name := strings.TrimSpace(ctx.Expand(args[:eq]))
		command := strings.TrimSpace(args[eq+1:])
		if name == "" || command == "" {
			return fmt.Errorf("usage: %s", c.Usage())
		}
		m.Add(name, command, c.context)
		return nil
	}

	name := strings.TrimSpace(ctx.Expand(args))
	if name == "" {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	if c.op == menuSeparator {
		m.AddSeparator(name, c.context)
		return nil
	}
	m.Remove(name, c.context)
	return nil
}

func init() {
	for _, op := range []menuOp{menuAdd, menuSeparator, menuRemove} {
		for _, mc := range []menu.Context{menu.Document, menu.Link, menu.Image, menu.Editable} {
			cmd := &MenuCommand{op: op, context: mc}
			if err := commands.GlobalRegistry.Register(cmd); err != nil {
				panic(fmt.Sprintf("failed to register %s command: %v", cmd.Name(), err))
			}
		}
	}
}
