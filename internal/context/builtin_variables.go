package context

import (
	"fmt"
	"os"
	"runtime"

	"webshell/internal/logger"
	"webshell/internal/variables"
	"webshell/internal/version"
)

// DefaultZoomStep is the zoom_in/zoom_out increment when none is configured.
const DefaultZoomStep = 0.1

func (c *Context) defineBuiltins() error {
	s := c.settings
	if s.ZoomStep == 0 {
		s.ZoomStep = DefaultZoomStep
	}

	defs := []variables.Definition{
		{
			Name: "uri",
			Kind: variables.KindString,
			Slot: variables.StringSlot(&s.URI),
			Set: func(v variables.Value) error {
				if v.Str == "" {
					return nil
				}
				return c.engine.Navigate(c.std, v.Str)
			},
		},
		{Name: "useragent", Kind: variables.KindString, Slot: variables.StringSlot(&s.UserAgent)},
		{Name: "forward_keys", Kind: variables.KindInt, Slot: variables.IntSlot(&s.ForwardKeys)},
		{Name: "show_status", Kind: variables.KindInt, Slot: variables.IntSlot(&s.ShowStatus)},
		{
			Name: "zoom_level",
			Kind: variables.KindFloat,
			Get:  func() variables.Value { return variables.FloatValue(c.engine.Zoom()) },
			Set:  func(v variables.Value) error { return c.engine.SetZoom(v.Float) },
		},
		{Name: "zoom_step", Kind: variables.KindFloat, Slot: variables.FloatSlot(&s.ZoomStep)},
		{
			Name: "verbose",
			Kind: variables.KindInt,
			Slot: variables.IntSlot(&s.Verbose),
			Set: func(v variables.Value) error {
				if v.Int > 0 {
					logger.SetLevel("debug")
				} else {
					logger.SetLevel("info")
				}
				return nil
			},
		},
	}

	engineVersion, err := version.ParseEngineVersion(c.engine.Version())
	if err != nil {
		c.logger.Debug("Engine version unavailable", "error", err)
	}

	constants := []struct {
		name  string
		value variables.Value
	}{
		{"ENGINE_MAJOR", variables.IntValue(engineVersion.Major)},
		{"ENGINE_MINOR", variables.IntValue(engineVersion.Minor)},
		{"ENGINE_MICRO", variables.IntValue(engineVersion.Micro)},
		{"ARCH", variables.StringValue(runtime.GOARCH)},
		{"VERSION", variables.StringValue(version.GetVersion())},
		{"COMMIT", variables.StringValue(version.GitCommit)},
		{"PID", variables.IntValue(int64(os.Getpid()))},
		{"INSTANCE_NAME", variables.StringValue(c.events.InstanceName())},
	}
	for _, k := range constants {
		defs = append(defs, variables.Definition{
			Name:     k.name,
			Kind:     k.value.Kind,
			Initial:  k.value,
			Constant: true,
		})
	}

	for _, def := range defs {
		if err := c.vars.Define(def); err != nil {
			return fmt.Errorf("failed to define builtin variable: %w", err)
		}
	}
	return nil
}

// DefineConstant adds a read-only variable after startup, e.g. the socket path
// once the listener is up.
func (c *Context) DefineConstant(name string, value variables.Value) error {
	return c.vars.Define(variables.Definition{
		Name:     name,
		Kind:     value.Kind,
		Initial:  value,
		Constant: true,
	})
}
