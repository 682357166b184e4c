// Package shell provides the interactive console for webshell.
// It integrates the command system with the ishell interactive environment:
// every line typed is posted to the control loop and its output printed.
package shell

import (
	"errors"
	"strings"
	"sync"

	"github.com/abiosoft/ishell/v2"

	"webshell/internal/comm"
	"webshell/internal/logger"
	"webshell/internal/output"
	"webshell/internal/services"
	"webshell/internal/version"
)

// Printer is the part of ishell.Context the console writes to.
type Printer interface {
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// Console is an interactive prompt feeding the control loop.
type Console struct {
	host    *comm.Host
	printer *output.Printer

	mu    sync.Mutex
	shell *ishell.Shell
}

// NewConsole creates a console that dispatches through host.
func NewConsole(host *comm.Host) *Console {
	return &Console{host: host, printer: output.NewConsolePrinter(output.Silent())}
}

func (c *Console) newShell() *ishell.Shell {
	sh := ishell.New()
	sh.SetPrompt("webshell> ")

	// Remove built-in commands so they reach the webshell dispatcher
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")
	sh.DeleteCmd("clear")
	sh.NotFound(c.ProcessInput)
	sh.Interrupt(func(ic *ishell.Context, count int, _ string) {
		if count >= 2 {
			c.host.Post("exit")
			return
		}
		ic.Println("Input Ctrl-c once more to exit")
	})
	return sh
}

// ProcessInput handles user input from the interactive shell and executes commands.
func (c *Console) ProcessInput(ic *ishell.Context) {
	c.Process(strings.Join(ic.RawArgs, " "), ic)
}

// Process runs one console line and prints its output or error.
func (c *Console) Process(rawInput string, out Printer) {
	rawInput = strings.TrimSpace(rawInput)
	if rawInput == "" || strings.HasPrefix(rawInput, "#") {
		return
	}

	result, err := c.host.Execute(rawInput)
	if errors.Is(err, comm.ErrStopped) {
		out.Println(c.printer.Render(output.SemanticWarning, "webshell is shutting down"))
		return
	}
	if result != "" {
		if strings.HasSuffix(result, "\n") {
			out.Printf("%s", result)
		} else {
			out.Println(result)
		}
	}
	if err != nil {
		out.Println(c.printer.Render(output.SemanticError, "Error: "+err.Error()))
		// Avoid suggesting help when help itself failed
		if !strings.HasPrefix(rawInput, "help") {
			out.Println(c.printer.Render(output.SemanticInfo, "Type help for available commands"))
		}
	}
}

// Run shows the banner and reads input until Stop is called or input ends.
func (c *Console) Run() {
	sh := c.newShell()
	c.mu.Lock()
	c.shell = sh
	c.mu.Unlock()

	logger.Debug("Console started", "printer", c.printer)
	sh.Println(c.printer.Render(output.SemanticCommand, version.GetFormattedVersion()))
	sh.Println(c.printer.Render(output.SemanticInfo, "Type 'help' for commands or 'exit' to quit."))
	sh.Run()
}

// Stop ends Run.
func (c *Console) Stop() {
	c.mu.Lock()
	sh := c.shell
	c.mu.Unlock()
	if sh != nil {
		sh.Stop()
	}
}

// InitializeServices registers svcs in registry in order and initializes them.
func InitializeServices(registry *services.Registry, svcs ...services.Service) error {
	for _, svc := range svcs {
		if err := registry.RegisterService(svc); err != nil {
			return err
		}
	}

	if err := registry.InitializeAll(); err != nil {
		return err
	}

	logger.Debug("Services initialized", "services", registry.Names())
	return nil
}
