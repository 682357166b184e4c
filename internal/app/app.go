// Package app assembles a webshell instance: the services, the context, the
// dispatcher, the control loop and the transports, and runs it until exit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"webshell/internal/comm"
	"webshell/internal/commands"
	_ "webshell/internal/commands/builtin" // Import for side effects (init functions)
	webcontext "webshell/internal/context"
	"webshell/internal/events"
	"webshell/internal/execution"
	"webshell/internal/logger"
	"webshell/internal/orchestration"
	"webshell/internal/services"
	"webshell/internal/shell"
	"webshell/pkg/webtypes"
)

// Flags that only exist on the command line.
const (
	KeyStdin       = "stdin"
	KeyPrintEvents = "print-events"
)

// LoadFinish is emitted with the page URL whenever the engine finishes loading a page.
const LoadFinish = "LOAD_FINISH"

// Options configures an Instance.
type Options struct {
	Config services.Config

	Engine webtypes.Engine
	Shell  webtypes.Shell
	// Services are registered before the engine and the shell.
	Services []services.Service

	ReadStdin   bool
	PrintEvents bool
	Stdin       io.Reader
	Stdout      io.Writer
}

// Instance is one running webshell.
type Instance struct {
	opts     Options
	ctx      *webcontext.Context
	host     *comm.Host
	registry *services.Registry
	console  *shell.Console
	closers  []io.Closer
	pid      string
	logger   *log.Logger
}

// New initializes the services and builds the instance. Nothing is started
// until Run.
func New(opts Options) (*Instance, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	cfg := opts.Config
	if cfg.InstanceName == "" {
		cfg.InstanceName = strconv.Itoa(os.Getpid())
		opts.Config = cfg
	}

	registry := services.NewRegistry()
	svcs := append([]services.Service(nil), opts.Services...)
	for _, capability := range []interface{}{opts.Shell, opts.Engine} {
		if svc, ok := capability.(services.Service); ok {
			svcs = append(svcs, svc)
		}
	}
	if err := shell.InitializeServices(registry, svcs...); err != nil {
		_ = registry.CloseAll()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	verbose := int64(0)
	if cfg.Verbose {
		verbose = 1
	}
	wctx, err := webcontext.New(webcontext.Options{
		InstanceName: cfg.InstanceName,
		Engine:       opts.Engine,
		Shell:        opts.Shell,
		ReplayBuffer: cfg.ReplayBuffer,
		Settings: webcontext.Settings{
			UserAgent: cfg.UserAgent,
			Verbose:   verbose,
		},
	})
	if err != nil {
		_ = registry.CloseAll()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	execConfig := execution.DefaultConfig()
	if cfg.RecursionLimit > 0 {
		execConfig.RecursionLimit = cfg.RecursionLimit
	}
	sm := execution.NewStateMachine(wctx, commands.GlobalRegistry, execConfig)

	return &Instance{
		opts:     opts,
		ctx:      wctx,
		host:     comm.NewHost(comm.NewLoop(0), sm, wctx),
		registry: registry,
		pid:      strconv.Itoa(os.Getpid()),
		logger:   logger.NewStyledLogger("App"),
	}, nil
}

// Host returns the loop-safe handle on the instance.
func (i *Instance) Host() *comm.Host {
	return i.host
}

// Run starts the loop and the transports, runs the startup command file and
// blocks until ctx is cancelled, the exit command runs or the console closes.
func (i *Instance) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() { loopDone <- i.host.Run(ctx) }()

	if i.opts.PrintEvents {
		i.host.Attach(events.NewWriterChannel("stdout", i.opts.Stdout))
	}
	if loader, ok := i.opts.Engine.(interface{ OnLoad(func(uri string)) }); ok {
		loader.OnLoad(func(uri string) { i.host.Notify(LoadFinish, uri) })
	}
	i.host.Emit(events.InstanceStart, i.pid)

	if err := i.startTransports(ctx); err != nil {
		i.shutdown(cancel, loopDone)
		return err
	}

	i.runConfigFile()
	if uri := i.opts.Config.URI; uri != "" {
		i.host.Post("uri " + uri)
	}

	finished := make(chan struct{}, 2)
	if i.opts.ReadStdin {
		go func() {
			if err := comm.ServeReader(i.host, i.opts.Stdin, i.opts.Stdout); err != nil {
				i.logger.Warn("Stopped reading stdin", "error", err)
			}
			if !i.opts.Config.Console {
				finished <- struct{}{}
			}
		}()
	}
	if i.opts.Config.Console {
		i.console = shell.NewConsole(i.host)
		go func() {
			i.console.Run()
			finished <- struct{}{}
		}()
	}

	select {
	case <-ctx.Done():
		i.logger.Info("Shutting down", "reason", ctx.Err())
	case <-i.ctx.ExitRequested():
		i.logger.Info("Exit requested")
	case <-finished:
		i.logger.Info("Input closed")
	}

	i.shutdown(cancel, loopDone)
	return nil
}

func (i *Instance) startTransports(ctx context.Context) error {
	cfg := i.opts.Config

	if cfg.SocketDir != "" {
		server := comm.NewSocketServer(i.host, comm.SocketPath(cfg.SocketDir, cfg.InstanceName))
		if err := server.Listen(); err != nil {
			return err
		}
		i.closers = append(i.closers, server)
		go i.serve("socket", func() error { return server.Serve(ctx) })
	}

	if cfg.FIFODir != "" {
		fifo := comm.NewFIFO(i.host, comm.FIFOPath(cfg.FIFODir, cfg.InstanceName))
		if err := fifo.Create(); err != nil {
			return err
		}
		i.closers = append(i.closers, fifo)
		go i.serve("fifo", func() error { return fifo.Serve(ctx) })
	}

	if cfg.ListenAddr != "" {
		server := comm.NewWebSocketServer(i.host, cfg.ListenAddr)
		if err := server.Listen(); err != nil {
			return err
		}
		i.closers = append(i.closers, server)
		go i.serve("websocket", func() error { return server.Serve(ctx) })
	}

	for _, path := range cfg.ConnectSockets {
		ch, _, err := comm.ConnectSocket(ctx, i.host, path)
		if err != nil {
			i.logger.Warn("Cannot connect to event manager", "socket", path, "error", err)
			continue
		}
		i.closers = append(i.closers, ch)
	}
	return nil
}

func (i *Instance) serve(name string, serve func() error) {
	if err := serve(); err != nil {
		i.logger.Error("Transport failed", "transport", name, "error", err)
	}
}

// runConfigFile dispatches the startup command file. A missing file is not an error.
func (i *Instance) runConfigFile() {
	path := i.opts.Config.ConfigFile
	if path == "" || path == "-" {
		return
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		i.logger.Debug("No config file", "path", path)
		return
	}

	i.host.Do(func(ctx *webcontext.Context) {
		if _, err := orchestration.ExecuteScript(path, ctx, nil); err != nil {
			i.logger.Warn("Config file failed", "path", path, "error", err)
		}
	})
}

func (i *Instance) shutdown(cancel context.CancelFunc, loopDone <-chan error) {
	i.host.Do(func(ctx *webcontext.Context) {
		ctx.Emit(events.InstanceExit, i.pid)
	})

	if i.console != nil {
		i.console.Stop()
	}
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j].Close(); err != nil {
			i.logger.Debug("Closing transport", "error", err)
		}
	}

	cancel()
	<-loopDone

	if err := i.registry.CloseAll(); err != nil {
		i.logger.Warn("Failed to close services", "error", err)
	}
}
