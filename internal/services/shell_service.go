package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"webshell/internal/logger"
)

// ShellService implements webtypes.Shell. Scripts run in an in-process POSIX
// shell interpreter with stdout captured; spawned programs run directly.
// Standard error of both goes to Stderr.
type ShellService struct {
	// Dir is the working directory; empty means the process working directory.
	Dir string
	// Env is the environment in KEY=VALUE form; nil means the process environment.
	Env []string
	// Stderr receives the standard error of every command.
	Stderr io.Writer

	initialized bool
	logger      *log.Logger
}

// NewShellService creates a ShellService that inherits the process environment.
func NewShellService() *ShellService {
	return &ShellService{
		Stderr: os.Stderr,
		logger: logger.NewStyledLogger("ShellService"),
	}
}

// Name returns the service name for registration.
func (s *ShellService) Name() string {
	return "shell"
}

// Initialize resolves the working directory.
func (s *ShellService) Initialize() error {
	if s.Dir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		s.Dir = dir
	}
	s.initialized = true
	return nil
}

// Run parses script and runs it with args as positional parameters. It returns
// everything written to stdout. A non-zero exit status is reported as an error
// alongside the captured output.
func (s *ShellService) Run(ctx context.Context, script string, args ...string) (string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "sh")
	if err != nil {
		return "", fmt.Errorf("failed to parse script: %w", err)
	}

	var stdout bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(s.environ()...)),
		interp.StdIO(nil, &stdout, s.stderr()),
		interp.ExecHandlers(s.execHandler),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}
	// "--" keeps arguments such as "-v" from being read as shell options
	if len(args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create interpreter: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	err = runner.Run(ctx, prog)
	if err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return stdout.String(), fmt.Errorf("script exited with status %d", uint8(status))
		}
		return stdout.String(), fmt.Errorf("failed to run script: %w", err)
	}
	return stdout.String(), nil
}

// Spawn runs argv[0] without a shell and returns its stdout.
func (s *ShellService) Spawn(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("nothing to spawn")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = s.Dir
	cmd.Env = s.Env
	cmd.Stderr = s.stderr()

	s.logger.Debug("Spawning", "argv", argv)
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return string(out), nil
}

// execHandler logs every external program the interpreter starts.
func (s *ShellService) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		s.logger.Debug("Executing", "args", args)
		return next(ctx, args)
	}
}

func (s *ShellService) environ() []string {
	if s.Env != nil {
		return s.Env
	}
	return os.Environ()
}

func (s *ShellService) stderr() io.Writer {
	if s.Stderr == nil {
		return io.Discard
	}
	return s.Stderr
}
