package comm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"webshell/internal/events"
	"webshell/internal/logger"
)

// FIFOVariable is the constant holding the command FIFO path.
const FIFOVariable = "FIFO"

// FIFOPath returns the conventional FIFO path for an instance.
func FIFOPath(dir, instance string) string {
	return filepath.Join(dir, "webshell_fifo_"+instance)
}

// FIFO reads commands from a named pipe. Output is discarded: a FIFO has no
// way back to the writer.
type FIFO struct {
	host *Host
	path string

	mu   sync.Mutex
	file *os.File

	logger *log.Logger
}

// NewFIFO creates a reader for the named pipe at path.
func NewFIFO(host *Host, path string) *FIFO {
	return &FIFO{
		host:   host,
		path:   path,
		logger: logger.NewStyledLogger("FIFO"),
	}
}

// Path returns the FIFO path.
func (f *FIFO) Path() string {
	return f.path
}

// Create makes the named pipe, replacing a stale one, and publishes its path
// through the FIFO variable and a FIFO_SET event.
func (f *FIFO) Create() error {
	if info, err := os.Lstat(f.path); err == nil {
		if info.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("failed to create fifo %s: file exists and is not a fifo", f.path)
		}
		if err := os.Remove(f.path); err != nil {
			return fmt.Errorf("failed to remove stale fifo: %w", err)
		}
	}

	if err := unix.Mkfifo(f.path, 0o600); err != nil {
		return fmt.Errorf("failed to create fifo %s: %w", f.path, err)
	}

	// Opening read-write keeps the pipe from reporting EOF whenever the last
	// writer goes away, and does not block waiting for a writer.
	file, err := os.OpenFile(f.path, os.O_RDWR, 0)
	if err != nil {
		_ = os.Remove(f.path)
		return fmt.Errorf("failed to open fifo %s: %w", f.path, err)
	}

	f.mu.Lock()
	f.file = file
	f.mu.Unlock()

	f.logger.Info("Reading commands", "fifo", f.path)
	f.host.Announce(events.FIFOSet, FIFOVariable, f.path)
	return nil
}

// Serve posts every line written to the FIFO until ctx is cancelled or Close is called.
func (f *FIFO) Serve(ctx context.Context) error {
	f.mu.Lock()
	file := f.file
	f.mu.Unlock()
	if file == nil {
		return fmt.Errorf("fifo is not open")
	}

	stop := context.AfterFunc(ctx, func() { _ = f.Close() })
	defer stop()

	err := readLines(file, func(line string) bool {
		return f.host.Post(line)
	})
	if closeErr := f.Close(); closeErr != nil {
		f.logger.Warn("Failed to clean up fifo", "error", closeErr)
	}
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to read fifo: %w", err)
	}
	return nil
}

// Close closes and removes the FIFO.
func (f *FIFO) Close() error {
	f.mu.Lock()
	file := f.file
	f.file = nil
	f.mu.Unlock()

	if file == nil {
		return nil
	}

	// The path goes first: a reader blocked on file returns as soon as it is
	// closed, and by then the FIFO must already be gone.
	var err error
	if rmErr := os.Remove(f.path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = rmErr
	}
	return errors.Join(err, file.Close())
}
