package comm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"webshell/internal/logger"
)

// ConnectSocket dials an event manager listening on the unix socket at path.
// The connection is attached as an event channel and every line the manager
// sends back is dispatched as a command. The returned channel is detached and
// closed when the manager hangs up or ctx is cancelled; done is closed then.
func ConnectSocket(ctx context.Context, host *Host, path string) (ch *ConnChannel, done <-chan struct{}, err error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}

	ch = NewConnChannel(conn, DefaultWriteTimeout)
	if !host.Attach(ch) {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("failed to attach %s: %w", path, ErrStopped)
	}
	logger.Info("Connected to event manager", "socket", path, "channel", ch.ID())

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		stop := context.AfterFunc(ctx, func() { _ = ch.Close() })
		defer stop()

		err := readLines(conn, func(line string) bool {
			return host.Post(line)
		})
		if err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Debug("Event manager read failed", "socket", path, "error", err)
		}
		host.Detach(ch)
		_ = ch.Close()
		logger.Info("Event manager disconnected", "socket", path)
	}()

	return ch, finished, nil
}
