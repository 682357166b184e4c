package comm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "webshell/internal/commands/builtin"
	webcontext "webshell/internal/context"
	"webshell/internal/execution"
	"webshell/internal/testutils"
)

const waitFor = 2 * time.Second

func newTestHost(t *testing.T) *Host {
	t.Helper()

	ctx, err := webcontext.New(webcontext.Options{
		InstanceName: "testing",
		Engine:       testutils.NewFakeEngine(),
		Shell:        testutils.NewFakeShell(),
	})
	require.NoError(t, err)

	host := NewHost(NewLoop(0), execution.NewStateMachineWithDefaults(ctx), ctx)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = host.Run(runCtx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return host
}

// shortTempDir keeps unix socket paths under the platform length limit.
func shortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ws")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func variable(t *testing.T, host *Host, name string) string {
	t.Helper()
	var value string
	require.True(t, host.Do(func(ctx *webcontext.Context) {
		value = ctx.Variables().GetString(name)
	}))
	return value
}

func TestLoop_RunsTasksInOrder(t *testing.T) {
	loop := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		require.True(t, loop.Submit(func() { got = append(got, i) }))
	}
	require.True(t, loop.Do(func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	<-loop.Stopped()
	assert.False(t, loop.Submit(func() {}))
	assert.False(t, loop.Do(func() {}))
}

func TestHost_Execute(t *testing.T) {
	host := newTestHost(t)

	out, err := host.Execute("print hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = host.Execute("no_such_command")
	assert.Error(t, err)

	require.True(t, host.Post("set posted = yes"))
	assert.Equal(t, "yes", variable(t, host, "posted"))
}

func TestHost_NotifyDoesNotBlockOnFullQueue(t *testing.T) {
	ctx, err := webcontext.New(webcontext.Options{InstanceName: "testing"})
	require.NoError(t, err)
	ch := testutils.NewRecordingChannel("recorder")
	ctx.Events().Attach(ch)

	loop := NewLoop(1)
	host := NewHost(loop, execution.NewStateMachineWithDefaults(ctx), ctx)
	require.True(t, loop.TrySubmit(func() {}))
	assert.False(t, loop.TrySubmit(func() {}), "queue is full")

	notified := make(chan struct{})
	go func() {
		defer close(notified)
		host.Notify("LOAD_FINISH", "about:blank")
	}()
	select {
	case <-notified:
	case <-time.After(waitFor):
		t.Fatal("Notify blocked on a full queue")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = host.Run(runCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	assert.Eventually(t, func() bool {
		lines := ch.Lines()
		return len(lines) == 1 && lines[0] == "EVENT [testing] LOAD_FINISH about:blank"
	}, waitFor, 10*time.Millisecond)
}

func TestHost_AttachAndAnnounce(t *testing.T) {
	host := newTestHost(t)
	ch := testutils.NewRecordingChannel("recorder")

	assert.True(t, host.Attach(ch))
	assert.False(t, host.Attach(ch), "attach is idempotent")

	_, err := host.Execute("event ping one")
	require.NoError(t, err)
	assert.Equal(t, []string{"EVENT [testing] PING one"}, ch.Take())

	host.Announce("SOCKET_SET", "SOCKET", "/tmp/sock")
	assert.Equal(t, []string{"EVENT [testing] SOCKET_SET /tmp/sock"}, ch.Take())
	assert.Equal(t, "/tmp/sock", variable(t, host, "SOCKET"))

	_, _ = host.Execute("set SOCKET = elsewhere")
	assert.Equal(t, "/tmp/sock", variable(t, host, "SOCKET"))
	ch.Take()

	host.Detach(ch)
	host.Emit("AFTER")
	_, _ = host.Execute("print sync")
	assert.Empty(t, ch.Lines())
}

func TestSocketServer(t *testing.T) {
	host := newTestHost(t)
	path := SocketPath(shortTempDir(t), "testing")

	server := NewSocketServer(host, path)
	require.NoError(t, server.Listen())
	assert.Equal(t, path, variable(t, host, SocketVariable))

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()
	reader := bufio.NewReader(conn)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))

	_, err = conn.Write([]byte("print hello\n"))
	require.NoError(t, err)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "hello\n", line)

	_, err = conn.Write([]byte("event socket_test\n"))
	require.NoError(t, err)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "EVENT [testing] SOCKET_TEST\n", line)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("server did not stop")
	}

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "socket file is removed")
}

func TestSocketServer_RefusesClientsAfterClose(t *testing.T) {
	host := newTestHost(t)
	server := NewSocketServer(host, SocketPath(shortTempDir(t), "late"))
	require.NoError(t, server.Listen())
	require.NoError(t, server.Close())

	local, remote := net.Pipe()
	defer remote.Close()
	ch := NewConnChannel(local, time.Second)

	assert.False(t, server.track(ch), "a connection accepted during Close is not tracked")
	assert.Empty(t, server.clients)
	assert.NoError(t, server.Close())
}

func TestSocketServer_RefusesRegularFile(t *testing.T) {
	host := newTestHost(t)
	path := filepath.Join(shortTempDir(t), "not-a-socket")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	err := NewSocketServer(host, path).Listen()
	assert.Error(t, err)
}

func TestFIFO(t *testing.T) {
	host := newTestHost(t)
	path := FIFOPath(shortTempDir(t), "testing")

	fifo := NewFIFO(host, path)
	require.NoError(t, fifo.Create())
	assert.Equal(t, path, variable(t, host, FIFOVariable))

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- fifo.Serve(ctx) }()

	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("set from_fifo = 1\nset from_fifo = 2\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Eventually(t, func() bool {
		return variable(t, host, "from_fifo") == "2"
	}, waitFor, 10*time.Millisecond)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("fifo reader did not stop")
	}
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "fifo is removed")
}

func TestFIFO_GoneWhenServeReturns(t *testing.T) {
	host := newTestHost(t)
	dir := shortTempDir(t)

	for i := 0; i < 5; i++ {
		path := FIFOPath(dir, fmt.Sprintf("cancel%d", i))
		fifo := NewFIFO(host, path)
		require.NoError(t, fifo.Create())

		ctx, cancel := context.WithCancel(context.Background())
		served := make(chan error, 1)
		go func() { served <- fifo.Serve(ctx) }()

		cancel()
		select {
		case err := <-served:
			require.NoError(t, err)
		case <-time.After(waitFor):
			t.Fatal("fifo reader did not stop")
		}
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "run %d: fifo is removed before Serve returns", i)
		assert.NoError(t, fifo.Close(), "closing twice is harmless")
	}
}

func TestWebSocketServer(t *testing.T) {
	host := newTestHost(t)
	server := NewWebSocketServer(host, "127.0.0.1:0")

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + EventsPath
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("print over websocket")))
	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Equal(t, "over websocket", string(data))

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("set quiet = 1\nevent ws_event\n")))
	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EVENT [testing] VARIABLE_SET quiet str '1'\n", string(data))
	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EVENT [testing] WS_EVENT\n", string(data))

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
}

func TestWebSocketServer_ListenAndServe(t *testing.T) {
	host := newTestHost(t)
	server := NewWebSocketServer(host, "127.0.0.1:0")
	require.NoError(t, server.Listen())
	assert.NotEqual(t, "127.0.0.1:0", server.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), waitFor)
	defer dialCancel()
	conn, _, err := websocket.Dial(dialCtx, "ws://"+server.Addr()+EventsPath, nil)
	require.NoError(t, err)
	conn.CloseNow()

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("websocket server did not stop")
	}
}

func TestConnectSocket(t *testing.T) {
	host := newTestHost(t)
	path := filepath.Join(shortTempDir(t), "manager")

	manager, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer manager.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := manager.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	_, done, err := ConnectSocket(context.Background(), host, path)
	require.NoError(t, err)

	var peer net.Conn
	select {
	case peer = <-accepted:
	case <-time.After(waitFor):
		t.Fatal("manager did not accept")
	}
	reader := bufio.NewReader(peer)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(waitFor)))

	host.Emit("HELLO_MANAGER")
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "EVENT [testing] HELLO_MANAGER\n", line)

	_, err = peer.Write([]byte("set from_manager = ok\n"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return variable(t, host, "from_manager") == "ok"
	}, waitFor, 10*time.Millisecond)

	require.NoError(t, peer.Close())
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("connection was not torn down")
	}
}

func TestConnectSocket_NoManager(t *testing.T) {
	host := newTestHost(t)
	_, _, err := ConnectSocket(context.Background(), host, filepath.Join(shortTempDir(t), "missing"))
	assert.Error(t, err)
}

func TestReply(t *testing.T) {
	assert.Equal(t, "", reply(""))
	assert.Equal(t, "x\n", reply("x"))
	assert.Equal(t, "x\n", reply("x\n"))
}

func TestConnChannel_WriteAfterClose(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	ch := NewConnChannel(a, 0)
	assert.NotEmpty(t, ch.ID())
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	_, err := ch.Write([]byte("late\n"))
	assert.True(t, errors.Is(err, net.ErrClosed))
}

func TestServeReader(t *testing.T) {
	host := newTestHost(t)

	var out strings.Builder
	input := "print one\n\n# comment\nset silent = 1\nprint two\r\n"
	require.NoError(t, ServeReader(host, strings.NewReader(input), &out))
	assert.Equal(t, "one\ntwo\n", out.String())
	assert.Equal(t, "1", variable(t, host, "silent"))
}
