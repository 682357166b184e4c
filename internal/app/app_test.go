package app

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webshell/internal/comm"
	"webshell/internal/output"
	"webshell/internal/services"
	"webshell/internal/testutils"
)

const waitFor = 3 * time.Second

type failingService struct{}

func (failingService) Name() string      { return "broken" }
func (failingService) Initialize() error { return errors.New("cannot start") }

func shortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "app")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func runInstance(t *testing.T, instance *Instance) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- instance.Run(context.Background()) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("instance did not stop")
	}
}

func TestNew_ServiceFailure(t *testing.T) {
	_, err := New(Options{
		Engine:   testutils.NewFakeEngine(),
		Shell:    testutils.NewFakeShell(),
		Services: []services.Service{failingService{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot start")
}

func TestNew_DefaultsInstanceName(t *testing.T) {
	instance, err := New(Options{Engine: testutils.NewFakeEngine(), Shell: testutils.NewFakeShell()})
	require.NoError(t, err)
	assert.NotEmpty(t, instance.opts.Config.InstanceName)
	assert.NotNil(t, instance.Host())
}

func TestInstance_StdinAndConfigFile(t *testing.T) {
	dir := shortTempDir(t)
	configFile := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(configFile, []byte("# startup\nevent configured\n"), 0o600))

	engine := testutils.NewFakeEngine()
	out := output.NewCaptureBuffer()
	instance, err := New(Options{
		Config: services.Config{
			InstanceName:   "app",
			ConfigFile:     configFile,
			URI:            "https://example.com",
			RecursionLimit: 10,
		},
		Engine:      engine,
		Shell:       testutils.NewFakeShell(),
		ReadStdin:   true,
		PrintEvents: true,
		Stdin:       strings.NewReader("print from stdin\nevent done\n"),
		Stdout:      out,
	})
	require.NoError(t, err)

	waitDone(t, runInstance(t, instance))

	output := out.String()
	assert.Contains(t, output, "EVENT [app] INSTANCE_START ")
	assert.Contains(t, output, "EVENT [app] CONFIGURED\n")
	assert.Contains(t, output, "from stdin\n")
	assert.Contains(t, output, "EVENT [app] DONE\n")
	assert.Contains(t, output, "EVENT [app] INSTANCE_EXIT ")
	assert.Less(t, strings.Index(output, "CONFIGURED"), strings.Index(output, "DONE"))
	assert.Contains(t, engine.Navigated, "https://example.com")
}

func TestInstance_MissingConfigFile(t *testing.T) {
	out := output.NewCaptureBuffer()
	instance, err := New(Options{
		Config:      services.Config{InstanceName: "app", ConfigFile: filepath.Join(shortTempDir(t), "absent")},
		Engine:      testutils.NewFakeEngine(),
		Shell:       testutils.NewFakeShell(),
		ReadStdin:   true,
		PrintEvents: true,
		Stdin:       strings.NewReader(""),
		Stdout:      out,
	})
	require.NoError(t, err)

	waitDone(t, runInstance(t, instance))
	assert.Contains(t, out.String(), "INSTANCE_EXIT")
}

func TestInstance_ExitOverSocket(t *testing.T) {
	dir := shortTempDir(t)
	out := output.NewCaptureBuffer()
	instance, err := New(Options{
		Config:      services.Config{InstanceName: "sock", SocketDir: dir},
		Engine:      testutils.NewFakeEngine(),
		Shell:       testutils.NewFakeShell(),
		PrintEvents: true,
		Stdout:      out,
	})
	require.NoError(t, err)

	done := runInstance(t, instance)
	path := comm.SocketPath(dir, "sock")

	var conn net.Conn
	require.Eventually(t, func() bool {
		conn, err = net.Dial("unix", path)
		return err == nil
	}, waitFor, 10*time.Millisecond)
	defer conn.Close()

	_, err = conn.Write([]byte("exit\n"))
	require.NoError(t, err)

	waitDone(t, done)
	assert.Contains(t, out.String(), "EVENT [sock] SOCKET_SET "+path)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "socket file is removed on exit")
}

func TestInstance_ContextCancel(t *testing.T) {
	instance, err := New(Options{
		Config: services.Config{InstanceName: "cancel"},
		Engine: testutils.NewFakeEngine(),
		Shell:  testutils.NewFakeShell(),
		Stdout: output.NewCaptureBuffer(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- instance.Run(ctx) }()
	cancel()
	waitDone(t, done)
}

func TestInstance_SocketDirMissing(t *testing.T) {
	instance, err := New(Options{
		Config: services.Config{InstanceName: "bad", SocketDir: filepath.Join(shortTempDir(t), "no", "such")},
		Engine: testutils.NewFakeEngine(),
		Shell:  testutils.NewFakeShell(),
		Stdout: output.NewCaptureBuffer(),
	})
	require.NoError(t, err)

	assert.Error(t, instance.Run(context.Background()))
}
