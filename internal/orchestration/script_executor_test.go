package orchestration_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "webshell/internal/commands/builtin"
	webcontext "webshell/internal/context"
	"webshell/internal/execution"
	"webshell/internal/orchestration"
	"webshell/internal/testutils"
	"webshell/pkg/webtypes"
)

func newContext(t *testing.T) *webcontext.Context {
	t.Helper()
	ctx, err := webcontext.New(webcontext.Options{
		InstanceName: "script",
		Engine:       testutils.NewFakeEngine(),
		Shell:        testutils.NewFakeShell(),
	})
	require.NoError(t, err)
	execution.NewStateMachineWithDefaults(ctx)
	return ctx
}

func TestExecuteScript(t *testing.T) {
	fh := testutils.NewFileHelpers()
	path := fh.CreateTempFile(t, "startup", testutils.CommandScript(
		"# startup file",
		"",
		"set greeting = hello",
		"   ",
		"print @greeting",
		"no_such_command",
		"print done",
	))

	ctx := newContext(t)
	result := webtypes.NewResult()

	count, err := orchestration.ExecuteScript(path, ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 4, count, "blank lines and comments are not counted")
	assert.Equal(t, "hellodone", result.String(), "a failing line does not stop the script")
	assert.Equal(t, "hello", ctx.Variables().GetString("greeting"))
}

func TestExecuteScript_MissingFile(t *testing.T) {
	count, err := orchestration.ExecuteScript("/no/such/startup", newContext(t), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load script")
	assert.Zero(t, count)
}

func TestExecuteReader(t *testing.T) {
	ctx := newContext(t)
	ch := testutils.NewRecordingChannel("recorder")
	ctx.Events().Attach(ch)

	count, err := orchestration.ExecuteReader(strings.NewReader(testutils.CommandScript(testutils.GenerateSetCommands(3)...)), ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, ch.Take(), 3)
}

func TestExecuteReader_NoDispatcher(t *testing.T) {
	ctx, err := webcontext.New(webcontext.Options{InstanceName: "bare"})
	require.NoError(t, err)

	count, err := orchestration.ExecuteReader(strings.NewReader("set x = 1\n"), ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, ctx.Variables().GetString("x"))
}
