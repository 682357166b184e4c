package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_LevelPrecedence(t *testing.T) {
	t.Setenv("WEBSHELL_LOG_LEVEL", "warn")

	require.NoError(t, Configure("", "", false))
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())

	require.NoError(t, Configure("debug", "", false))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	require.NoError(t, Configure("error", "", true))
	assert.Equal(t, log.InfoLevel, Logger.GetLevel(), "test mode pins the level")
}

func TestConfigure_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webshell.log")

	require.NoError(t, Configure("info", path, false))
	Info("hello from test", "key", "value")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")

	require.NoError(t, Configure("info", "", false))
}

func TestSetLevel_UpdatesComponentLoggers(t *testing.T) {
	require.NoError(t, Configure("info", "", false))
	component := NewStyledLogger("Test")
	assert.Equal(t, log.InfoLevel, component.GetLevel())

	SetLevel("debug")
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())
	assert.Equal(t, log.DebugLevel, component.GetLevel())

	SetLevel("bogus")
	assert.Equal(t, log.InfoLevel, component.GetLevel())
}
