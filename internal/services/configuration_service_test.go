package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigService(t *testing.T) (*ConfigurationService, string, string) {
	t.Helper()
	configDir := t.TempDir()
	workDir := t.TempDir()

	c := NewConfigurationService(viper.New())
	c.SetConfigDir(configDir)
	c.SetWorkDir(workDir)
	return c, configDir, workDir
}

func TestConfigurationService_Name(t *testing.T) {
	assert.Equal(t, "configuration", NewConfigurationService(nil).Name())
}

func TestConfigurationService_NotInitialized(t *testing.T) {
	_, err := NewConfigurationService(nil).Config()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestConfigurationService_Defaults(t *testing.T) {
	c, configDir, _ := newConfigService(t)
	require.NoError(t, c.Initialize())

	cfg, err := c.Config()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(configDir, "config"), cfg.ConfigFile)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Console)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 50, cfg.RecursionLimit)
	assert.Equal(t, 0, cfg.ReplayBuffer)
	assert.Empty(t, cfg.ConnectSockets)

	paths := c.Paths()
	assert.False(t, paths.ConfigEnvLoaded)
	assert.False(t, paths.LocalEnvLoaded)
	assert.Empty(t, paths.SettingsFile)
}

func TestConfigurationService_SettingsFile(t *testing.T) {
	c, configDir, _ := newConfigService(t)

	settings := "name: from-yaml\nuri: https://example.org/\nheadless: false\nrecursion-limit: 10\nconnect-socket:\n  - /tmp/a.sock\n  - /tmp/b.sock\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "webshell.yaml"), []byte(settings), 0o644))
	require.NoError(t, c.Initialize())

	cfg, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.InstanceName)
	assert.Equal(t, "https://example.org/", cfg.URI)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 10, cfg.RecursionLimit)
	assert.Equal(t, []string{"/tmp/a.sock", "/tmp/b.sock"}, cfg.ConnectSockets)
	assert.Equal(t, filepath.Join(configDir, "webshell.yaml"), c.Paths().SettingsFile)
}

func TestConfigurationService_InvalidSettingsFile(t *testing.T) {
	c, configDir, _ := newConfigService(t)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "webshell.yaml"), []byte("name: [unclosed\n"), 0o644))

	err := c.Initialize()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestConfigurationService_Priority(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		configEnv string
		localEnv  string
		osEnv     string
		expected  string
	}{
		{name: "settings file only", yaml: "yaml", expected: "yaml"},
		{name: "config .env over settings file", yaml: "yaml", configEnv: "config-env", expected: "config-env"},
		{name: "local .env over config .env", configEnv: "config-env", localEnv: "local-env", expected: "local-env"},
		{name: "environment over everything", yaml: "yaml", configEnv: "config-env", localEnv: "local-env", osEnv: "os", expected: "os"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, configDir, workDir := newConfigService(t)

			// t.Setenv restores the variable after the test, including values set by godotenv.
			t.Setenv("WEBSHELL_USERAGENT", tt.osEnv)
			if tt.osEnv == "" {
				require.NoError(t, os.Unsetenv("WEBSHELL_USERAGENT"))
			}

			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(filepath.Join(configDir, "webshell.yaml"), []byte("useragent: "+tt.yaml+"\n"), 0o644))
			}
			if tt.configEnv != "" {
				require.NoError(t, os.WriteFile(filepath.Join(configDir, ".env"), []byte("WEBSHELL_USERAGENT="+tt.configEnv+"\n"), 0o644))
			}
			if tt.localEnv != "" {
				require.NoError(t, os.WriteFile(filepath.Join(workDir, ".env"), []byte("WEBSHELL_USERAGENT="+tt.localEnv+"\n"), 0o644))
			}

			require.NoError(t, c.Initialize())
			cfg, err := c.Config()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.UserAgent)
			assert.Equal(t, tt.configEnv != "", c.Paths().ConfigEnvLoaded)
			assert.Equal(t, tt.localEnv != "", c.Paths().LocalEnvLoaded)
		})
	}
}

func TestConfigurationService_EnvironmentKeys(t *testing.T) {
	c, _, _ := newConfigService(t)

	t.Setenv("WEBSHELL_SOCKET_DIR", "/run/webshell")
	t.Setenv("WEBSHELL_RECURSION_LIMIT", "7")
	t.Setenv("WEBSHELL_CONSOLE", "true")
	require.NoError(t, c.Initialize())

	cfg, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, "/run/webshell", cfg.SocketDir)
	assert.Equal(t, 7, cfg.RecursionLimit)
	assert.True(t, cfg.Console)
}

func TestConfigurationService_FlagsWin(t *testing.T) {
	v := viper.New()
	c := NewConfigurationService(v)
	c.SetConfigDir(t.TempDir())
	c.SetWorkDir(t.TempDir())

	t.Setenv("WEBSHELL_NAME", "from-env")
	v.Set(KeyName, "from-flag")
	require.NoError(t, c.Initialize())

	cfg, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.InstanceName)
}

func TestConfigurationService_InitializeTwice(t *testing.T) {
	c, _, _ := newConfigService(t)
	require.NoError(t, c.Initialize())
	require.NoError(t, c.Initialize())
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "webshell", filepath.Base(dir))
}
