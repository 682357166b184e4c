package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"webshell/internal/logger"
)

// EnvPrefix is the prefix of every environment variable webshell reads.
const EnvPrefix = "WEBSHELL"

// Configuration keys shared by the command-line flags and the settings file.
const (
	KeyName           = "name"
	KeyURI            = "uri"
	KeyConfig         = "config"
	KeySocketDir      = "socket-dir"
	KeyFIFODir        = "fifo-dir"
	KeyListen         = "listen"
	KeyConnectSockets = "connect-socket"
	KeyHeadless       = "headless"
	KeyInstallBrowser = "install-browser"
	KeyUserAgent      = "useragent"
	KeyConsole        = "console"
	KeyVerbose        = "verbose"
	KeyLogLevel       = "log-level"
	KeyLogFile        = "log-file"
	KeyRecursionLimit = "recursion-limit"
	KeyReplayBuffer   = "replay-buffer"
)

// Config is the resolved startup configuration.
type Config struct {
	InstanceName   string
	URI            string
	ConfigFile     string
	SocketDir      string
	FIFODir        string
	ListenAddr     string
	ConnectSockets []string
	Headless       bool
	InstallBrowser bool
	UserAgent      string
	Console        bool
	Verbose        bool
	LogLevel       string
	LogFile        string
	RecursionLimit int
	ReplayBuffer   int
}

// ConfigPaths records which configuration sources were found.
type ConfigPaths struct {
	ConfigDir       string
	ConfigEnvPath   string
	ConfigEnvLoaded bool
	LocalEnvPath    string
	LocalEnvLoaded  bool
	SettingsFile    string
}

// ConfigurationService resolves the startup configuration.
// Priority (highest to lowest): flags > environment > local .env > config .env >
// webshell.yaml > defaults. The .env files never override variables already set.
type ConfigurationService struct {
	v           *viper.Viper
	configDir   string
	workDir     string
	config      Config
	paths       ConfigPaths
	initialized bool
}

// NewConfigurationService creates a service reading through v. Flags should be
// bound to v before Initialize is called.
func NewConfigurationService(v *viper.Viper) *ConfigurationService {
	if v == nil {
		v = viper.New()
	}
	return &ConfigurationService{v: v}
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// SetConfigDir overrides the user configuration directory.
func (c *ConfigurationService) SetConfigDir(dir string) {
	c.configDir = dir
}

// SetWorkDir overrides the directory searched for the local .env file.
func (c *ConfigurationService) SetWorkDir(dir string) {
	c.workDir = dir
}

// Initialize loads every configuration source.
func (c *ConfigurationService) Initialize() error {
	if c.initialized {
		return nil
	}

	if c.configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return err
		}
		c.configDir = dir
	}
	if c.workDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		c.workDir = dir
	}
	c.paths = ConfigPaths{ConfigDir: c.configDir}

	// Local values take priority, and godotenv never overrides, so load local first.
	localEnv := filepath.Join(c.workDir, ".env")
	loaded, err := loadDotEnv(localEnv)
	if err != nil {
		return err
	}
	c.paths.LocalEnvPath, c.paths.LocalEnvLoaded = localEnv, loaded

	configEnv := filepath.Join(c.configDir, ".env")
	loaded, err = loadDotEnv(configEnv)
	if err != nil {
		return err
	}
	c.paths.ConfigEnvPath, c.paths.ConfigEnvLoaded = configEnv, loaded

	c.setDefaults()

	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	c.v.SetConfigName("webshell")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(c.configDir)
	c.v.AddConfigPath(c.workDir)
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
	} else {
		c.paths.SettingsFile = c.v.ConfigFileUsed()
		logger.Debug("Loaded settings file", "path", c.paths.SettingsFile)
	}

	c.config = c.resolve()
	c.initialized = true
	return nil
}

func (c *ConfigurationService) setDefaults() {
	c.v.SetDefault(KeyName, "")
	c.v.SetDefault(KeyURI, "")
	c.v.SetDefault(KeyConfig, filepath.Join(c.configDir, "config"))
	c.v.SetDefault(KeySocketDir, os.TempDir())
	c.v.SetDefault(KeyFIFODir, "")
	c.v.SetDefault(KeyListen, "")
	c.v.SetDefault(KeyConnectSockets, []string{})
	c.v.SetDefault(KeyHeadless, true)
	c.v.SetDefault(KeyInstallBrowser, false)
	c.v.SetDefault(KeyUserAgent, "")
	c.v.SetDefault(KeyConsole, false)
	c.v.SetDefault(KeyVerbose, false)
	c.v.SetDefault(KeyLogLevel, "info")
	c.v.SetDefault(KeyLogFile, "")
	c.v.SetDefault(KeyRecursionLimit, 50)
	c.v.SetDefault(KeyReplayBuffer, 0)
}

func (c *ConfigurationService) resolve() Config {
	return Config{
		InstanceName:   c.v.GetString(KeyName),
		URI:            c.v.GetString(KeyURI),
		ConfigFile:     c.v.GetString(KeyConfig),
		SocketDir:      c.v.GetString(KeySocketDir),
		FIFODir:        c.v.GetString(KeyFIFODir),
		ListenAddr:     c.v.GetString(KeyListen),
		ConnectSockets: c.v.GetStringSlice(KeyConnectSockets),
		Headless:       c.v.GetBool(KeyHeadless),
		InstallBrowser: c.v.GetBool(KeyInstallBrowser),
		UserAgent:      c.v.GetString(KeyUserAgent),
		Console:        c.v.GetBool(KeyConsole),
		Verbose:        c.v.GetBool(KeyVerbose),
		LogLevel:       c.v.GetString(KeyLogLevel),
		LogFile:        c.v.GetString(KeyLogFile),
		RecursionLimit: c.v.GetInt(KeyRecursionLimit),
		ReplayBuffer:   c.v.GetInt(KeyReplayBuffer),
	}
}

// Config returns the resolved configuration.
func (c *ConfigurationService) Config() (Config, error) {
	if !c.initialized {
		return Config{}, fmt.Errorf("configuration service not initialized")
	}
	return c.config, nil
}

// Paths reports the configuration sources found during Initialize.
func (c *ConfigurationService) Paths() ConfigPaths {
	return c.paths
}

// DefaultConfigDir returns the webshell directory under the user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "webshell"), nil
}

// loadDotEnv loads path into the process environment if it exists.
func loadDotEnv(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("Loaded environment file", "path", path)
	return true, nil
}
