// Package main provides the webshell CLI application entry point.
// webshell drives a browser page from a line-oriented command language and
// broadcasts events to every connected listener.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"webshell/internal/app"
	"webshell/internal/logger"
	"webshell/internal/output"
	"webshell/internal/services"
	"webshell/internal/version"
)

var (
	v      = viper.New()
	config = services.NewConfigurationService(v)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "webshell [URI]",
	Short: "webshell - a scriptable browser shell",
	Long: `webshell drives a browser page from a small command language.
Commands arrive on a unix socket, a FIFO, WebSocket clients, stdin or the
interactive console; events are broadcast to every connected listener.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: initConfig,
	RunE:              run,
	SilenceUsage:      true,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		output.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		output.ConfigureGlobal(output.WithWriter(os.Stderr))
		output.Error("Error: " + err.Error())
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(services.KeyName, "n", "", "Instance name used in events and endpoint paths [default: pid]")
	flags.StringP(services.KeyURI, "u", "", "Page to load at startup")
	flags.StringP(services.KeyConfig, "c", "", "Command file run at startup (- for none)")
	flags.String(services.KeySocketDir, "", "Directory of the command socket (empty string disables it)")
	flags.String(services.KeyFIFODir, "", "Directory of the command FIFO")
	flags.String(services.KeyListen, "", "Serve WebSocket clients on this address, e.g. 127.0.0.1:8765")
	flags.StringSlice(services.KeyConnectSockets, nil, "Event manager sockets to connect to")
	flags.Bool(services.KeyHeadless, true, "Run the browser without a window")
	flags.Bool(services.KeyInstallBrowser, false, "Download the browser before launching")
	flags.String(services.KeyUserAgent, "", "User agent string")
	flags.Bool(services.KeyConsole, false, "Start the interactive console")
	flags.Bool(app.KeyStdin, false, "Read commands from stdin")
	flags.Bool(app.KeyPrintEvents, false, "Print events to stdout")
	flags.BoolP(services.KeyVerbose, "v", false, "Enable debug logging")
	flags.String(services.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(services.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Int(services.KeyRecursionLimit, 50, "Maximum nesting of commands that run other commands")
	flags.Int(services.KeyReplayBuffer, 0, "Events kept for the first listener to connect")

	// Bind flags to viper
	if err := v.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		v.Set(services.KeyURI, args[0])
	}
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg, err := config.Config()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	// Configure logger with CLI flags
	if err := logger.Configure(level, cfg.LogFile, false); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Config()
	if err != nil {
		return err
	}
	if cfg.InstanceName == "" {
		cfg.InstanceName = strconv.Itoa(os.Getpid())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting webshell", "version", version.GetVersion(), "instance", cfg.InstanceName)

	instance, err := app.New(app.Options{
		Config:      cfg,
		ReadStdin:   v.GetBool(app.KeyStdin),
		PrintEvents: v.GetBool(app.KeyPrintEvents),
		Engine:      services.NewEngineService(engineOptions(cfg)),
		Shell:       services.NewShellService(),
		Services:    []services.Service{config},
	})
	if err != nil {
		logger.Error("Failed to start webshell", "error", err)
		return err
	}

	if err := instance.Run(ctx); err != nil {
		logger.Error("webshell failed", "error", err)
		return err
	}
	return nil
}

func engineOptions(cfg services.Config) services.EngineOptions {
	opts := services.DefaultEngineOptions()
	opts.Headless = cfg.Headless
	opts.UserAgent = cfg.UserAgent
	opts.Install = cfg.InstallBrowser
	return opts
}
