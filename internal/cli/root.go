// Package cli implements the inbox-radio command line.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/di"
	"github.com/mikey/inbox-radio/internal/logging"
)

type rootOptions struct {
	configFile string
	envFile    string
	verbose    bool
	jsonLog    bool
}

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "inbox-radio",
		Short:         "Turn unread mail and today's calendar into a spoken briefing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default searches ./configs, $HOME/.inbox-radio and /etc/inbox-radio)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with credentials, ignored when missing")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonLog, "json-log", false, "output logs in JSON format")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newGmailCmd(opts))
	rootCmd.AddCommand(newInboxCmd(opts))
	rootCmd.AddCommand(newProvidersCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", dig.RootCause(err))
		os.Exit(1)
	}
}

// app is what every command needs once flags are parsed
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	container *dig.Container
}

func (o *rootOptions) setup() (*app, error) {
	if err := loadEnvFile(o.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.NewWithFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var logger *zap.Logger
	if o.verbose || o.jsonLog {
		logger, err = logging.InitConsoleLogger(o.verbose, o.jsonLog)
	} else {
		logger, err = logging.InitLogger(cfg)
	}
	if err != nil {
		return nil, err
	}
	if used := cfg.GetViper().ConfigFileUsed(); used != "" {
		logger.Debug("Loaded configuration from file", zap.String("file", used))
	}

	container, err := di.BuildContainer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency container: %w", err)
	}

	return &app{cfg: cfg, logger: logger, container: container}, nil
}

func (a *app) close() {
	err := a.container.Invoke(func(closers *di.Closers) error { return closers.Close() })
	if err != nil {
		a.logger.Warn("Failed to release resources", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// loadEnvFile loads credentials from a dotenv file without overriding the
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
