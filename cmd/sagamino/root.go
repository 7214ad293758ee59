package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sagamino/internal/config"
	"sagamino/internal/survey"
)

var (
	configPath string
	logLevel   string
	logFile    string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "sagamino",
	Short:        "Animate the Sagamino baseline triangulation network",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.Log.File = logFile
		}
		return cfg.Validate()
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sagamino.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
}

// newLogger opens the configured log file, falling back to fallback when
// none is set. The returned close func is never nil.
func newLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	out := fallback
	closeFn := func() error { return nil }
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func loadRegistry(logger *slog.Logger) (*survey.Registry, error) {
	if cfg.Catalogue.Path == "" {
		return survey.Sagamino(), nil
	}
	reg, err := survey.Load(cfg.Catalogue.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("catalogue loaded", "path", cfg.Catalogue.Path, "points", len(reg.AllPoints()))
	return reg, nil
}
