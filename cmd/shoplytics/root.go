package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
)

const version = "0.3.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "shoplytics",
	Short:        "E-commerce analytics dashboard",
	Long:         "Generates a year of synthetic sales, joins customer profiles, and serves filterable KPIs, charts and CSV exports.",
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command with ctx as the base context.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	ctx = logging.WithLogger(ctx, logging.New(rootCmd.ErrOrStderr(), "info"))
	ctx = logging.WithAttrs(ctx, slog.String("app", "shoplytics"))

	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: ./configs/config.yaml if present)")
}
