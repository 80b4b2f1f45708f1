package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shoplytics/internal/bootstrap"
	"github.com/spektr-org/shoplytics/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API until interrupted",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(app.Ctx, slog.String("command", cmd.CommandPath()))
		logging.Info(ctx, "serving dashboard", slog.String("addr", app.Config.Server.Addr))

		<-cmd.Context().Done()
		logging.Info(ctx, "shutdown requested")
		return nil
	}, bootstrap.HTTPModule),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
