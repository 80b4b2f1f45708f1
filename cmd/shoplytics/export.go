package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shoplytics/dashboard"
	"github.com/spektr-org/shoplytics/helpers"
	"github.com/spektr-org/shoplytics/internal/bootstrap"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
	"github.com/spektr-org/shoplytics/schema"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered rows as CSV",
	Example: `  shoplytics export --out ecommerce_data.csv
  shoplytics export --start 2023-06-01 --end 2023-06-30 --category Accessories`,
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(app.Ctx, slog.String("command", cmd.CommandPath()))
		outPath, _ := cmd.Flags().GetString("out")

		c, err := controlsFromFlags(cmd, app.Dataset.Options)
		if err != nil {
			return errs.Wrap(err, "parse controls")
		}
		tables, err := resolveTables(ctx, cmd, app)
		if err != nil {
			return err
		}
		rows := dashboard.Filter(tables.View(), c)

		writer, closeFn, err := resolveWriter(cmd, outPath)
		if err != nil {
			return err
		}
		if err := helpers.WriteRowsCSV(writer, rows, schema.Describe()); err != nil {
			_ = closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return errs.Wrap(err, "close export output")
		}

		logging.Info(ctx, "rows exported", slog.Int("rows", rows.Len()), slog.String("out", outPath))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addControlFlags(exportCmd)
	exportCmd.Flags().String("out", "", "Output file path (default: stdout), e.g. "+helpers.ExportFilename)
}
