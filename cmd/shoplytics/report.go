package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/shoplytics/dashboard"
	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/helpers"
	"github.com/spektr-org/shoplytics/internal/bootstrap"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the dashboard once and print it",
	Example: `  shoplytics report --format pretty
  shoplytics report --category Electronics --group Monthly --format yaml
  shoplytics report --region North --region East --format csv --out regions.csv`,
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(app.Ctx, slog.String("command", cmd.CommandPath()))

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		format = strings.ToLower(strings.TrimSpace(format))
		switch format {
		case "json", "pretty", "yaml", "csv":
		default:
			return fmt.Errorf("unsupported format %q (expected: json|pretty|yaml|csv)", format)
		}

		c, err := controlsFromFlags(cmd, app.Dataset.Options)
		if err != nil {
			return errs.Wrap(err, "parse controls")
		}
		tables, err := resolveTables(ctx, cmd, app)
		if err != nil {
			return err
		}

		d := dashboard.Build(ctx, tables.View(), c)

		writer, closeFn, err := resolveWriter(cmd, outPath)
		if err != nil {
			return err
		}
		if err := writeReport(writer, d, format); err != nil {
			_ = closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return errs.Wrap(err, "close report output")
		}

		logging.Info(ctx, "report written", slog.String("format", format), slog.Int("rows", d.RowCount))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addControlFlags(reportCmd)
	reportCmd.Flags().String("format", "json", "Output format: json|pretty|yaml|csv")
	reportCmd.Flags().String("out", "", "Output file path (default: stdout)")
}

func writeReport(w io.Writer, d *dashboard.Dashboard, format string) error {
	switch format {
	case "pretty":
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return errs.Wrap(err, "marshal report")
		}
		_, err = fmt.Fprintln(w, string(out))
		return errs.Wrap(err, "write report")

	case "yaml":
		// Round-trip through JSON so YAML keys match the API's field names.
		raw, err := json.Marshal(d)
		if err != nil {
			return errs.Wrap(err, "marshal report")
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return errs.Wrap(err, "decode report")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errs.Wrap(err, "encode yaml report")
		}
		return errs.Wrap(enc.Close(), "close yaml encoder")

	case "csv":
		return writeReportCSV(w, d)

	default:
		out, err := json.Marshal(d)
		if err != nil {
			return errs.Wrap(err, "marshal report")
		}
		_, err = fmt.Fprintln(w, string(out))
		return errs.Wrap(err, "write report")
	}
}

// writeReportCSV writes the KPI cards and every summary table, separated by
// blank lines.
func writeReportCSV(w io.Writer, d *dashboard.Dashboard) error {
	kpis := &engine.TableData{
		Columns: []engine.Column{{Key: "metric", Label: "Metric"}, {Key: "value", Label: "Value"}},
		Rows: [][]string{
			{"Total Revenue", d.KPIs.Formatted["totalRevenue"]},
			{"Total Orders", d.KPIs.Formatted["totalOrders"]},
			{"Avg. Order Value", d.KPIs.Formatted["avgOrderValue"]},
			{"Unique Customers", d.KPIs.Formatted["uniqueCustomers"]},
		},
	}

	sections := []*engine.TableData{
		kpis,
		d.Overview.CategoryTable,
		d.Products.Table,
		d.Customers.TierTable,
		d.Geography.Table,
	}
	for i, t := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return errs.Wrap(err, "write report")
			}
		}
		if err := helpers.WriteTableCSV(w, t); err != nil {
			return err
		}
	}

	if d.Overview.Trend != nil {
		if _, err := fmt.Fprintln(w); err != nil {
			return errs.Wrap(err, "write report")
		}
		return helpers.WriteChartCSV(w, d.Overview.Trend)
	}
	return nil
}
