package main

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shoplytics/dashboard"
	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/internal/bootstrap"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/store"
)

// addControlFlags registers the dashboard sidebar controls on cmd.
func addControlFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Start date, YYYY-MM-DD (default: first generated day)")
	cmd.Flags().String("end", "", "End date, YYYY-MM-DD (default: last generated day)")
	cmd.Flags().StringSlice("category", nil, "Categories to include; an empty value selects none")
	cmd.Flags().StringSlice("product", nil, "Products to include; an empty value selects none")
	cmd.Flags().StringSlice("region", nil, "Regions to include; an empty value selects none")
	cmd.Flags().String("group", dashboard.GroupDaily, "Trend grouping: Daily|Weekly|Monthly")
	cmd.Flags().Bool("raw", false, "Include the raw data preview")
	cmd.Flags().String("snapshot", "", "Read tables from a saved snapshot id, or 'latest'")
}

// controlsFromFlags maps flags onto the same query parameters the HTTP API
// takes, so both surfaces share one parser.
func controlsFromFlags(cmd *cobra.Command, opts dataset.Options) (dashboard.Controls, error) {
	q := url.Values{}
	for _, name := range []string{"start", "end", "group"} {
		if v, _ := cmd.Flags().GetString(name); strings.TrimSpace(v) != "" {
			q.Set(name, v)
		}
	}
	for _, name := range []string{"category", "product", "region"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		values, _ := cmd.Flags().GetStringSlice(name)
		if len(values) == 0 {
			values = []string{""}
		}
		q[name] = values
	}
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		q.Set("raw", strconv.FormatBool(raw))
	}

	return dashboard.ParseControls(q, dashboard.DefaultControls(opts))
}

// resolveTables returns the app's generated tables, or a saved snapshot when
// --snapshot is set.
func resolveTables(ctx context.Context, cmd *cobra.Command, app *bootstrap.App) (*dataset.Tables, error) {
	ref, _ := cmd.Flags().GetString("snapshot")
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return app.Dataset.Tables, nil
	}

	s, err := store.Open(ctx, app.Config.Dataset.SnapshotDSN)
	if err != nil {
		return nil, errs.Wrap(err, "open snapshot store")
	}
	defer func() { _ = s.Close() }()

	if ref == "latest" {
		snap, err := s.Latest(ctx)
		if err != nil {
			return nil, errs.Wrap(err, "find latest snapshot")
		}
		ref = snap.SnapshotID
	}
	tables, err := s.Load(ctx, ref)
	if err != nil {
		return nil, errs.Wrap(err, "load snapshot")
	}
	return tables, nil
}
