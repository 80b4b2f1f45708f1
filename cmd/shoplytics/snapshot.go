package main

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shoplytics/internal/bootstrap"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
	"github.com/spektr-org/shoplytics/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and list generated datasets in SQLite",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the generated tables as a new snapshot",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(app.Ctx, slog.String("command", cmd.CommandPath()))

		s, err := openStore(cmd, app)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		snap, err := s.Save(ctx, app.Dataset.Tables, app.Dataset.Options)
		if err != nil {
			logging.Error(ctx, "save snapshot failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "save snapshot")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), snap.SnapshotID)
		return err
	}),
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		s, err := openStore(cmd, app)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		snaps, err := s.List(app.Ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSEED\tRANGE\tSALES\tCUSTOMERS\tCREATED")
		for _, snap := range snaps {
			fmt.Fprintf(tw, "%s\t%d\t%s..%s\t%d\t%d\t%s\n",
				snap.SnapshotID, snap.Seed, snap.RangeStart, snap.RangeEnd,
				snap.SalesCount, snap.CustomerCount, snap.CreatedAt)
		}
		return tw.Flush()
	}),
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd)

	snapshotCmd.PersistentFlags().String("dsn", "", "SQLite path (default: dataset.snapshot_dsn)")
}

func openStore(cmd *cobra.Command, app *bootstrap.App) (*store.Store, error) {
	dsn, _ := cmd.Flags().GetString("dsn")
	if strings.TrimSpace(dsn) == "" {
		dsn = app.Config.Dataset.SnapshotDSN
	}
	s, err := store.Open(app.Ctx, dsn)
	if err != nil {
		return nil, errs.Wrap(err, "open snapshot store")
	}
	return s, nil
}
