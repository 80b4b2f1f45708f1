package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spektr-org/shoplytics/dataset"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "snapshot.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func smallOptions() dataset.Options {
	opts := dataset.DefaultOptions()
	opts.Seed = 11
	opts.End = time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	return opts
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	opts := smallOptions()
	tables := dataset.Generate(opts)

	snap, err := s.Save(ctx, tables, opts)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.SnapshotID == "" || snap.SalesCount != len(tables.Sales) || snap.CustomerCount != len(tables.Customers) {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.RangeStart != "2023-01-01" || snap.RangeEnd != "2023-01-31" || snap.Seed != 11 {
		t.Fatalf("snapshot range = %+v", snap)
	}

	loaded, err := s.Load(ctx, snap.SnapshotID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded.Sales, tables.Sales) {
		t.Fatal("sales differ after round trip")
	}
	if !reflect.DeepEqual(loaded.Customers, tables.Customers) {
		t.Fatal("customers differ after round trip")
	}
	if len(loaded.Rows()) != len(tables.Rows()) {
		t.Fatalf("joined rows = %d, want %d", len(loaded.Rows()), len(tables.Rows()))
	}
}

func TestLatestAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if _, err := s.Latest(ctx); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("Latest() on empty store = %v", err)
	}

	opts := smallOptions()
	tables := dataset.Generate(opts)
	first, err := s.Save(ctx, tables, opts)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := s.Save(ctx, tables, opts)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.SnapshotID != second.SnapshotID {
		t.Fatalf("Latest() = %s, want %s", latest.SnapshotID, second.SnapshotID)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 || all[1].SnapshotID != first.SnapshotID {
		t.Fatalf("List() = %+v", all)
	}
}

func TestLoadUnknownSnapshot(t *testing.T) {
	s := setupStore(t)
	if _, err := s.Load(context.Background(), "does-not-exist"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := s.Load(context.Background(), "  "); err == nil {
		t.Fatal("Load() expected error for blank id")
	}
}
