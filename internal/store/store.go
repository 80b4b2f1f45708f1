// Package store persists generated tables to SQLite so a dataset can be
// reloaded exactly as it was served.
package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
)

const batchSize = 500

var ErrSnapshotNotFound = errors.New("snapshot not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the SQLite file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "store"))

	if err := ensureSQLiteDirectory(dsn); err != nil {
		return nil, errs.Wrap(err, "ensure sqlite directory")
	}

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errs.Wrap(err, "open sqlite db")
	}
	logging.Info(logCtx, "database opened", slog.String("driver", "sqlite"), slog.String("dsn", dsn))

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Snapshot{}, &Sale{}, &Customer{}); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	return errs.Wrap(sqlDB.Close(), "close sql db")
}

// Save writes both tables under a new snapshot id in one transaction.
func (s *Store) Save(ctx context.Context, t *dataset.Tables, opts dataset.Options) (Snapshot, error) {
	if ctx == nil {
		return Snapshot{}, errors.New("context is required")
	}
	if t == nil {
		return Snapshot{}, errors.New("tables are required")
	}

	snap := Snapshot{
		SnapshotID:    uuid.NewString(),
		Seed:          opts.Seed,
		RangeStart:    opts.Start.Format(engine.DateLayout),
		RangeEnd:      opts.End.Format(engine.DateLayout),
		SalesCount:    len(t.Sales),
		CustomerCount: len(t.Customers),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	sales := make([]Sale, len(t.Sales))
	for i, e := range t.Sales {
		sales[i] = Sale{
			SnapshotID: snap.SnapshotID,
			Seq:        i,
			Date:       e.Date.Format(engine.DateLayout),
			Product:    e.Product,
			Category:   e.Category,
			Price:      e.Price,
			Quantity:   e.Quantity,
			Revenue:    e.Revenue,
			Discount:   e.Discount,
			Region:     e.Region,
			CustomerID: e.CustomerID,
		}
	}
	customers := make([]Customer, len(t.Customers))
	for i, c := range t.Customers {
		customers[i] = Customer{
			SnapshotID:  snap.SnapshotID,
			CustomerID:  c.CustomerID,
			Seq:         i,
			Age:         c.Age,
			Gender:      c.Gender,
			JoinDate:    c.JoinDate.Format(engine.DateLayout),
			LoyaltyTier: c.LoyaltyTier,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&snap).Error; err != nil {
			return errs.Wrap(err, "insert snapshot")
		}
		if len(sales) > 0 {
			if err := tx.CreateInBatches(sales, batchSize).Error; err != nil {
				return errs.Wrap(err, "insert sales")
			}
		}
		if len(customers) > 0 {
			if err := tx.CreateInBatches(customers, batchSize).Error; err != nil {
				return errs.Wrap(err, "insert customers")
			}
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "store")), "snapshot saved",
		slog.String("snapshot_id", snap.SnapshotID),
		slog.Int("sales", snap.SalesCount),
		slog.Int("customers", snap.CustomerCount))
	return snap, nil
}

// Latest returns the most recently created snapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("rowid DESC").Take(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, errs.Wrap(err, "query latest snapshot")
	}
	return snap, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	var snaps []Snapshot
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("rowid DESC").Find(&snaps).Error; err != nil {
		return nil, errs.Wrap(err, "list snapshots")
	}
	return snaps, nil
}

// Load rebuilds the tables of a snapshot in their original order.
func (s *Store) Load(ctx context.Context, snapshotID string) (*dataset.Tables, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	id := strings.TrimSpace(snapshotID)
	if id == "" {
		return nil, errors.New("snapshot id is required")
	}

	db := s.db.WithContext(ctx)

	var snap Snapshot
	if err := db.Where("snapshot_id = ?", id).Take(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Wrapf(ErrSnapshotNotFound, "%s", id)
		}
		return nil, errs.Wrap(err, "query snapshot")
	}

	var sales []Sale
	if err := db.Where("snapshot_id = ?", id).Order("seq").Find(&sales).Error; err != nil {
		return nil, errs.Wrap(err, "query sales")
	}
	var customers []Customer
	if err := db.Where("snapshot_id = ?", id).Order("seq").Find(&customers).Error; err != nil {
		return nil, errs.Wrap(err, "query customers")
	}

	t := &dataset.Tables{
		Sales:     make([]dataset.SalesEvent, len(sales)),
		Customers: make([]dataset.Customer, len(customers)),
	}
	for i, r := range sales {
		day, err := time.Parse(engine.DateLayout, r.Date)
		if err != nil {
			return nil, errs.Wrapf(err, "parse sale %d date", r.SaleID)
		}
		t.Sales[i] = dataset.SalesEvent{
			Date:       day,
			Product:    r.Product,
			Category:   r.Category,
			Price:      r.Price,
			Quantity:   r.Quantity,
			Revenue:    r.Revenue,
			Discount:   r.Discount,
			Region:     r.Region,
			CustomerID: r.CustomerID,
		}
	}
	for i, r := range customers {
		joined, err := time.Parse(engine.DateLayout, r.JoinDate)
		if err != nil {
			return nil, errs.Wrapf(err, "parse customer %d join date", r.CustomerID)
		}
		t.Customers[i] = dataset.Customer{
			CustomerID:  r.CustomerID,
			Age:         r.Age,
			Gender:      r.Gender,
			JoinDate:    joined,
			LoyaltyTier: r.LoyaltyTier,
		}
	}
	return t, nil
}

func ensureSQLiteDirectory(dsn string) error {
	candidate := strings.TrimSpace(dsn)
	if candidate == "" || candidate == ":memory:" {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(candidate), "file:") {
		candidate = strings.TrimPrefix(candidate, "file:")
	}
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrapf(err, "create sqlite directory %q", dir)
	}
	return nil
}
