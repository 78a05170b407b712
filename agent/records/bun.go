package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresConfig carries the connection settings for the bun-backed store.
type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"8"`
	ConnTimeout  time.Duration `envconfig:"CONN_TIMEOUT" split_words:"true" default:"10s"`
}

// BunStore persists records in Postgres through bun.
type BunStore struct {
	db *bun.DB
}

// NewBunStore opens a Postgres connection and ensures the record tables
// exist.
func NewBunStore(ctx context.Context, cfg PostgresConfig) (*BunStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.ConnTimeout),
	)
	sqldb := sql.OpenDB(connector)
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	store := &BunStore{db: db}
	if err := store.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create record tables: %w", err)
	}
	return store, nil
}

func (s *BunStore) createTables(ctx context.Context) error {
	for _, model := range []any{
		(*CourseBooking)(nil),
		(*SpaBooking)(nil),
		(*LostReport)(nil),
	} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) CourseBookings(ctx context.Context, userID string) ([]CourseBooking, error) {
	var out []CourseBooking
	err := s.db.NewSelect().Model(&out).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select course bookings: %w", err)
	}
	return out, nil
}

func (s *BunStore) AddCourseBooking(ctx context.Context, b *CourseBooking) error {
	if _, err := s.db.NewInsert().Model(b).Exec(ctx); err != nil {
		return fmt.Errorf("insert course booking: %w", err)
	}
	return nil
}

func (s *BunStore) UpdateCourseBooking(ctx context.Context, b *CourseBooking) error {
	res, err := s.db.NewUpdate().Model(b).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update course booking: %w", err)
	}
	return checkAffected(res)
}

func (s *BunStore) SpaBookings(ctx context.Context, userID string) ([]SpaBooking, error) {
	var out []SpaBooking
	err := s.db.NewSelect().Model(&out).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select spa bookings: %w", err)
	}
	return out, nil
}

func (s *BunStore) AddSpaBooking(ctx context.Context, b *SpaBooking) error {
	if _, err := s.db.NewInsert().Model(b).Exec(ctx); err != nil {
		return fmt.Errorf("insert spa booking: %w", err)
	}
	return nil
}

func (s *BunStore) UpdateSpaBooking(ctx context.Context, b *SpaBooking) error {
	res, err := s.db.NewUpdate().Model(b).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update spa booking: %w", err)
	}
	return checkAffected(res)
}

func (s *BunStore) LostReports(ctx context.Context, userID string) ([]LostReport, error) {
	var out []LostReport
	err := s.db.NewSelect().Model(&out).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select lost reports: %w", err)
	}
	return out, nil
}

func (s *BunStore) AddLostReport(ctx context.Context, r *LostReport) error {
	if _, err := s.db.NewInsert().Model(r).Exec(ctx); err != nil {
		return fmt.Errorf("insert lost report: %w", err)
	}
	return nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
