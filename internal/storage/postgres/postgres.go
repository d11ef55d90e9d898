// Package postgres opens the PostgreSQL-backed record store through GORM's
// pgx-based dialect.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/students-crud/internal/config"
	"github.com/aanand-mishra/students-crud/internal/storage"
	"github.com/aanand-mishra/students-crud/internal/storage/migrations"
	"github.com/aanand-mishra/students-crud/internal/storage/orm"
	"github.com/jackc/pgx/v5/pgconn"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// New connects to cfg.Storage.DSN, verifies connectivity, brings the schema
// up to date, and returns a ready-to-use store.
func New(cfg *config.Config) (*orm.Store, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.Storage.DSN), &gorm.Config{
		Logger: orm.NewLogger(slog.Default(), cfg.Storage.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres.New: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Storage.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Storage.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if err := migrations.Up(sqlDB, migrations.Postgres, slog.Default()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres.New: %w", err)
	}

	return orm.New(db, translateError), nil
}

// translateError recognises PostgreSQL unique violations.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.ErrEmailExists
	}
	return nil
}
