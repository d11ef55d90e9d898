// Package sqlite opens the SQLite-backed record store.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the cgo driver
// (github.com/mattn/go-sqlite3, pulled in by gorm.io/driver/sqlite).
package sqlite

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/students-crud/internal/config"
	"github.com/aanand-mishra/students-crud/internal/storage"
	"github.com/aanand-mishra/students-crud/internal/storage/migrations"
	"github.com/aanand-mishra/students-crud/internal/storage/orm"
	sqlite3 "github.com/mattn/go-sqlite3"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the database file at cfg.Storage.Path (creating its directory
// if needed), brings the schema up to date, and returns a ready-to-use store.
func New(cfg *config.Config) (*orm.Store, error) {
	path := cfg.Storage.Path

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger: orm.NewLogger(slog.Default(), cfg.Storage.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	// SQLite allows a single writer. One pooled connection makes writers
	// queue inside database/sql instead of failing with "database is locked".
	sqlDB.SetMaxOpenConns(1)

	if err := migrations.Up(sqlDB, migrations.SQLite, slog.Default()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return orm.New(db, translateError), nil
}

// translateError recognises SQLite unique-constraint failures.
func translateError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return storage.ErrEmailExists
	}
	return nil
}
