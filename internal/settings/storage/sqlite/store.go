// Package sqlite provides a SQLite-backed settings store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
	"github.com/louisbranch/dice-instructor/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dice-instructor/internal/settings"
	"github.com/louisbranch/dice-instructor/internal/settings/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// settingsRowID is the only row of instructor_settings.
const settingsRowID = 1

// Store persists instructor settings in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ settings.Store = (*Store)(nil)

// Open opens a SQLite settings store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the saved settings, if any.
func (s *Store) Load(ctx context.Context) (settings.Settings, bool, error) {
	if err := ctx.Err(); err != nil {
		return settings.Settings{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return settings.Settings{}, false, fmt.Errorf("storage is not configured")
	}

	var (
		availableDice string
		maxRollCount  int
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT available_dice, max_roll_count FROM instructor_settings WHERE id = ?`,
		settingsRowID,
	).Scan(&availableDice, &maxRollCount)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, false, nil
	}
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("load settings: %w", err)
	}

	dice, err := settings.ParseDiceList(availableDice)
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("decode available dice: %w", err)
	}
	loaded, err := settings.New(dice, maxRollCount)
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	return loaded, true, nil
}

// Save replaces the saved settings.
func (s *Store) Save(ctx context.Context, value settings.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO instructor_settings (id, available_dice, max_roll_count, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   available_dice = excluded.available_dice,
		   max_roll_count = excluded.max_roll_count,
		   updated_at = excluded.updated_at`,
		settingsRowID,
		settings.FormatDiceList(value.AvailableDice()),
		value.MaxRollCount(),
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSettingsStoreFailed, "save settings", err)
	}
	return nil
}
