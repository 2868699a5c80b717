// Package sqlstore persists setting values in a PostgreSQL table.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/settings"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ErrInvalidTable is returned for table names that are not plain SQL
// identifiers.
var ErrInvalidTable = errors.New("invalid settings table name")

type row struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Store keeps one row per setting key.
type Store struct {
	db     *sqlx.DB
	logger observability.Logger

	schema    string
	getOne    string
	getAll    string
	getKeys   string
	upsert    string
	deleteOne string
	deleteAll string
}

// Connect opens the database described by cfg and creates the table if
// needed.
func Connect(ctx context.Context, cfg *config.PostgresConfig, logger observability.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = config.DefaultSettingsTable
	}
	s, err := New(db, table, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New creates a store using table in db.
func New(db *sqlx.DB, table string, logger observability.Logger) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	t := pq.QuoteIdentifier(table)
	return &Store{
		db:     db,
		logger: logger,
		schema: `CREATE TABLE IF NOT EXISTS ` + t + ` (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		getOne:  `SELECT value FROM ` + t + ` WHERE key = $1`,
		getAll:  `SELECT key, value FROM ` + t,
		getKeys: `SELECT key FROM ` + t + ` ORDER BY key`,
		upsert: `INSERT INTO ` + t + ` (key, value) VALUES (:key, :value)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		deleteOne: `DELETE FROM ` + t + ` WHERE key = $1`,
		deleteAll: `DELETE FROM ` + t,
	}, nil
}

// Migrate creates the settings table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.schema); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}
	return nil
}

// GetSettingValue implements settings.Store.
func (s *Store) GetSettingValue(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.GetContext(ctx, &v, s.getOne, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", settings.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return v, nil
}

// SaveSettingValue implements settings.Store.
func (s *Store) SaveSettingValue(ctx context.Context, key, value string) error {
	if _, err := s.db.NamedExecContext(ctx, s.upsert, row{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	s.logger.Debug("setting saved", observability.String("key", key))
	return nil
}

// DeleteSettingValue implements settings.Store.
func (s *Store) DeleteSettingValue(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.deleteOne, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// GetSettingValues implements settings.Store.
func (s *Store) GetSettingValues(ctx context.Context) (map[string]string, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, s.getAll); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}
	return values, nil
}

// GetSettingKeys implements settings.Store.
func (s *Store) GetSettingKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, s.getKeys); err != nil {
		return nil, fmt.Errorf("failed to get setting keys: %w", err)
	}
	return keys, nil
}

// DeleteAll implements settings.Store.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.deleteAll); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection to the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
