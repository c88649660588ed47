package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the on-device persistence layer. Every user-owned table is
// scoped by the user key given at open time; catalogs are shared.
type Store struct {
	db   *sql.DB
	user string
}

// New opens (or creates) the SQLite database at dbPath, runs migrations and
// seeds the reference catalogs. All reads and writes are scoped to userKey.
func New(dbPath, userKey string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, user: userKey}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seedCatalogs(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed catalogs: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:", "local")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// UserKey returns the key this store is scoped to.
func (s *Store) UserKey() string {
	return s.user
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS templates (
		user_key    TEXT NOT NULL,
		position    INTEGER NOT NULL,
		id          TEXT NOT NULL,
		title       TEXT NOT NULL,
		day_of_week TEXT NOT NULL,
		exercises   TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (user_key, id)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		user_key     TEXT NOT NULL,
		id           TEXT NOT NULL,
		date         TEXT NOT NULL,
		template_id  TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'in-progress',
		total_volume REAL NOT NULL DEFAULT 0,
		unit         TEXT NOT NULL DEFAULT 'kg',
		completed_at TEXT,
		exercises    TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (user_key, id)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(user_key, date);

	CREATE TABLE IF NOT EXISTS daily_logs (
		user_key TEXT NOT NULL,
		date     TEXT NOT NULL,
		steps    INTEGER NOT NULL DEFAULT 0,
		meals    TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (user_key, date)
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		muscle_group TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS foods (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		calories     REAL NOT NULL,
		protein      REAL NOT NULL,
		carbs        REAL NOT NULL,
		fat          REAL NOT NULL,
		serving_size TEXT NOT NULL DEFAULT '',
		custom       INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS goals (
		user_key               TEXT PRIMARY KEY,
		calorie_target         REAL NOT NULL,
		protein_target         REAL NOT NULL,
		fat_target             REAL NOT NULL,
		carbs_target           REAL NOT NULL,
		step_target            INTEGER NOT NULL,
		miles_target           REAL NOT NULL,
		calories_burned_target INTEGER NOT NULL,
		move_minutes_target    INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ratings (
		user_key    TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		rating      REAL NOT NULL,
		PRIMARY KEY (user_key, exercise_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		user_key TEXT NOT NULL,
		key      TEXT NOT NULL,
		value    TEXT NOT NULL,
		PRIMARY KEY (user_key, key)
	);

	CREATE TABLE IF NOT EXISTS credentials (
		user_key      TEXT PRIMARY KEY,
		access_token  TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		expires_at    TEXT NOT NULL,
		scope         TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/lockin/lockin.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "lockin", "lockin.db"), nil
}

// DefaultLogPath returns ~/.config/lockin/lockin.log
func DefaultLogPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "lockin", "lockin.log"), nil
}
