package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/packlist/internal/apperrors"
)

// SQLiteStore implements the Store interface using a local SQLite database,
// one row per document.
type SQLiteStore struct {
	db *sqlx.DB
}

func sqlitePath(dir string) string {
	return filepath.Join(dir, "packlist.db")
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Put replaces the document body in a single statement.
func (s *SQLiteStore) Put(ctx context.Context, doc Document, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)`,
		string(doc), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing document %s: %w", doc, err)
	}
	return nil
}

// Get returns the document body.
func (s *SQLiteStore) Get(ctx context.Context, doc Document) ([]byte, error) {
	var body string
	err := s.db.GetContext(ctx, &body,
		"SELECT body FROM documents WHERE name = ?", string(doc))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", doc, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("reading document %s: %w", doc, err)
	}
	return []byte(body), nil
}

// UpdatedAt returns when the document was last written.
func (s *SQLiteStore) UpdatedAt(ctx context.Context, doc Document) (time.Time, error) {
	var at time.Time
	err := s.db.GetContext(ctx, &at,
		"SELECT updated_at FROM documents WHERE name = ?", string(doc))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("document %s: %w", doc, apperrors.ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("reading document %s: %w", doc, err)
	}
	return at, nil
}
