package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/content-hub/internal/model"
)

// SQLiteStore implements DocumentStore and LocalStorage on a local SQLite
// database. Documents are stored as JSON text, one row per document.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: SQLite serializes writers, and an in-memory database
	// exists only on the connection that created it.
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

// documentRow is one row of the documents table.
type documentRow struct {
	ID   string `db:"id"`
	Data string `db:"data"`
}

// ListAll returns the documents of a collection in creation order.
func (s *SQLiteStore) ListAll(
	ctx context.Context,
	collection string,
	filter *Filter,
) ([]Record, error) {
	query := "SELECT id, data FROM documents WHERE collection = ?"
	args := []interface{}{collection}
	if filter != nil {
		query += " AND json_extract(data, '$.' || ?) = ?"
		args = append(args, filter.Field, filter.Value)
	}
	query += " ORDER BY created_at, id"

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}

	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		doc, err := decodeDocument(r.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", collection, r.ID, err)
		}
		records = append(records, Record{ID: r.ID, Data: doc})
	}
	return records, nil
}

// GetOne retrieves a single document by ID.
func (s *SQLiteStore) GetOne(
	ctx context.Context,
	collection, id string,
) (model.Document, error) {
	var data string
	err := s.db.GetContext(ctx, &data,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// SetMerge merges patch into the document, creating it when absent.
func (s *SQLiteStore) SetMerge(
	ctx context.Context,
	collection, id string,
	patch model.Document,
) error {
	return s.merge(ctx, collection, id, patch, true)
}

// UpdateFields merges patch into an existing document.
func (s *SQLiteStore) UpdateFields(
	ctx context.Context,
	collection, id string,
	patch model.Document,
) error {
	return s.merge(ctx, collection, id, patch, false)
}

func (s *SQLiteStore) merge(
	ctx context.Context,
	collection, id string,
	patch model.Document,
	create bool,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.GetContext(ctx, &existing,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if !create {
			return fmt.Errorf("updating %s/%s: %w", collection, id, ErrNotFound)
		}
		existing = "{}"
	case err != nil:
		return fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}

	doc, err := decodeDocument(existing)
	if err != nil {
		return fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	for k, v := range patch {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		collection, id, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

// Delete removes a document by ID.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// GetItem reads a value from the kv table.
func (s *SQLiteStore) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem writes a value to the kv table.
func (s *SQLiteStore) SetItem(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// decodeDocument parses stored JSON into a document. JSON null decodes to
// an empty document.
func decodeDocument(data string) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = model.Document{}
	}
	return doc, nil
}
