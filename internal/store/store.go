// Package store provides SQLite-backed note persistence with weighted
// full-text search. With the sqlite_fts5 build tag, relevance ranking is
// delegated to an FTS5 index with per-field bm25 weights; without it, a
// weighted LIKE scorer over the same fields is used instead.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/models"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id              TEXT PRIMARY KEY,
	owner_id        TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL,
	content         TEXT NOT NULL,
	summary         TEXT NOT NULL,
	key_points      TEXT NOT NULL DEFAULT '[]',
	tags            TEXT NOT NULL DEFAULT '[]',
	sentiment_score REAL NOT NULL DEFAULT 0,
	sentiment_label TEXT NOT NULL DEFAULT 'neutral',
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	tag     TEXT NOT NULL,
	UNIQUE(note_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_notes_owner_created   ON notes(owner_id, created_at);
CREATE INDEX IF NOT EXISTS idx_notes_owner_updated   ON notes(owner_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_notes_owner_sentiment ON notes(owner_id, sentiment_label);
CREATE INDEX IF NOT EXISTS idx_notes_owner_score     ON notes(owner_id, sentiment_score);
CREATE INDEX IF NOT EXISTS idx_note_tags_tag         ON note_tags(tag, note_id);
`

// NoteStore defines the persistence operations the service layer depends
// on. Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type NoteStore interface {
	Create(ctx context.Context, ownerID string, p *models.NotePayload) (*models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	Update(ctx context.Context, id string, p *models.NotePayload) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f Filter) (int, error)
	Find(ctx context.Context, f Filter, sortBy string, limit, offset int) ([]models.Note, error)
	Close() error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)

// DB wraps a sql.DB with note store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
