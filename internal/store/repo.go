package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

const noteColumns = `notes.id, notes.owner_id, notes.title, notes.content, notes.summary,
	notes.key_points, notes.tags, notes.sentiment_score, notes.sentiment_label,
	notes.created_at, notes.updated_at`

// Create persists a normalized payload as a new note. The store assigns
// the id and both timestamps; the caller never supplies them.
func (db *DB) Create(ctx context.Context, ownerID string, p *models.NotePayload) (*models.Note, error) {
	now := time.Now().UTC()
	n := &models.Note{
		ID:        uuid.NewString(),
		Title:     p.Title,
		Content:   p.Content,
		Summary:   p.Summary,
		KeyPoints: p.KeyPoints,
		Tags:      p.Tags,
		Sentiment: p.Sentiment,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &apperr.StoreError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	keyPointsJSON, _ := json.Marshal(nonNil(n.KeyPoints))
	tagsJSON, _ := json.Marshal(nonNil(n.Tags))

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, title, content, summary, key_points, tags,
			sentiment_score, sentiment_label, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.OwnerID, n.Title, n.Content, n.Summary, string(keyPointsJSON), string(tagsJSON),
		n.Sentiment.Score, n.Sentiment.Label, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, &apperr.StoreError{Op: "insert note", Err: err}
	}

	if err := replaceTags(ctx, tx, n.ID, n.Tags); err != nil {
		return nil, err
	}
	if err := ftsUpsert(tx, n.ID, n.Title, n.Summary, n.KeyPoints, n.Content); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &apperr.StoreError{Op: "commit", Err: err}
	}
	return n, nil
}

// Get returns a note by id, or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE notes.id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, &apperr.StoreError{Op: "get note", Err: err}
	}
	return n, nil
}

// Update replaces a note's payload fields and refreshes updated_at,
// leaving id, owner, and created_at untouched.
func (db *DB) Update(ctx context.Context, id string, p *models.NotePayload) (*models.Note, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &apperr.StoreError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	keyPointsJSON, _ := json.Marshal(nonNil(p.KeyPoints))
	tagsJSON, _ := json.Marshal(nonNil(p.Tags))

	res, err := tx.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, summary = ?, key_points = ?, tags = ?,
			sentiment_score = ?, sentiment_label = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Content, p.Summary, string(keyPointsJSON), string(tagsJSON),
		p.Sentiment.Score, p.Sentiment.Label, time.Now().UTC(), id)
	if err != nil {
		return nil, &apperr.StoreError{Op: "update note", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, apperr.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
		return nil, &apperr.StoreError{Op: "clear tags", Err: err}
	}
	if err := replaceTags(ctx, tx, id, p.Tags); err != nil {
		return nil, err
	}
	if err := ftsUpsert(tx, id, p.Title, p.Summary, p.KeyPoints, p.Content); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &apperr.StoreError{Op: "commit", Err: err}
	}
	return db.Get(ctx, id)
}

// Delete removes a note by id (hard delete). Tag rows cascade.
func (db *DB) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return &apperr.StoreError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return &apperr.StoreError{Op: "delete note", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	ftsDelete(tx, id)

	if err := tx.Commit(); err != nil {
		return &apperr.StoreError{Op: "commit", Err: err}
	}
	return nil
}

// Count returns the number of notes matching the filter, ignoring any
// pagination.
func (db *DB) Count(ctx context.Context, f Filter) (int, error) {
	q := buildQuery(f)
	var total int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes`+q.join+q.whereSQL(), q.whereArgs...).Scan(&total)
	if err != nil {
		return 0, &apperr.StoreError{Op: "count notes", Err: err}
	}
	return total, nil
}

// Find returns notes matching the filter, sorted per sortBy, windowed by
// limit and offset. The filter fragments are shared with Count so both
// observe the same predicate set.
func (db *DB) Find(ctx context.Context, f Filter, sortBy string, limit, offset int) ([]models.Note, error) {
	q := buildQuery(f)
	order, orderArgs := q.orderSQL(sortBy)

	args := make([]any, 0, len(q.whereArgs)+len(orderArgs)+2)
	args = append(args, q.whereArgs...)
	args = append(args, orderArgs...)
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes`+q.join+q.whereSQL()+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, &apperr.StoreError{Op: "find notes", Err: err}
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, &apperr.StoreError{Op: "scan note", Err: err}
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StoreError{Op: "iterate notes", Err: err}
	}
	return notes, nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, noteID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO note_tags (note_id, tag) VALUES (?, ?)`)
	if err != nil {
		return &apperr.StoreError{Op: "prepare tag insert", Err: err}
	}
	defer stmt.Close()
	for _, tag := range tags {
		if _, err := stmt.ExecContext(ctx, noteID, tag); err != nil {
			return &apperr.StoreError{Op: "insert tag", Err: err}
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*models.Note, error) {
	var (
		n             models.Note
		keyPointsJSON string
		tagsJSON      string
	)
	err := r.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.Summary,
		&keyPointsJSON, &tagsJSON, &n.Sentiment.Score, &n.Sentiment.Label,
		&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keyPointsJSON), &n.KeyPoints); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
		return nil, err
	}
	return &n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
