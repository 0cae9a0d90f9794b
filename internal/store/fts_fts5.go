//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// Per-field relevance weights for the text index: title outranks summary,
// which outranks key points, which outranks body content.
const bm25Weights = "0.0, 10.0, 8.0, 6.0, 4.0" // id (unindexed), title, summary, key_points, content

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			id UNINDEXED,
			title,
			summary,
			key_points,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id, title, summary string, keyPoints []string, content string) error {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id)
	_, err := tx.Exec(`INSERT INTO notes_fts (id, title, summary, key_points, content) VALUES (?, ?, ?, ?, ?)`,
		id, title, summary, strings.Join(keyPoints, "\n"), content)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id)
}

// textPredicate builds the full-text predicate against the FTS5 index.
// bm25 returns more-negative values for better matches, so ascending
// order ranks best first.
func textPredicate(query string) (join, where, rankOrder string, whereArgs, rankArgs []any) {
	join = " JOIN notes_fts ON notes_fts.id = notes.id"
	where = "notes_fts MATCH ?"
	rankOrder = "bm25(notes_fts, " + bm25Weights + ") ASC"
	whereArgs = []any{ftsQuery(query)}
	return join, where, rankOrder, whereArgs, nil
}

// ftsQuery rewrites free text into an FTS5 OR-query of quoted terms, so
// user input is never parsed as FTS5 syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " OR ")
}
