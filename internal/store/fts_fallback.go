//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; text search uses the weighted LIKE scorer below.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string, _ []string, _ string) error {
	// Searchable fields already live in the notes table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// textPredicate builds a tokenized LIKE predicate with static per-field
// weights (title 10, summary 8, key points 6, content 4) summed into a
// relevance score. This is the equivalent of the FTS5 index for builds
// without it: coarser ranking, same field priorities.
func textPredicate(query string) (join, where, rankOrder string, whereArgs, rankArgs []any) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return "", "", "", nil, nil
	}

	matchParts := make([]string, 0, len(tokens))
	scoreParts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		like := "%" + tok + "%"
		matchParts = append(matchParts,
			"(notes.title LIKE ? OR notes.summary LIKE ? OR notes.key_points LIKE ? OR notes.content LIKE ?)")
		whereArgs = append(whereArgs, like, like, like, like)
		scoreParts = append(scoreParts,
			"(CASE WHEN notes.title LIKE ? THEN 10 ELSE 0 END"+
				" + CASE WHEN notes.summary LIKE ? THEN 8 ELSE 0 END"+
				" + CASE WHEN notes.key_points LIKE ? THEN 6 ELSE 0 END"+
				" + CASE WHEN notes.content LIKE ? THEN 4 ELSE 0 END)")
		rankArgs = append(rankArgs, like, like, like, like)
	}

	where = "(" + strings.Join(matchParts, " OR ") + ")"
	rankOrder = "(" + strings.Join(scoreParts, " + ") + ") DESC"
	return "", where, rankOrder, whereArgs, rankArgs
}
