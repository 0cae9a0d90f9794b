package store

import (
	"strings"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// Filter is the store-native form of a search request's predicate set.
// Zero-valued fields contribute no predicate. OwnerID is carried as a
// first-class predicate even while the handlers pass a placeholder, so
// owner scoping can be enforced without restructuring the builder.
type Filter struct {
	OwnerID   string
	Query     string
	Tags      []string
	Sentiment string
	From      *time.Time
	To        *time.Time
}

// FilterFromRequest extracts the predicate set from a search request.
func FilterFromRequest(req *models.SearchRequest, ownerID string) Filter {
	f := Filter{
		OwnerID:   ownerID,
		Query:     strings.TrimSpace(req.Query),
		Tags:      req.Tags,
		Sentiment: req.Sentiment,
	}
	if req.DateRange != nil {
		f.From = req.DateRange.From
		f.To = req.DateRange.To
	}
	return f
}

// builtQuery is the assembled SQL fragments for one filter. The same
// fragments back both the count and the fetch so the two always observe
// an identical predicate set.
type builtQuery struct {
	join      string   // text-search join, empty when no query
	where     []string // AND-combined predicates
	whereArgs []any
	rankOrder string // ORDER BY fragment ranking by text relevance, best first
	rankArgs  []any
}

// buildQuery translates a Filter into SQL fragments. All active
// predicates are AND-combined. At most one full-text predicate is added
// per request, over {title, summary, keyPoints, content} with static
// weights 10/8/6/4.
func buildQuery(f Filter) builtQuery {
	var q builtQuery

	if f.OwnerID != "" {
		q.where = append(q.where, "notes.owner_id = ?")
		q.whereArgs = append(q.whereArgs, f.OwnerID)
	}

	if f.Query != "" {
		join, where, rank, whereArgs, rankArgs := textPredicate(f.Query)
		q.join = join
		if where != "" {
			q.where = append(q.where, where)
			q.whereArgs = append(q.whereArgs, whereArgs...)
		}
		q.rankOrder = rank
		q.rankArgs = rankArgs
	}

	if len(f.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Tags)), ",")
		q.where = append(q.where,
			"EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = notes.id AND nt.tag IN ("+placeholders+"))")
		for _, t := range f.Tags {
			q.whereArgs = append(q.whereArgs, t)
		}
	}

	if f.Sentiment != "" {
		q.where = append(q.where, "notes.sentiment_label = ?")
		q.whereArgs = append(q.whereArgs, f.Sentiment)
	}

	if f.From != nil {
		q.where = append(q.where, "notes.created_at >= ?")
		q.whereArgs = append(q.whereArgs, f.From.UTC())
	}
	if f.To != nil {
		q.where = append(q.where, "notes.created_at <= ?")
		q.whereArgs = append(q.whereArgs, f.To.UTC())
	}

	return q
}

// whereSQL renders the WHERE clause, or an empty string when the filter
// has no predicates.
func (q builtQuery) whereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// orderSQL renders the ORDER BY clause for the given sort order together
// with its bind args. Relevance ordering silently degrades to
// date-descending when the filter carries no text query; callers rely on
// that fallback. A trailing id tiebreak keeps identical searches
// returning identical order.
func (q builtQuery) orderSQL(sortBy string) (string, []any) {
	switch sortBy {
	case models.SortRelevance:
		if q.rankOrder != "" {
			return " ORDER BY " + q.rankOrder + ", notes.id ASC", q.rankArgs
		}
		return " ORDER BY notes.created_at DESC, notes.id ASC", nil
	case models.SortTitle:
		return " ORDER BY notes.title ASC, notes.id ASC", nil
	default:
		return " ORDER BY notes.created_at DESC, notes.id ASC", nil
	}
}
