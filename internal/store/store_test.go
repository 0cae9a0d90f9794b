package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-store-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func payload(title string) *models.NotePayload {
	return &models.NotePayload{
		Title:     title,
		Content:   "content of " + title,
		Summary:   "summary of " + title,
		KeyPoints: []string{"point one"},
		Tags:      []string{"general"},
		Sentiment: models.Sentiment{Score: 0, Label: models.SentimentNeutral},
	}
}

func mustCreate(t *testing.T, db *DB, p *models.NotePayload) *models.Note {
	t.Helper()
	n, err := db.Create(context.Background(), "", p)
	if err != nil {
		t.Fatalf("Create %q: %v", p.Title, err)
	}
	return n
}

func titles(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	db := testDB(t)
	n := mustCreate(t, db, payload("First"))

	if n.ID == "" {
		t.Error("expected store-assigned id")
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Error("expected store-assigned timestamps")
	}

	got, err := db.Get(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "First" || got.Content != "content of First" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"general"}) {
		t.Errorf("tags = %v", got.Tags)
	}
	if !reflect.DeepEqual(got.KeyPoints, []string{"point one"}) {
		t.Errorf("keyPoints = %v", got.KeyPoints)
	}
}

func TestCreate_EmptySlicesStayEmpty(t *testing.T) {
	db := testDB(t)
	p := payload("Bare")
	p.Tags = nil
	p.KeyPoints = nil
	n := mustCreate(t, db, p)

	got, err := db.Get(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", got.Tags)
	}
	if got.KeyPoints == nil || len(got.KeyPoints) != 0 {
		t.Errorf("keyPoints = %#v, want empty non-nil", got.KeyPoints)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Get(context.Background(), "no-such-id")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate_ReplacesPayload(t *testing.T) {
	db := testDB(t)
	n := mustCreate(t, db, payload("Before"))

	p := payload("After")
	p.Tags = []string{"replaced"}
	updated, err := db.Update(context.Background(), n.ID, p)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("title = %q", updated.Title)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"replaced"}) {
		t.Errorf("tags = %v", updated.Tags)
	}
	if !updated.CreatedAt.Equal(n.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", n.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt.Before(n.UpdatedAt) {
		t.Errorf("updatedAt went backwards: %v -> %v", n.UpdatedAt, updated.UpdatedAt)
	}

	// Old tag rows must be gone.
	notes, err := db.Find(context.Background(), Filter{Tags: []string{"general"}}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("stale tag still matches: %v", titles(notes))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Update(context.Background(), "missing", payload("X"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete_RemovesNote(t *testing.T) {
	db := testDB(t)
	n := mustCreate(t, db, payload("Doomed"))

	if err := db.Delete(context.Background(), n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(context.Background(), n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("note still present after delete: %v", err)
	}
	if err := db.Delete(context.Background(), n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func seedScenario(t *testing.T, db *DB) {
	t.Helper()
	alpha := payload("Alpha")
	alpha.Tags = []string{"x"}
	alpha.Sentiment = models.Sentiment{Score: 0.5, Label: models.SentimentPositive}
	mustCreate(t, db, alpha)

	beta := payload("Beta")
	beta.Tags = []string{"y"}
	beta.Sentiment = models.Sentiment{Score: -0.5, Label: models.SentimentNegative}
	mustCreate(t, db, beta)

	gamma := payload("Gamma")
	gamma.Tags = []string{"x", "y"}
	gamma.Sentiment = models.Sentiment{Score: 0, Label: models.SentimentNeutral}
	mustCreate(t, db, gamma)
}

func TestFind_TagsMatchAnyRequested(t *testing.T) {
	db := testDB(t)
	seedScenario(t, db)

	notes, err := db.Find(context.Background(), Filter{Tags: []string{"x"}}, models.SortTitle, 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := titles(notes); !reflect.DeepEqual(got, []string{"Alpha", "Gamma"}) {
		t.Errorf("titles = %v, want [Alpha Gamma]", got)
	}

	// Requesting both tags must not require both on a note.
	notes, err = db.Find(context.Background(), Filter{Tags: []string{"x", "y"}}, models.SortTitle, 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(notes) != 3 {
		t.Errorf("titles = %v, want all three", titles(notes))
	}
}

func TestFind_SentimentFilter(t *testing.T) {
	db := testDB(t)
	seedScenario(t, db)

	notes, err := db.Find(context.Background(), Filter{Sentiment: models.SentimentNegative}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := titles(notes); !reflect.DeepEqual(got, []string{"Beta"}) {
		t.Errorf("titles = %v, want [Beta]", got)
	}
}

func TestFind_DateRangeInclusive(t *testing.T) {
	db := testDB(t)
	n := mustCreate(t, db, payload("Dated"))

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	notes, err := db.Find(context.Background(), Filter{From: &past, To: &future}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != n.ID {
		t.Errorf("in-range find = %v", titles(notes))
	}

	notes, err = db.Find(context.Background(), Filter{To: &past}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("out-of-range find = %v", titles(notes))
	}
}

func TestFind_DefaultSortIsNewestFirst(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, payload("Older"))
	time.Sleep(2 * time.Millisecond)
	mustCreate(t, db, payload("Newer"))

	notes, err := db.Find(context.Background(), Filter{}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := titles(notes); !reflect.DeepEqual(got, []string{"Newer", "Older"}) {
		t.Errorf("titles = %v, want newest first", got)
	}
}

func TestFind_RelevanceWithoutQueryMatchesDateOrder(t *testing.T) {
	db := testDB(t)
	seedScenario(t, db)

	byRelevance, err := db.Find(context.Background(), Filter{}, models.SortRelevance, 10, 0)
	if err != nil {
		t.Fatalf("Find relevance: %v", err)
	}
	byDate, err := db.Find(context.Background(), Filter{}, models.SortDate, 10, 0)
	if err != nil {
		t.Fatalf("Find date: %v", err)
	}
	if !reflect.DeepEqual(titles(byRelevance), titles(byDate)) {
		t.Errorf("relevance order %v != date order %v", titles(byRelevance), titles(byDate))
	}
}

func TestFind_TextQuery(t *testing.T) {
	db := testDB(t)
	p := payload("Gardening")
	p.Content = "Planted tomatoes and basil in the raised bed."
	mustCreate(t, db, p)
	mustCreate(t, db, payload("Unrelated"))

	notes, err := db.Find(context.Background(), Filter{Query: "tomatoes"}, models.SortRelevance, 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := titles(notes); !reflect.DeepEqual(got, []string{"Gardening"}) {
		t.Errorf("titles = %v, want [Gardening]", got)
	}
}

func TestCount_ObservesSameFilterAsFind(t *testing.T) {
	db := testDB(t)
	seedScenario(t, db)

	f := Filter{Tags: []string{"x"}}
	total, err := db.Count(context.Background(), f)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	notes, err := db.Find(context.Background(), f, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if total != len(notes) {
		t.Errorf("count = %d, find = %d", total, len(notes))
	}
	if total != 2 {
		t.Errorf("count = %d, want 2", total)
	}
}

func TestFind_LimitAndOffset(t *testing.T) {
	db := testDB(t)
	seedScenario(t, db)

	first, err := db.Find(context.Background(), Filter{}, models.SortTitle, 2, 0)
	if err != nil {
		t.Fatalf("Find page 1: %v", err)
	}
	if got := titles(first); !reflect.DeepEqual(got, []string{"Alpha", "Beta"}) {
		t.Errorf("page 1 = %v", got)
	}

	second, err := db.Find(context.Background(), Filter{}, models.SortTitle, 2, 2)
	if err != nil {
		t.Fatalf("Find page 2: %v", err)
	}
	if got := titles(second); !reflect.DeepEqual(got, []string{"Gamma"}) {
		t.Errorf("page 2 = %v", got)
	}
}

func TestFind_OwnerScoping(t *testing.T) {
	db := testDB(t)
	if _, err := db.Create(context.Background(), "owner-a", payload("Mine")); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Create(context.Background(), "owner-b", payload("Theirs")); err != nil {
		t.Fatal(err)
	}

	notes, err := db.Find(context.Background(), Filter{OwnerID: "owner-a"}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := titles(notes); !reflect.DeepEqual(got, []string{"Mine"}) {
		t.Errorf("titles = %v, want owner-scoped [Mine]", got)
	}

	// Empty owner means unscoped.
	notes, err = db.Find(context.Background(), Filter{}, "", 10, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("unscoped find = %v, want both", titles(notes))
	}
}
