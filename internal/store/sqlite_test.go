package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 2; i++ {
		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate() run %d failed: %v", i+2, err)
		}
	}
}

func TestSaveAndGetResult(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	res := &Result{
		Mode:           "classic",
		Difficulty:     "hard",
		Score:          120,
		Stars:          2,
		Outcome:        "complete",
		UsedTime:       40,
		TimeRemaining:  20,
		NumbersFound:   25,
		Completed:      true,
		ServerSeedHash: "abc",
		ClientSeed:     "client",
		Nonce:          7,
		EngineVersion:  "test",
	}
	if err := db.SaveResult(ctx, res); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if res.ID == "" {
		t.Fatal("Expected SaveResult to assign an ID")
	}

	got, err := db.GetResult(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetResult() failed: %v", err)
	}
	if got.Score != 120 || got.Stars != 2 || !got.Completed || got.Nonce != 7 || got.EngineVersion != "test" {
		t.Errorf("Round trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	if _, err := db.GetResult(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListResults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	rows := []Result{
		{ID: "r1", Mode: "classic", Difficulty: "easy", Score: 10, Outcome: "timeout"},
		{ID: "r2", Mode: "classic", Difficulty: "hard", Score: 50, Outcome: "complete", Completed: true},
		{ID: "r3", Mode: "zen", Difficulty: "easy", Score: 30, Outcome: "lifeout"},
	}
	for i := range rows {
		rows[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.SaveResult(ctx, &rows[i]); err != nil {
			t.Fatalf("Failed to save result %s: %v", rows[i].ID, err)
		}
	}

	result, err := db.ListResults(ctx, ResultsQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list results: %v", err)
	}
	if result.TotalCount != 3 || len(result.Results) != 3 {
		t.Fatalf("Expected 3 results, got total=%d len=%d", result.TotalCount, len(result.Results))
	}
	if result.Results[0].ID != "r3" {
		t.Errorf("Expected newest first, got %s", result.Results[0].ID)
	}

	result, err = db.ListResults(ctx, ResultsQuery{Mode: "classic"})
	if err != nil {
		t.Fatalf("Failed to list classic results: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("Expected 2 classic results, got %d", result.TotalCount)
	}
	if result.PerPage != 50 || result.Page != 1 {
		t.Errorf("Expected default paging 1/50, got %d/%d", result.Page, result.PerPage)
	}

	result, err = db.ListResults(ctx, ResultsQuery{Mode: "classic", Difficulty: "hard"})
	if err != nil {
		t.Fatalf("Failed to list filtered results: %v", err)
	}
	if result.TotalCount != 1 || result.Results[0].ID != "r2" {
		t.Errorf("Expected only r2, got %+v", result.Results)
	}

	result, err = db.ListResults(ctx, ResultsQuery{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("Failed to list page 2: %v", err)
	}
	if len(result.Results) != 1 || result.TotalPages != 2 {
		t.Errorf("Expected 1 result on page 2 of 2, got %d of %d", len(result.Results), result.TotalPages)
	}
	if result.Results[0].ID != "r1" {
		t.Errorf("Expected oldest on the last page, got %s", result.Results[0].ID)
	}
}

func TestHighScores(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, r := range []Result{
		{Mode: "classic", Difficulty: "easy", Score: 10, Stars: 1, Outcome: "complete"},
		{Mode: "classic", Difficulty: "easy", Score: 40, Stars: 3, Outcome: "complete"},
		{Mode: "zen", Difficulty: "hard", Score: 90, Outcome: "lifeout"},
	} {
		r := r
		if err := db.SaveResult(ctx, &r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	scores, err := db.HighScores(ctx)
	if err != nil {
		t.Fatalf("HighScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(scores))
	}
	if scores[0].Mode != "classic" || scores[0].BestScore != 40 || scores[0].BestStars != 3 || scores[0].Rounds != 2 {
		t.Errorf("Unexpected classic/easy entry: %+v", scores[0])
	}
	if scores[1].Mode != "zen" || scores[1].BestScore != 90 {
		t.Errorf("Unexpected zen/hard entry: %+v", scores[1])
	}
}

func TestUpsertProgressKeepsBest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	attempts := []Progress{
		{Level: 3, BestStars: 2, BestScore: 80, Completed: true},
		{Level: 3, BestStars: 0, BestScore: 20, Completed: false},
		{Level: 3, BestStars: 3, BestScore: 60, Completed: true},
	}
	for _, p := range attempts {
		if err := db.UpsertProgress(ctx, p); err != nil {
			t.Fatalf("UpsertProgress() failed: %v", err)
		}
	}

	got, err := db.GetProgress(ctx, 3)
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if got.BestStars != 3 || got.BestScore != 80 || !got.Completed || got.Attempts != 3 {
		t.Errorf("Unexpected progress: %+v", got)
	}

	if _, err := db.GetProgress(ctx, 4); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for an unplayed level, got %v", err)
	}

	if err := db.UpsertProgress(ctx, Progress{Level: 1, BestStars: 1, Completed: true}); err != nil {
		t.Fatalf("UpsertProgress() failed: %v", err)
	}
	all, err := db.ListProgress(ctx)
	if err != nil {
		t.Fatalf("ListProgress() failed: %v", err)
	}
	if len(all) != 2 || all[0].Level != 1 || all[1].Level != 3 {
		t.Errorf("Expected levels [1 3], got %+v", all)
	}
}

func TestMaxNonce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := db.MaxNonce(ctx, "hash", "client")
	if err != nil || n != 0 {
		t.Fatalf("Expected 0 for an unused seed pair, got %d (%v)", n, err)
	}

	for _, nonce := range []uint64{3, 9, 4} {
		r := Result{Mode: "classic", Difficulty: "easy", Outcome: "timeout", ServerSeedHash: "hash", ClientSeed: "client", Nonce: nonce}
		if err := db.SaveResult(ctx, &r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	other := Result{Mode: "classic", Difficulty: "easy", Outcome: "timeout", ServerSeedHash: "other", ClientSeed: "client", Nonce: 99}
	if err := db.SaveResult(ctx, &other); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	n, err = db.MaxNonce(ctx, "hash", "client")
	if err != nil {
		t.Fatalf("MaxNonce() failed: %v", err)
	}
	if n != 9 {
		t.Errorf("Expected max nonce 9, got %d", n)
	}
}

func TestRecorderUpdatesCampaign(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rec := NewRecorder(db, "v-test")

	err := rec.Record(ctx, round.Record{
		RoundID:    "round-1",
		Mode:       difficulty.Classic,
		Difficulty: difficulty.Normal,
		Level:      2,
		Seed:       round.SeedRef{ServerSeedHash: "h", ClientSeed: "c", Nonce: 5},
		Result: round.Result{
			Score:        44,
			Stars:        2,
			Outcome:      round.StatusComplete,
			UsedTime:     30,
			NumbersFound: 16,
			Completed:    true,
		},
	})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	res, err := db.GetResult(ctx, "round-1")
	if err != nil {
		t.Fatalf("GetResult() failed: %v", err)
	}
	if res.Difficulty != "normal" || res.Level != 2 || res.EngineVersion != "v-test" || res.Nonce != 5 {
		t.Errorf("Unexpected stored result: %+v", res)
	}

	p, err := db.GetProgress(ctx, 2)
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if p.BestStars != 2 || !p.Completed {
		t.Errorf("Unexpected progress: %+v", p)
	}

	// free play leaves campaign progress alone
	if err := rec.Record(ctx, round.Record{RoundID: "round-2", Mode: difficulty.Zen}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	all, _ := db.ListProgress(ctx)
	if len(all) != 1 {
		t.Errorf("Expected one progress row, got %d", len(all))
	}
}
