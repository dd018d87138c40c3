package store

import (
	"context"
	"fmt"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
)

// Recorder persists finished rounds into a DB. Campaign rounds also update
// the level's progress.
type Recorder struct {
	db            DB
	engineVersion string
}

// NewRecorder returns a round.Recorder backed by db.
func NewRecorder(db DB, engineVersion string) *Recorder {
	return &Recorder{db: db, engineVersion: engineVersion}
}

// Record implements round.Recorder.
func (r *Recorder) Record(ctx context.Context, rec round.Record) error {
	res := FromRecord(rec)
	res.EngineVersion = r.engineVersion
	if err := r.db.SaveResult(ctx, &res); err != nil {
		return err
	}
	if rec.Level <= 0 {
		return nil
	}

	err := r.db.UpsertProgress(ctx, Progress{
		Level:     rec.Level,
		BestStars: rec.Result.Stars,
		BestScore: rec.Result.Score,
		Completed: rec.Result.Completed,
	})
	if err != nil {
		return fmt.Errorf("round %s: %w", rec.RoundID, err)
	}
	return nil
}

// FromRecord maps a round record to a result row. The row ID is the round ID.
func FromRecord(rec round.Record) Result {
	return Result{
		ID:             rec.RoundID,
		Mode:           string(rec.Mode),
		Difficulty:     rec.Difficulty.String(),
		Level:          rec.Level,
		Score:          rec.Result.Score,
		Stars:          rec.Result.Stars,
		Outcome:        string(rec.Result.Outcome),
		UsedTime:       rec.Result.UsedTime,
		TimeRemaining:  rec.Result.TimeRemaining,
		NumbersFound:   rec.Result.NumbersFound,
		Completed:      rec.Result.Completed,
		ServerSeedHash: rec.Seed.ServerSeedHash,
		ClientSeed:     rec.Seed.ClientSeed,
		Nonce:          rec.Seed.Nonce,
	}
}
