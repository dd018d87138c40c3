package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DB represents the database interface
type DB interface {
	Close() error
	Migrate() error
	SaveResult(ctx context.Context, res *Result) error
	GetResult(ctx context.Context, id string) (*Result, error)
	ListResults(ctx context.Context, query ResultsQuery) (*ResultsList, error)
	HighScores(ctx context.Context) ([]HighScore, error)
	GetProgress(ctx context.Context, level int) (*Progress, error)
	ListProgress(ctx context.Context) ([]Progress, error)
	UpsertProgress(ctx context.Context, p Progress) error
	MaxNonce(ctx context.Context, serverSeedHash, clientSeed string) (uint64, error)
}

// ResultsQuery represents query parameters for listing results
type ResultsQuery struct {
	Mode       string `json:"mode,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
}

// ResultsList represents a paginated results response
type ResultsList struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"totalCount"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalPages int      `json:"totalPages"`
}

// Result is a finished round
type Result struct {
	ID             string    `json:"id" db:"id"`
	Mode           string    `json:"mode" db:"mode"`
	Difficulty     string    `json:"difficulty" db:"difficulty"`
	Level          int       `json:"level" db:"level"` // 0 for free play
	Score          int       `json:"score" db:"score"`
	Stars          int       `json:"stars" db:"stars"`
	Outcome        string    `json:"outcome" db:"outcome"`
	UsedTime       int       `json:"used_time" db:"used_time"`
	TimeRemaining  int       `json:"time_remaining" db:"time_remaining"`
	NumbersFound   int       `json:"numbers_found" db:"numbers_found"`
	Completed      bool      `json:"completed" db:"completed"`
	ServerSeedHash string    `json:"server_seed_hash" db:"server_seed_hash"`
	ClientSeed     string    `json:"client_seed" db:"client_seed"`
	Nonce          uint64    `json:"nonce" db:"nonce"`
	EngineVersion  string    `json:"engine_version" db:"engine_version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// HighScore is the best score for a mode and difficulty pair
type HighScore struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	BestScore  int    `json:"best_score"`
	BestStars  int    `json:"best_stars"`
	Rounds     int    `json:"rounds"`
}

// Progress is the campaign record for one level
type Progress struct {
	Level     int       `json:"level" db:"level"`
	BestStars int       `json:"best_stars" db:"best_stars"`
	BestScore int       `json:"best_score" db:"best_score"`
	Completed bool      `json:"completed" db:"completed"`
	Attempts  int       `json:"attempts" db:"attempts"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
