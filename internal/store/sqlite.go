package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	baseMigrations := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			stars INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			used_time INTEGER NOT NULL,
			time_remaining INTEGER NOT NULL,
			numbers_found INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			server_seed_hash TEXT NOT NULL DEFAULT '',
			client_seed TEXT NOT NULL DEFAULT '',
			nonce INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS campaign_progress (
			level INTEGER PRIMARY KEY,
			best_stars INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, migration := range baseMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("base migration failed: %w", err)
		}
	}

	alterMigrations := []string{
		`ALTER TABLE results ADD COLUMN engine_version TEXT DEFAULT ''`,
	}

	for _, migration := range alterMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			if !isDuplicateColumnError(err) {
				return fmt.Errorf("alter migration failed: %w", err)
			}
		}
	}

	indexMigrations := []string{
		`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_results_mode_difficulty ON results(mode, difficulty, score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_results_seed_nonce ON results(server_seed_hash, client_seed, nonce)`,
	}

	for _, migration := range indexMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("index migration failed: %w", err)
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveResult stores a finished round. An empty ID gets a new UUID and a zero
// CreatedAt is set to now.
func (s *SQLiteDB) SaveResult(ctx context.Context, res *Result) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO results (
		id, mode, difficulty, level, score, stars, outcome, used_time, time_remaining,
		numbers_found, completed, server_seed_hash, client_seed, nonce, engine_version, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		res.ID, res.Mode, res.Difficulty, res.Level, res.Score, res.Stars, res.Outcome,
		res.UsedTime, res.TimeRemaining, res.NumbersFound, boolToInt(res.Completed),
		res.ServerSeedHash, res.ClientSeed, int64(res.Nonce), res.EngineVersion, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

const resultColumns = `id, mode, difficulty, level, score, stars, outcome, used_time, time_remaining,
		numbers_found, completed, server_seed_hash, client_seed, nonce, engine_version, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var res Result
	var completed int
	var nonce int64
	var engineVersion sql.NullString

	err := row.Scan(
		&res.ID, &res.Mode, &res.Difficulty, &res.Level, &res.Score, &res.Stars, &res.Outcome,
		&res.UsedTime, &res.TimeRemaining, &res.NumbersFound, &completed,
		&res.ServerSeedHash, &res.ClientSeed, &nonce, &engineVersion, &res.CreatedAt,
	)
	if err != nil {
		return res, err
	}

	res.Completed = completed == 1
	res.Nonce = uint64(nonce)
	if engineVersion.Valid {
		res.EngineVersion = engineVersion.String
	}
	return res, nil
}

// GetResult retrieves a result by ID
func (s *SQLiteDB) GetResult(ctx context.Context, id string) (*Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListResults retrieves results newest first with pagination and filtering
func (s *SQLiteDB) ListResults(ctx context.Context, query ResultsQuery) (*ResultsList, error) {
	var conds []string
	args := []interface{}{}

	if query.Mode != "" {
		conds = append(conds, "mode = ?")
		args = append(args, query.Mode)
	}
	if query.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, query.Difficulty)
	}
	whereClause := ""
	if len(conds) > 0 {
		whereClause = "WHERE " + strings.Join(conds, " AND ")
	}

	var totalCount int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results "+whereClause, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = 50
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	mainQuery := `SELECT ` + resultColumns + `
		FROM results ` + whereClause + `
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`
	args = append(args, query.PerPage, offset)

	rows, err := s.db.QueryContext(ctx, mainQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return &ResultsList{
		Results:    results,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// HighScores returns the best score per mode and difficulty
func (s *SQLiteDB) HighScores(ctx context.Context) ([]HighScore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mode, difficulty, MAX(score), MAX(stars), COUNT(*)
		FROM results
		GROUP BY mode, difficulty
		ORDER BY mode, difficulty`)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var scores []HighScore
	for rows.Next() {
		var hs HighScore
		if err := rows.Scan(&hs.Mode, &hs.Difficulty, &hs.BestScore, &hs.BestStars, &hs.Rounds); err != nil {
			return nil, fmt.Errorf("failed to scan high score: %w", err)
		}
		scores = append(scores, hs)
	}
	return scores, rows.Err()
}

func scanProgress(row scanner) (Progress, error) {
	var p Progress
	var completed int
	err := row.Scan(&p.Level, &p.BestStars, &p.BestScore, &completed, &p.Attempts, &p.UpdatedAt)
	p.Completed = completed == 1
	return p, err
}

// GetProgress returns the campaign record for level
func (s *SQLiteDB) GetProgress(ctx context.Context, level int) (*Progress, error) {
	row := s.db.QueryRowContext(ctx, `SELECT level, best_stars, best_score, completed, attempts, updated_at
		FROM campaign_progress WHERE level = ?`, level)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress for level %d: %w", level, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProgress returns every level that has been attempted, in level order
func (s *SQLiteDB) ListProgress(ctx context.Context) ([]Progress, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT level, best_stars, best_score, completed, attempts, updated_at
		FROM campaign_progress ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertProgress records an attempt at a level. Best stars, best score and the
// completed flag only ever improve.
func (s *SQLiteDB) UpsertProgress(ctx context.Context, p Progress) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO campaign_progress
		(level, best_stars, best_score, completed, attempts, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(level) DO UPDATE SET
			best_stars = MAX(best_stars, excluded.best_stars),
			best_score = MAX(best_score, excluded.best_score),
			completed = MAX(completed, excluded.completed),
			attempts = attempts + 1,
			updated_at = excluded.updated_at`,
		p.Level, p.BestStars, p.BestScore, boolToInt(p.Completed), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress for level %d: %w", p.Level, err)
	}
	return nil
}

// MaxNonce returns the highest nonce recorded for a seed pair, or 0.
func (s *SQLiteDB) MaxNonce(ctx context.Context, serverSeedHash, clientSeed string) (uint64, error) {
	var nonce int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(nonce), 0) FROM results
		WHERE server_seed_hash = ? AND client_seed = ?`, serverSeedHash, clientSeed).Scan(&nonce)
	if err != nil {
		return 0, fmt.Errorf("failed to query max nonce: %w", err)
	}
	return uint64(nonce), nil
}
