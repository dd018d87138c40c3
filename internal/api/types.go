package api

import (
	"github.com/fralcy/find-smallest-number-game-sub000/internal/campaign"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/seedvault"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
)

// Build information, overridden with -ldflags "-X".
var (
	EngineVersion = "dev"
	GitCommit     = "unknown"
	BuildTime     = "unknown"
)

// VersionInfo is attached to health responses.
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// GetVersionInfo returns the build information of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
	}
}

// EngineError is the JSON body of every failed request.
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

const (
	// request errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidConfig = "invalid_config"
	ErrTypeInvalidSeed   = "invalid_seed"

	// game errors
	ErrTypeRoundNotFound = "round_not_found"
	ErrTypeLevelNotFound = "level_not_found"
	ErrTypeLevelLocked   = "level_locked"

	// system errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory groups error types for monitoring.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidConfig, ErrTypeInvalidSeed:
		return CategoryValidation
	case ErrTypeRoundNotFound, ErrTypeLevelNotFound, ErrTypeLevelLocked:
		return CategoryGame
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// CreateRoundRequest starts a free round, or a campaign level when Level is set.
type CreateRoundRequest struct {
	round.Options
	Level      int    `json:"level,omitempty"`
	ClientSeed string `json:"client_seed,omitempty"`
}

// ClickRequest is a click on the cell at Index showing Value.
type ClickRequest struct {
	Index *int `json:"index"`
	Value *int `json:"value"`
}

// RoundResponse wraps a snapshot with the seed identity of the round.
type RoundResponse struct {
	Round         round.Snapshot `json:"round"`
	Seed          round.SeedRef  `json:"seed"`
	EngineVersion string         `json:"engine_version"`
}

// DifficultiesResponse lists the rule table of every tier.
type DifficultiesResponse struct {
	Difficulties  []difficulty.Policy `json:"difficulties"`
	Modes         []difficulty.Mode   `json:"modes"`
	EngineVersion string              `json:"engine_version"`
}

// HistoryResponse is a page of finished rounds.
type HistoryResponse struct {
	*store.ResultsList
	EngineVersion string `json:"engine_version"`
}

// HighScoresResponse is the best result per mode and tier.
type HighScoresResponse struct {
	HighScores    []store.HighScore `json:"high_scores"`
	EngineVersion string            `json:"engine_version"`
}

// CampaignResponse lists levels with the player's progress.
type CampaignResponse struct {
	Levels        []campaign.LevelStatus `json:"levels"`
	EngineVersion string                 `json:"engine_version"`
}

// SeedResponse publishes the active commitment.
type SeedResponse struct {
	seedvault.Commitment
	ClientSeed    string `json:"client_seed"`
	NextNonce     uint64 `json:"next_nonce"`
	EngineVersion string `json:"engine_version"`
}

// VerifyRequest asks for the opening set of a past round.
type VerifyRequest struct {
	ServerSeed string `json:"server_seed"`
	ClientSeed string `json:"client_seed"`
	Nonce      uint64 `json:"nonce"`
	Difficulty string `json:"difficulty"`
	Layout     string `json:"layout"`
	Min        int    `json:"min"`
	Max        int    `json:"max"`
	Cells      int    `json:"cells"`
}

// VerifyResponse is the replayed opening set.
type VerifyResponse struct {
	ServerSeedHash string           `json:"server_seed_hash"`
	Nonce          uint64           `json:"nonce"`
	Difficulty     difficulty.Level `json:"difficulty"`
	Set            numberset.Set    `json:"set"`
	EngineVersion  string           `json:"engine_version"`
}
