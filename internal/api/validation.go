package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
)

const (
	maxClientSeedLen = 256
	maxPerPage       = 200
)

// FieldError is a validation failure on one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateCreateRoundRequest checks the fields the round config does not.
// Range and time errors are reported by the round config itself.
func ValidateCreateRoundRequest(req *CreateRoundRequest) *FieldError {
	if req.Level < 0 {
		return fieldErr("level", "must be >= 0")
	}
	if len(req.ClientSeed) > maxClientSeedLen {
		return fieldErr("client_seed", "too long (max %d)", maxClientSeedLen)
	}
	if req.Cells < 0 || req.Cells > numberset.MaxCells {
		return fieldErr("cells", "must be between 1 and %d", numberset.MaxCells)
	}
	if req.Lives < 0 {
		return fieldErr("lives", "must be >= 0")
	}
	return nil
}

// ValidateClickRequest requires both index and value.
func ValidateClickRequest(req *ClickRequest) *FieldError {
	if req.Index == nil {
		return fieldErr("index", "is required")
	}
	if *req.Index < 0 {
		return fieldErr("index", "must be >= 0")
	}
	if req.Value == nil {
		return fieldErr("value", "is required")
	}
	return nil
}

// ValidateVerifyRequest validates a verify request
func ValidateVerifyRequest(req *VerifyRequest) *FieldError {
	if req.ServerSeed == "" {
		return fieldErr("server_seed", "is required")
	}
	if req.ClientSeed == "" {
		return fieldErr("client_seed", "is required")
	}
	if len(req.ClientSeed) > maxClientSeedLen {
		return fieldErr("client_seed", "too long (max %d)", maxClientSeedLen)
	}
	return nil
}

// parseHistoryQuery reads mode, difficulty, page and per_page.
func parseHistoryQuery(values url.Values) (store.ResultsQuery, *FieldError) {
	q := store.ResultsQuery{Page: 1, PerPage: 50}

	if mode := values.Get("mode"); mode != "" {
		m, ok := difficulty.ParseMode(mode)
		if !ok {
			return q, fieldErr("mode", "unknown mode %q", mode)
		}
		q.Mode = string(m)
	}
	if name := values.Get("difficulty"); name != "" {
		l, ok := difficulty.Parse(name)
		if !ok {
			return q, fieldErr("difficulty", "unknown difficulty %q", name)
		}
		q.Difficulty = l.String()
	}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, fieldErr("page", "must be a positive integer")
		}
		q.Page = page
	}
	if raw := values.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 || perPage > maxPerPage {
			return q, fieldErr("per_page", "must be between 1 and %d", maxPerPage)
		}
		q.PerPage = perPage
	}
	return q, nil
}
