package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/campaign"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/session"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestError builds an EngineError stamped with the request id, path and
// method of r. kv holds extra context as alternating keys and values.
func requestError(r *http.Request, errType, message string, kv ...interface{}) EngineError {
	details := map[string]interface{}{
		"path":   r.URL.Path,
		"method": r.Method,
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			details[key] = kv[i+1]
		}
	}
	return EngineError{
		Type:      errType,
		Message:   message,
		Context:   details,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// classify maps domain errors to a status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrRoundNotFound):
		return http.StatusNotFound, ErrTypeRoundNotFound
	case errors.Is(err, campaign.ErrLevelNotFound):
		return http.StatusNotFound, ErrTypeLevelNotFound
	case errors.Is(err, campaign.ErrLevelLocked):
		return http.StatusForbidden, ErrTypeLevelLocked
	case errors.Is(err, numberset.ErrInvalidRange),
		errors.Is(err, numberset.ErrNoCells),
		errors.Is(err, numberset.ErrRangeTooSmall),
		errors.Is(err, numberset.ErrUnknownLayout),
		errors.Is(err, round.ErrInvalidTime),
		errors.Is(err, round.ErrInvalidLives),
		errors.Is(err, round.ErrUnknownMode),
		errors.Is(err, round.ErrUnknownDifficulty):
		return http.StatusBadRequest, ErrTypeInvalidConfig
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, ErrTypeTimeout
	}
	return http.StatusInternalServerError, ErrTypeInternal
}

// ErrorHandler turns failures into JSON envelopes and logs them.
type ErrorHandler struct {
	logger         *zap.Logger
	securityLogger *SecurityLogger
}

func NewErrorHandler(logger *zap.Logger, securityLogger *SecurityLogger) *ErrorHandler {
	return &ErrorHandler{
		logger:         logger,
		securityLogger: securityLogger,
	}
}

// HandleError classifies err and writes the matching response.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := classify(err)

	var engineErr EngineError
	if !errors.As(err, &engineErr) {
		engineErr = requestError(r, errType, err.Error())
	}
	eh.respond(w, r, status, engineErr)
}

// HandleValidationError rejects a malformed request and records a security event.
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	engineErr := requestError(r, ErrTypeValidation, "Validation failed: "+message, "field", field)

	eh.securityLogger.LogSecurityEvent(engineErr.RequestID, "validation_failure", message,
		map[string]interface{}{"field": field, "path": r.URL.Path}, r.RemoteAddr)
	eh.respond(w, r, http.StatusBadRequest, engineErr)
}

// Unavailable reports a dependency the server was started without.
func (eh *ErrorHandler) Unavailable(w http.ResponseWriter, r *http.Request, what string) {
	eh.respond(w, r, http.StatusServiceUnavailable,
		requestError(r, ErrTypeServiceUnavailable, what+" not configured", "dependency", what))
}

// respond logs engineErr and writes it as the response body.
func (eh *ErrorHandler) respond(w http.ResponseWriter, r *http.Request, status int, engineErr EngineError) {
	category := GetErrorCategory(engineErr.Type)

	fields := make([]zap.Field, 0, 8+len(engineErr.Context))
	fields = append(fields,
		zap.String("type", engineErr.Type),
		zap.String("category", string(category)),
		zap.String("message", engineErr.Message),
		zap.Int("status", status),
		zap.String("request_id", engineErr.RequestID),
		zap.String("remote_ip", r.RemoteAddr),
	)
	for key, value := range engineErr.Context {
		// never log raw seeds
		if key == "server_seed" || key == "client_seed" {
			continue
		}
		fields = append(fields, zap.Any(key, value))
	}
	if status >= http.StatusInternalServerError {
		eh.logger.Error("request failed", fields...)
	} else {
		eh.logger.Warn("request rejected", fields...)
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Engine-Version", EngineVersion)
	h.Set("X-Error-Type", engineErr.Type)
	h.Set("X-Error-Category", string(category))
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(engineErr); err != nil {
		eh.logger.Error("encode error body", zap.Error(err))
	}
}

// RecoveryHandler turns panics into a 500 EngineError.
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			eh.logger.Error("handler panic",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Any("panic", rvr),
				zap.Stack("stack"),
			)
			eh.respond(w, r, http.StatusInternalServerError,
				requestError(r, ErrTypeInternal, "Internal server error", "panic", fmt.Sprint(rvr)))
		}()
		next.ServeHTTP(w, r)
	})
}
