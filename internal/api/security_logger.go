package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"go.uber.org/zap"
)

// SecurityLogger writes audit records. Raw seeds never reach the log; only
// short SHA-256 prefixes do.
type SecurityLogger struct {
	logger *zap.Logger
}

// NewSecurityLogger creates a security logger on top of logger.
func NewSecurityLogger(logger *zap.Logger) *SecurityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityLogger{logger: logger.Named("security")}
}

// LogRoundOperation records a round being created, paused, resumed or deleted.
func (sl *SecurityLogger) LogRoundOperation(requestID, action, roundID string, seed round.SeedRef) {
	sl.logger.Info("round_operation",
		zap.String("request_id", requestID),
		zap.String("action", action),
		zap.String("round_id", roundID),
		zap.String("server_hash", shortHash(seed.ServerSeedHash)),
		zap.String("client_hash", sl.hashSeed(seed.ClientSeed)),
		zap.Uint64("nonce", seed.Nonce),
		zap.String("engine_version", EngineVersion),
	)
}

// LogVerifyOperation records a replay request.
func (sl *SecurityLogger) LogVerifyOperation(requestID, serverSeed, clientSeed string, nonce uint64, cells int) {
	sl.logger.Info("verify_operation",
		zap.String("request_id", requestID),
		zap.String("server_hash", sl.hashSeed(serverSeed)),
		zap.String("client_hash", sl.hashSeed(clientSeed)),
		zap.Uint64("nonce", nonce),
		zap.Int("cells", cells),
		zap.String("engine_version", EngineVersion),
	)
}

// LogSeedRotation records a rotation. The revealed seed is public from this
// point on but is still logged by hash only.
func (sl *SecurityLogger) LogSeedRotation(requestID, revealedHash, committedHash string) {
	sl.logger.Info("seed_rotation",
		zap.String("request_id", requestID),
		zap.String("revealed_hash", shortHash(revealedHash)),
		zap.String("committed_hash", shortHash(committedHash)),
		zap.String("engine_version", EngineVersion),
	)
}

// LogSecurityEvent logs failed validations and other suspicious input.
func (sl *SecurityLogger) LogSecurityEvent(requestID, eventType, description string, context map[string]interface{}, remoteAddr string) {
	sl.logger.Warn("security_event",
		zap.String("request_id", requestID),
		zap.String("type", eventType),
		zap.String("description", description),
		zap.Any("context", sl.sanitizeContext(context)),
		zap.String("remote_addr", remoteAddr),
		zap.String("engine_version", EngineVersion),
	)
}

// LogAuditEvent logs audit events for debugging
func (sl *SecurityLogger) LogAuditEvent(requestID, action, resource, outcome string, details map[string]interface{}) {
	sl.logger.Info("audit_event",
		zap.String("request_id", requestID),
		zap.String("action", action),
		zap.String("resource", resource),
		zap.String("outcome", outcome),
		zap.Any("details", sl.sanitizeContext(details)),
		zap.String("engine_version", EngineVersion),
	)
}

// LogSystemStartup logs the listen address and a sanitized view of the config.
func (sl *SecurityLogger) LogSystemStartup(addr string, config map[string]interface{}) {
	sl.logger.Info("system_startup",
		zap.String("addr", addr),
		zap.Any("config", sl.sanitizeContext(config)),
		zap.String("engine_version", EngineVersion),
		zap.String("git_commit", GitCommit),
		zap.String("build_time", BuildTime),
	)
}

// LogSystemShutdown logs system shutdown information
func (sl *SecurityLogger) LogSystemShutdown(reason string, uptime time.Duration) {
	sl.logger.Info("system_shutdown",
		zap.String("reason", reason),
		zap.Duration("uptime", uptime),
		zap.String("engine_version", EngineVersion),
	)
}

func (sl *SecurityLogger) hashSeed(seed string) string {
	return hashSeed(seed)
}

// hashSeed returns the first 16 hex chars of the seed's SHA-256.
func hashSeed(seed string) string {
	if seed == "" {
		return "empty"
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}

func shortHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}

// sanitizeContext removes sensitive data from context maps
func (sl *SecurityLogger) sanitizeContext(context map[string]interface{}) map[string]interface{} {
	if context == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(context))
	for key, value := range context {
		switch key {
		case "server_seed", "serverSeed", "client_seed", "clientSeed", "previous_seed":
			if s, ok := value.(string); ok {
				sanitized[key+"_hash"] = sl.hashSeed(s)
			} else {
				sanitized[key+"_hash"] = fmt.Sprintf("non_string_value_%T", value)
			}
		case "seeds":
			if seeds, ok := value.(engine.Seeds); ok {
				sanitized["server_seed_hash"] = sl.hashSeed(seeds.Server)
				sanitized["client_seed_hash"] = sl.hashSeed(seeds.Client)
			} else {
				sanitized[key] = "[SEEDS_OBJECT]"
			}
		case "secret", "password", "token", "api_key", "authorization":
			sanitized[key] = "[REDACTED]"
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}
