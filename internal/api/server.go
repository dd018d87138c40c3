// Package api serves rounds, history, the campaign and seed commitments over
// HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/campaign"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/seedvault"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/session"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestTimeout bounds every request.
const RequestTimeout = 60 * time.Second

// SeedVault publishes and rotates the server seed.
type SeedVault interface {
	Commitment() (seedvault.Commitment, error)
	Rotate() (revealed string, c seedvault.Commitment, err error)
}

// Deps are the collaborators of the server. DB may be nil, in which case
// history endpoints answer 503 and only campaign level 1 is open.
type Deps struct {
	Sessions   *session.Manager
	DB         store.DB
	Campaign   *campaign.Campaign
	Seeds      SeedVault
	ClientSeed string
	Logger     *zap.Logger
}

// Server is the HTTP front end of the session manager.
type Server struct {
	sessions       *session.Manager
	db             store.DB
	campaign       *campaign.Campaign
	seeds          SeedVault
	clientSeed     string
	errorHandler   *ErrorHandler
	logger         *zap.Logger
	securityLogger *SecurityLogger
	stats          *RouteStats
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")
	securityLogger := NewSecurityLogger(logger)

	camp := deps.Campaign
	if camp == nil {
		camp = &campaign.Campaign{}
	}

	return &Server{
		sessions:       deps.Sessions,
		db:             deps.DB,
		campaign:       camp,
		seeds:          deps.Seeds,
		clientSeed:     deps.ClientSeed,
		errorHandler:   NewErrorHandler(logger, securityLogger),
		logger:         logger,
		securityLogger: securityLogger,
		stats:          NewRouteStats(),
	}
}

// SecurityLogger exposes the audit logger for startup and shutdown records.
func (s *Server) SecurityLogger() *SecurityLogger {
	return s.securityLogger
}

// Uptime is the time since the server was created.
func (s *Server) Uptime() time.Duration {
	return s.stats.Uptime()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(s.observe)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(cors)

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/difficulties", s.handleDifficulties)

		r.Post("/rounds", s.handleCreateRound)
		r.Route("/rounds/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRound)
			r.Delete("/", s.handleDeleteRound)
			r.Post("/clicks", s.handleClick)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
		})

		r.Get("/history", s.handleHistory)
		r.Get("/highscores", s.handleHighScores)
		r.Get("/campaign", s.handleCampaign)

		r.Get("/seed", s.handleSeed)
		r.Post("/seed/rotate", s.handleRotateSeed)
		r.Post("/verify", s.handleVerify)
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}
