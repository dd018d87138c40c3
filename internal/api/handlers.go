package api

import (
	"encoding/json"
	"net/http"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/session"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// decode reads a JSON body. It writes the error response itself and reports
// whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON format")
		return false
	}
	return true
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	levels := difficulty.Levels()
	policies := make([]difficulty.Policy, len(levels))
	for i, l := range levels {
		policies[i] = difficulty.For(l)
	}
	s.writeJSON(w, http.StatusOK, DifficultiesResponse{
		Difficulties:  policies,
		Modes:         []difficulty.Mode{difficulty.Classic, difficulty.Zen},
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	var req CreateRoundRequest
	if !s.decode(w, r, &req) {
		return
	}
	if ferr := ValidateCreateRoundRequest(&req); ferr != nil {
		s.errorHandler.HandleValidationError(w, r, ferr.Field, ferr.Message)
		return
	}

	var (
		cfg round.Config
		err error
	)
	if req.Level > 0 {
		progress, perr := s.progress(r)
		if perr != nil {
			s.errorHandler.HandleError(w, r, perr)
			return
		}
		cfg, err = s.campaign.Start(req.Level, progress)
	} else {
		cfg, err = req.Options.Config()
	}
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	rd, err := s.sessions.Create(cfg, req.ClientSeed)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.securityLogger.LogRoundOperation(middleware.GetReqID(r.Context()), "create", rd.ID(), rd.Seed())
	s.writeJSON(w, http.StatusCreated, RoundResponse{
		Round:         rd.Snapshot(),
		Seed:          rd.Seed(),
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RoundResponse{
		Round:         rd.Snapshot(),
		Seed:          rd.Seed(),
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !s.decode(w, r, &req) {
		return
	}
	if ferr := ValidateClickRequest(&req); ferr != nil {
		s.errorHandler.HandleValidationError(w, r, ferr.Field, ferr.Message)
		return
	}

	res, err := s.sessions.Click(r.Context(), chi.URLParam(r, "id"), *req.Index, *req.Value)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, "pause", s.sessions.Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, "resume", s.sessions.Resume)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, action string, fn func(string) (round.Snapshot, error)) {
	id := chi.URLParam(r, "id")
	snap, err := fn(id)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.securityLogger.LogAuditEvent(middleware.GetReqID(r.Context()), action, "round", "success",
		map[string]interface{}{"round_id": id})
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteRound(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.securityLogger.LogAuditEvent(middleware.GetReqID(r.Context()), "delete", "round", "success",
		map[string]interface{}{"round_id": id})
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w, r) {
		return
	}
	q, ferr := parseHistoryQuery(r.URL.Query())
	if ferr != nil {
		s.errorHandler.HandleValidationError(w, r, ferr.Field, ferr.Message)
		return
	}
	list, err := s.db.ListResults(r.Context(), q)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, HistoryResponse{ResultsList: list, EngineVersion: EngineVersion})
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w, r) {
		return
	}
	scores, err := s.db.HighScores(r.Context())
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	if scores == nil {
		scores = []store.HighScore{}
	}
	s.writeJSON(w, http.StatusOK, HighScoresResponse{HighScores: scores, EngineVersion: EngineVersion})
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	progress, err := s.progress(r)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CampaignResponse{
		Levels:        s.campaign.Status(progress),
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if !s.requireSeeds(w, r) {
		return
	}
	c, err := s.seeds.Commitment()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SeedResponse{
		Commitment:    c,
		ClientSeed:    s.clientSeed,
		NextNonce:     s.sessions.Nonce() + 1,
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleRotateSeed(w http.ResponseWriter, r *http.Request) {
	if !s.requireSeeds(w, r) {
		return
	}
	revealed, c, err := s.seeds.Rotate()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.securityLogger.LogSeedRotation(middleware.GetReqID(r.Context()), engine.HashServerSeed(revealed), c.ServerSeedHash)
	s.writeJSON(w, http.StatusOK, SeedResponse{
		Commitment:    c,
		ClientSeed:    s.clientSeed,
		NextNonce:     s.sessions.Nonce() + 1,
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if ferr := ValidateVerifyRequest(&req); ferr != nil {
		s.errorHandler.HandleValidationError(w, r, ferr.Field, ferr.Message)
		return
	}

	cfg, err := round.Options{
		Difficulty: req.Difficulty,
		Layout:     req.Layout,
		Min:        req.Min,
		Max:        req.Max,
		Cells:      req.Cells,
	}.Config()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	seeds := engine.Seeds{Server: req.ServerSeed, Client: req.ClientSeed}
	set, err := session.Replay(seeds, req.Nonce, cfg.Difficulty, cfg.Layout)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.securityLogger.LogVerifyOperation(middleware.GetReqID(r.Context()), req.ServerSeed, req.ClientSeed, req.Nonce, set.Len())
	s.writeJSON(w, http.StatusOK, VerifyResponse{
		ServerSeedHash: engine.HashServerSeed(req.ServerSeed),
		Nonce:          req.Nonce,
		Difficulty:     cfg.Difficulty,
		Set:            set,
		EngineVersion:  EngineVersion,
	})
}

// progress reads campaign progress. Without a database only level 1 is open.
func (s *Server) progress(r *http.Request) ([]store.Progress, error) {
	if s.db == nil {
		return nil, nil
	}
	progress, err := s.db.ListProgress(r.Context())
	if err != nil {
		s.logger.Error("failed to load campaign progress", zap.Error(err))
		return nil, err
	}
	return progress, nil
}

func (s *Server) requireDB(w http.ResponseWriter, r *http.Request) bool {
	if s.db != nil {
		return true
	}
	s.errorHandler.Unavailable(w, r, "database")
	return false
}

func (s *Server) requireSeeds(w http.ResponseWriter, r *http.Request) bool {
	if s.seeds != nil {
		return true
	}
	s.errorHandler.Unavailable(w, r, "seed vault")
	return false
}
