package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// worse reports whether a is a worse status than b.
func (a HealthStatus) worse(b HealthStatus) bool {
	rank := map[HealthStatus]int{HealthStatusHealthy: 0, HealthStatusDegraded: 1, HealthStatusUnhealthy: 2}
	return rank[a] > rank[b]
}

const probeTimeout = 2 * time.Second

// HealthCheckResponse is the body of GET /health.
type HealthCheckResponse struct {
	Status    HealthStatus           `json:"status"`
	CheckedAt string                 `json:"checked_at"`
	Uptime    string                 `json:"uptime"`
	Version   VersionInfo            `json:"version"`
	Checks    map[string]HealthCheck `json:"checks"`
	Runtime   RuntimeStats           `json:"runtime"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HealthCheck is the outcome of one probe.
type HealthCheck struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Took    string       `json:"took"`
}

// RuntimeStats is a cut-down runtime.MemStats.
type RuntimeStats struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	CPUs       int    `json:"cpus"`
	HeapAlloc  uint64 `json:"heap_alloc_bytes"`
	HeapSys    uint64 `json:"heap_sys_bytes"`
	GCRuns     uint32 `json:"gc_runs"`
}

func readRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
		HeapAlloc:  m.HeapAlloc,
		HeapSys:    m.HeapSys,
		GCRuns:     m.NumGC,
	}
}

// ReadinessResponse is the body of GET /health/ready.
type ReadinessResponse struct {
	Ready     bool        `json:"ready"`
	Reason    string      `json:"reason,omitempty"`
	Version   VersionInfo `json:"version"`
	RequestID string      `json:"request_id,omitempty"`
}

// LivenessResponse is the body of GET /health/live.
type LivenessResponse struct {
	Alive   bool        `json:"alive"`
	Uptime  string      `json:"uptime"`
	Version VersionInfo `json:"version"`
}

// MetricsResponse is the body of GET /metrics.
type MetricsResponse struct {
	Uptime     string               `json:"uptime"`
	Version    VersionInfo          `json:"version"`
	Runtime    RuntimeStats         `json:"runtime"`
	LiveRounds int                  `json:"live_rounds"`
	Operations map[string]OpMetrics `json:"operations"`
}

// OpMetrics are the counters for one route.
type OpMetrics struct {
	TotalRequests   uint64  `json:"total_requests"`
	SuccessRequests uint64  `json:"success_requests"`
	ErrorRequests   uint64  `json:"error_requests"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
	LastRequest     string  `json:"last_request,omitempty"`

	total time.Duration
}

// RouteStats counts requests per "METHOD pattern".
type RouteStats struct {
	mu      sync.Mutex
	started time.Time
	ops     map[string]*OpMetrics
}

func NewRouteStats() *RouteStats {
	return &RouteStats{started: time.Now(), ops: make(map[string]*OpMetrics)}
}

// Observe adds one request to the counters of op.
func (rs *RouteStats) Observe(op string, d time.Duration, ok bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	m := rs.ops[op]
	if m == nil {
		m = &OpMetrics{}
		rs.ops[op] = m
	}
	m.TotalRequests++
	if ok {
		m.SuccessRequests++
	} else {
		m.ErrorRequests++
	}
	m.total += d
	m.AvgDurationMs = float64(m.total.Microseconds()) / 1000 / float64(m.TotalRequests)
	m.LastRequest = time.Now().UTC().Format(time.RFC3339)
}

// Snapshot copies the counters.
func (rs *RouteStats) Snapshot() map[string]OpMetrics {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	out := make(map[string]OpMetrics, len(rs.ops))
	for op, m := range rs.ops {
		out[op] = *m
	}
	return out
}

func (rs *RouteStats) Uptime() time.Duration {
	return time.Since(rs.started)
}

// probe is one named dependency check. A required probe that is not healthy
// makes the server not ready.
type probe struct {
	name     string
	required bool
	run      func(ctx context.Context) (HealthStatus, string)
}

func (s *Server) probes() []probe {
	return []probe{
		{name: "database", run: s.probeDatabase},
		{name: "seeds", required: true, run: s.probeSeeds},
		{name: "campaign", required: true, run: s.probeCampaign},
		{name: "sessions", required: true, run: s.probeSessions},
	}
}

func (s *Server) runProbes(ctx context.Context) (HealthStatus, map[string]HealthCheck, string) {
	overall := HealthStatusHealthy
	checks := make(map[string]HealthCheck)
	var notReady string
	for _, p := range s.probes() {
		start := time.Now()
		status, msg := p.run(ctx)
		checks[p.name] = HealthCheck{Status: status, Message: msg, Took: time.Since(start).String()}
		if status.worse(overall) {
			overall = status
		}
		if p.required && status != HealthStatusHealthy && notReady == "" {
			notReady = msg
		}
	}
	return overall, checks, notReady
}

// probeDatabase runs a cheap query. Without a database results are not
// saved but rounds still play, so the server is only degraded.
func (s *Server) probeDatabase(ctx context.Context) (HealthStatus, string) {
	if s.db == nil {
		return HealthStatusDegraded, "database not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if _, err := s.db.ListProgress(ctx); err != nil {
		return HealthStatusUnhealthy, fmt.Sprintf("database query failed: %v", err)
	}
	return HealthStatusHealthy, "ok"
}

func (s *Server) probeSeeds(context.Context) (HealthStatus, string) {
	if s.seeds == nil {
		return HealthStatusUnhealthy, "seed vault not configured"
	}
	if _, err := s.seeds.Commitment(); err != nil {
		return HealthStatusUnhealthy, fmt.Sprintf("seed vault: %v", err)
	}
	return HealthStatusHealthy, "server seed committed"
}

func (s *Server) probeCampaign(context.Context) (HealthStatus, string) {
	if s.campaign == nil || len(s.campaign.Levels) == 0 {
		return HealthStatusDegraded, "no campaign levels loaded"
	}
	return HealthStatusHealthy, fmt.Sprintf("%d levels", len(s.campaign.Levels))
}

func (s *Server) probeSessions(context.Context) (HealthStatus, string) {
	if s.sessions == nil {
		return HealthStatusUnhealthy, "session manager not initialized"
	}
	return HealthStatusHealthy, fmt.Sprintf("%d live rounds", s.sessions.Len())
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	status, checks, _ := s.runProbes(r.Context())

	code := http.StatusOK
	if status == HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	s.securityLogger.LogAuditEvent(requestID, "health_check", "system", string(status),
		map[string]interface{}{"status_code": code})

	s.writeJSON(w, code, HealthCheckResponse{
		Status:    status,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
		Uptime:    s.stats.Uptime().String(),
		Version:   GetVersionInfo(),
		Checks:    checks,
		Runtime:   readRuntimeStats(),
		RequestID: requestID,
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	_, _, reason := s.runProbes(r.Context())
	resp := ReadinessResponse{
		Ready:     reason == "",
		Reason:    reason,
		Version:   GetVersionInfo(),
		RequestID: middleware.GetReqID(r.Context()),
	}
	code := http.StatusOK
	if !resp.Ready {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, resp)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, LivenessResponse{
		Alive:   true,
		Uptime:  s.stats.Uptime().String(),
		Version: GetVersionInfo(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	resp := MetricsResponse{
		Uptime:     s.stats.Uptime().String(),
		Version:    GetVersionInfo(),
		Runtime:    readRuntimeStats(),
		Operations: s.stats.Snapshot(),
	}
	if s.sessions != nil {
		resp.LiveRounds = s.sessions.Len()
	}
	s.writeJSON(w, http.StatusOK, resp)
}
