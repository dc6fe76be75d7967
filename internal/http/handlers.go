package http

import (
	"context"
	"net/http"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/trace"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the storage backend when one is configured.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	storage := "ok"
	if s.ready != nil {
		if err := s.ready.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
			status, code = "not_ready", http.StatusServiceUnavailable
			storage = "failed: " + err.Error()
		}
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    map[string]string{"storage": storage},
	})
}

type metricsBody struct {
	Requests      trace.Metrics     `json:"requests"`
	RateLimit     ratelimit.Metrics `json:"rate_limit"`
	Suspicious    int64             `json:"suspicious_requests"`
	UptimeSeconds int64             `json:"uptime_seconds"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metricsBody{
		Requests:      s.tracer.GetMetrics(),
		RateLimit:     s.limiter.GetMetrics(),
		Suspicious:    s.detector.Flagged(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": core.Categories()})
}
