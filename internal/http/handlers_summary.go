package http

import (
	"net/http"

	"spendlog/internal/insights"
	"spendlog/internal/log"
)

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	sum, err := s.tracker.Engine().DailySummary(d)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	sum, err := s.tracker.Engine().WeeklySummary(d)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type monthlyBody struct {
	insights.MonthlySummary
	Remaining   *string `json:"remaining,omitempty"`
	PercentUsed *string `json:"percent_used,omitempty"`
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	sum, err := s.tracker.Engine().MonthlySummary(d)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	body := monthlyBody{MonthlySummary: sum}
	if remaining, pct, ok := sum.BudgetUsage(); ok {
		rem, p := remaining.String(), pct.StringFixed(1)
		body.Remaining, body.PercentUsed = &rem, &p
	}
	writeJSON(w, http.StatusOK, body)
}

// handleInsights lists insights in rule order, optionally filtered by ?kind=.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	list, err := s.tracker.Engine().GenerateInsights(d)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	if v := r.URL.Query().Get("kind"); v != "" {
		kind, ok := insights.ParseKind(v)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "unknown insight kind "+v)
			return
		}
		list = insights.OfKind(list, kind)
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": d, "insights": list})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	dash, err := s.tracker.Dashboard(r.Context(), d)
	if err != nil {
		s.fail(w, r, log.OpSummarize, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
