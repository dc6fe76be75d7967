package http

import (
	"net/http"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/store"
)

type budgetRequest struct {
	Amount flexString `json:"amount"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	list, err := s.tracker.Budgets(r.PathValue("period"))
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.Budget{"budgets": list})
}

// handleGetMonthlyBudget answers with amount 0 and set=false for an unset month.
func (s *Server) handleGetMonthlyBudget(w http.ResponseWriter, r *http.Request) {
	month := r.PathValue("month")
	amount, err := s.tracker.MonthlyBudget(month)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period": core.Monthly,
		"key":    month,
		"amount": amount,
		"set":    amount.IsPositive(),
	})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpSetBudget, err)
		return
	}
	period, key := r.PathValue("period"), r.PathValue("key")
	if err := s.tracker.SetBudget(r.Context(), period, key, string(req.Amount)); err != nil {
		s.fail(w, r, log.OpSetBudget, err)
		return
	}
	amount, _ := core.ParseAmount(string(req.Amount))
	writeJSON(w, http.StatusOK, store.Budget{Period: core.PeriodType(period), Key: key, Amount: amount})
}

func (s *Server) handleClearBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ClearBudget(r.Context(), r.PathValue("period"), r.PathValue("key")); err != nil {
		s.fail(w, r, log.OpClearBudget, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
