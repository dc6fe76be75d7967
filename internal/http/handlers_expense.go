package http

import (
	"net/http"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/services"
)

type expenseRequest struct {
	ID          string     `json:"id"`
	Amount      flexString `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
}

func (req expenseRequest) input() services.ExpenseInput {
	return services.ExpenseInput{
		ID:          sanitizeInput(req.ID),
		Amount:      string(req.Amount),
		Category:    req.Category,
		Description: sanitizeInput(req.Description),
		Date:        req.Date,
	}
}

type expenseList struct {
	Expenses []core.Expense `json:"expenses"`
	Totals   core.Totals    `json:"totals"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.tracker.ListExpenses(services.ListFilter{
		Date:  q.Get("date"),
		Month: q.Get("month"),
		Week:  q.Get("week"),
	})
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseList{Expenses: items, Totals: core.CalculateTotals(items)})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.tracker.GetExpense(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	e, err := s.tracker.AddExpense(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	w.Header().Set("Location", "/api/expenses/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	e, err := s.tracker.UpdateExpense(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
