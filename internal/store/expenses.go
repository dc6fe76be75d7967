// Package store holds the expense and budget collections in memory and
// writes them through to a kv.Store on every mutation.
package store

import (
	"context"
	"fmt"
	"sync"

	"spendlog/internal/core"
	"spendlog/internal/kv"
	"spendlog/internal/log"
)

// ExpenseStore is the in-memory expense collection. Records keep insertion
// order; Update replaces a record in place.
type ExpenseStore struct {
	mu    sync.RWMutex
	kv    kv.Store
	items []core.Expense
}

// NewExpenseStore loads the collection saved under kv.ExpensesKey.
// A missing key yields an empty store. Skipped records are logged through
// the logger carried by ctx.
func NewExpenseStore(ctx context.Context, s kv.Store) (*ExpenseStore, error) {
	var items []core.Expense
	if _, err := kv.LoadJSON(ctx, s, kv.ExpensesKey, &items); err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)
	st := &ExpenseStore{kv: s, items: make([]core.Expense, 0, len(items))}
	for _, e := range items {
		e = e.Normalize()
		if err := e.Validate(); err != nil {
			logger.WarnContext(ctx, "Skipping invalid stored expense",
				log.FieldExpenseID, e.ID, log.FieldError, err.Error())
			continue
		}
		if st.indexOf(e.ID) >= 0 {
			logger.WarnContext(ctx, "Skipping duplicate stored expense", log.FieldExpenseID, e.ID)
			continue
		}
		st.items = append(st.items, e)
	}
	return st, nil
}

// Add appends e. The ID must be unique.
func (s *ExpenseStore) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(e.ID) >= 0 {
		return core.Expense{}, fmt.Errorf("%w: %s", core.ErrDuplicateID, e.ID)
	}

	next := make([]core.Expense, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, e)

	if err := s.commit(ctx, next); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// Update replaces every field of the record with e.ID.
func (s *ExpenseStore) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(e.ID)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", e.ID, core.ErrNotFound)
	}

	next := append([]core.Expense(nil), s.items...)
	next[i] = e

	if err := s.commit(ctx, next); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// Delete removes the record with id.
func (s *ExpenseStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}

	next := make([]core.Expense, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)

	return s.commit(ctx, next)
}

// commit persists next and only then swaps it in. Callers hold s.mu.
func (s *ExpenseStore) commit(ctx context.Context, next []core.Expense) error {
	if err := kv.SaveJSON(ctx, s.kv, kv.ExpensesKey, next); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	s.items = next
	return nil
}

func (s *ExpenseStore) indexOf(id string) int {
	for i, e := range s.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the record with id.
func (s *ExpenseStore) Get(id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
}

// List returns every record in insertion order.
func (s *ExpenseStore) List() []core.Expense {
	return s.filter(func(core.Expense) bool { return true })
}

// Len returns the number of records.
func (s *ExpenseStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ByDate returns records dated exactly d.
func (s *ExpenseStore) ByDate(d core.Date) []core.Expense {
	return s.filter(func(e core.Expense) bool { return e.Date.Equal(d.Time) })
}

// ByMonth returns records whose date falls in month m.
func (s *ExpenseStore) ByMonth(m core.MonthKey) []core.Expense {
	return s.filter(func(e core.Expense) bool { return m.Contains(e.Date) })
}

// ByWeek returns records dated within [weekStart, weekStart+6], both ends
// included.
func (s *ExpenseStore) ByWeek(weekStart core.Date) []core.Expense {
	first, last := core.WeekRange(weekStart)
	return s.filter(func(e core.Expense) bool {
		return !e.Date.Before(first) && !e.Date.After(last)
	})
}

func (s *ExpenseStore) filter(keep func(core.Expense) bool) []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, 0)
	for _, e := range s.items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
