package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/kv"
)

// budgetDoc is the persisted shape under kv.BudgetsKey.
type budgetDoc struct {
	Monthly map[string]core.Money `json:"monthly"`
	Weekly  map[string]core.Money `json:"weekly"`
}

func newBudgetDoc() budgetDoc {
	return budgetDoc{Monthly: map[string]core.Money{}, Weekly: map[string]core.Money{}}
}

func (d budgetDoc) clone() budgetDoc {
	c := newBudgetDoc()
	for k, v := range d.Monthly {
		c.Monthly[k] = v
	}
	for k, v := range d.Weekly {
		c.Weekly[k] = v
	}
	return c
}

func (d budgetDoc) bucket(p core.PeriodType) map[string]core.Money {
	if p == core.Weekly {
		return d.Weekly
	}
	return d.Monthly
}

// Budget is one (period, key) entry.
type Budget struct {
	Period core.PeriodType `json:"period"`
	Key    string          `json:"key"`
	Amount core.Money      `json:"amount"`
}

// BudgetStore maps (period type, period key) to a budget amount.
type BudgetStore struct {
	mu  sync.RWMutex
	kv  kv.Store
	doc budgetDoc
}

// NewBudgetStore loads budgets saved under kv.BudgetsKey.
func NewBudgetStore(ctx context.Context, s kv.Store) (*BudgetStore, error) {
	doc := newBudgetDoc()
	if _, err := kv.LoadJSON(ctx, s, kv.BudgetsKey, &doc); err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	if doc.Monthly == nil {
		doc.Monthly = map[string]core.Money{}
	}
	if doc.Weekly == nil {
		doc.Weekly = map[string]core.Money{}
	}
	return &BudgetStore{kv: s, doc: doc}, nil
}

// ValidateKey checks that key is a month (YYYY-MM) for monthly budgets or a
// Monday date for weekly ones.
func ValidateKey(p core.PeriodType, key string) error {
	switch p {
	case core.Monthly:
		_, err := core.ParseMonthKey(key)
		return err
	case core.Weekly:
		d, err := core.ParseDate(key)
		if err != nil {
			return err
		}
		if d.Weekday() != time.Monday {
			return fmt.Errorf("%w: weekly budget key %s is not a Monday", core.ErrInvalidDate, key)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", core.ErrInvalidPeriod, string(p))
	}
}

// Set stores amount for (p, key), replacing any previous value.
func (s *BudgetStore) Set(ctx context.Context, p core.PeriodType, key string, amount core.Money) error {
	if err := ValidateKey(p, key); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	next.bucket(p)[key] = amount
	return s.commit(ctx, next)
}

// Remove clears the budget for (p, key). Clearing an unset budget is a no-op.
func (s *BudgetStore) Remove(ctx context.Context, p core.PeriodType, key string) error {
	if err := ValidateKey(p, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.bucket(p)[key]; !ok {
		return nil
	}
	next := s.doc.clone()
	delete(next.bucket(p), key)
	return s.commit(ctx, next)
}

func (s *BudgetStore) commit(ctx context.Context, next budgetDoc) error {
	if err := kv.SaveJSON(ctx, s.kv, kv.BudgetsKey, next); err != nil {
		return fmt.Errorf("persist budgets: %w", err)
	}
	s.doc = next
	return nil
}

// Get returns the budget for (p, key), or core.Zero when none is set.
func (s *BudgetStore) Get(p core.PeriodType, key string) core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.doc.bucket(p)[key]; ok {
		return v
	}
	return core.Zero
}

// All lists the budgets of one period type sorted by key.
func (s *BudgetStore) All(p core.PeriodType) []Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.doc.bucket(p)
	out := make([]Budget, 0, len(bucket))
	for k, v := range bucket {
		out = append(out, Budget{Period: p, Key: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
