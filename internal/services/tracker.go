// Package services ties the stores and the insights engine together for the
// outer layers.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendlog/internal/cache"
	"spendlog/internal/core"
	"spendlog/internal/insights"
	"spendlog/internal/log"
	"spendlog/internal/store"
)

const (
	dashboardCacheSize = 16
	dashboardCacheTTL  = 5 * time.Minute
)

// ErrConflictingFilter is returned when more than one list filter is set.
var ErrConflictingFilter = errors.New("only one of date, month or week may be set")

// ExpenseInput is an expense as submitted by a client, before parsing.
type ExpenseInput struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// ListFilter selects a subset of expenses. The zero value lists everything.
type ListFilter struct {
	Date  string
	Month string
	Week  string
}

// Dashboard bundles everything a renderer shows for one day.
type Dashboard struct {
	Daily    insights.DailySummary   `json:"daily"`
	Weekly   insights.WeeklySummary  `json:"weekly"`
	Monthly  insights.MonthlySummary `json:"monthly"`
	Budget   *BudgetUsage            `json:"budget,omitempty"`
	Insights []insights.Insight      `json:"insights"`
}

// BudgetUsage is the monthly budget position, present only when a budget is set.
type BudgetUsage struct {
	Remaining   core.Money `json:"remaining"`
	PercentUsed string     `json:"percent_used"`
}

// Tracker orchestrates expense and budget operations
type Tracker struct {
	expenses *store.ExpenseStore
	budgets  *store.BudgetStore
	engine   *insights.Engine
	logger   *log.Logger
	audit    *log.StructuredLogger

	// insightsLog reports dashboard computation.
	insightsLog *log.Logger

	// dashboards holds computed dashboards by day. Every write bumps
	// generation and purges it under cacheMu.
	dashboards *cache.LRUCache[Dashboard]
	cacheMu    sync.Mutex
	generation uint64

	newID func() string
	today func() core.Date
}

func NewTracker(expenses *store.ExpenseStore, budgets *store.BudgetStore, policy insights.Policy, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Tracker{
		expenses: expenses,
		budgets:  budgets,
		engine:   insights.New(expenses, budgets, policy),
		logger:   logger.WithComponent(log.ComponentExpense),
		audit:    log.NewStructuredLogger(logger),

		insightsLog: logger.WithComponent(log.ComponentInsights),

		dashboards: cache.NewLRUCache[Dashboard](dashboardCacheSize, dashboardCacheTTL),

		newID: uuid.NewString,
		today: core.Today,
	}
}

// invalidate runs after a successful write. A dashboard computed from the
// previous generation is never cached afterwards.
func (t *Tracker) invalidate() {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	t.generation++
	t.dashboards.Purge()
}

func (t *Tracker) currentGeneration() uint64 {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	return t.generation
}

// cacheDashboard stores d only if no write happened since gen was read.
func (t *Tracker) cacheDashboard(key string, gen uint64, d Dashboard) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	if t.generation == gen {
		t.dashboards.Set(key, d.clone())
	}
}

// Engine exposes the insights engine for read-only callers.
func (t *Tracker) Engine() *insights.Engine {
	return t.engine
}

func (t *Tracker) parse(in ExpenseInput) (core.Expense, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(in.Category)
	if err != nil {
		return core.Expense{}, err
	}
	date := t.today()
	if in.Date != "" {
		if date, err = core.ParseDate(in.Date); err != nil {
			return core.Expense{}, err
		}
	}
	return core.Expense{
		ID:          in.ID,
		Amount:      amount,
		Category:    category,
		Description: in.Description,
		Date:        date,
	}.Normalize(), nil
}

// AddExpense records a new expense. A blank ID gets a generated UUID and a
// blank date means today.
func (t *Tracker) AddExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e, err := t.parse(in)
	if err != nil {
		return core.Expense{}, err
	}
	if e.ID == "" {
		e.ID = t.newID()
	}

	saved, err := t.expenses.Add(ctx, e)
	if err != nil {
		if !errors.Is(err, core.ErrDuplicateID) {
			t.audit.LogError(ctx, "Failed to add expense", err, log.ComponentExpense, log.OpCreate,
				log.NewFields().WithExpense(e.ID, e.Amount.String(), e.Category.String(), e.Date.Key()))
		}
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	t.invalidate()

	t.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithExpense(saved.ID, saved.Amount.String(), saved.Category.String(), saved.Date.Key()).
			WithOperation(log.OpCreate).ToSlice()...)
	return saved, nil
}

// UpdateExpense replaces every field of the expense with id.
func (t *Tracker) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (core.Expense, error) {
	in.ID = id
	e, err := t.parse(in)
	if err != nil {
		return core.Expense{}, err
	}

	saved, err := t.expenses.Update(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	t.invalidate()

	t.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithExpense(saved.ID, saved.Amount.String(), saved.Category.String(), saved.Date.Key()).
			WithOperation(log.OpUpdate).ToSlice()...)
	return saved, nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	if err := t.expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	t.invalidate()
	t.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)
	return nil
}

func (t *Tracker) GetExpense(id string) (core.Expense, error) {
	return t.expenses.Get(id)
}

// ListExpenses returns expenses matching f in insertion order. A week
// filter accepts any day and uses the week containing it.
func (t *Tracker) ListExpenses(f ListFilter) ([]core.Expense, error) {
	set := 0
	for _, v := range []string{f.Date, f.Month, f.Week} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, ErrConflictingFilter
	}

	switch {
	case f.Date != "":
		d, err := core.ParseDate(f.Date)
		if err != nil {
			return nil, err
		}
		return t.expenses.ByDate(d), nil
	case f.Month != "":
		m, err := core.ParseMonthKey(f.Month)
		if err != nil {
			return nil, err
		}
		return t.expenses.ByMonth(m), nil
	case f.Week != "":
		d, err := core.ParseDate(f.Week)
		if err != nil {
			return nil, err
		}
		return t.expenses.ByWeek(d.WeekStart()), nil
	default:
		return t.expenses.List(), nil
	}
}

func (t *Tracker) SetMonthlyBudget(ctx context.Context, month, amount string) error {
	return t.setBudget(ctx, core.Monthly, month, amount)
}

// SetWeeklyBudget stores a budget for the week starting on weekKey, which
// must be a Monday.
func (t *Tracker) SetWeeklyBudget(ctx context.Context, weekKey, amount string) error {
	return t.setBudget(ctx, core.Weekly, weekKey, amount)
}

// SetBudget parses the period type and delegates to the matching setter.
func (t *Tracker) SetBudget(ctx context.Context, period, key, amount string) error {
	p, err := core.ParsePeriodType(period)
	if err != nil {
		return err
	}
	return t.setBudget(ctx, p, key, amount)
}

func (t *Tracker) setBudget(ctx context.Context, p core.PeriodType, key, amount string) error {
	m, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}
	if err := t.budgets.Set(ctx, p, key, m); err != nil {
		return fmt.Errorf("set %s budget: %w", p, err)
	}
	t.invalidate()
	t.logger.InfoContext(ctx, "Budget set",
		log.NewFields().WithBudget(string(p), key, m.String()).WithOperation(log.OpSetBudget).ToSlice()...)
	return nil
}

func (t *Tracker) ClearBudget(ctx context.Context, period, key string) error {
	p, err := core.ParsePeriodType(period)
	if err != nil {
		return err
	}
	if err := t.budgets.Remove(ctx, p, key); err != nil {
		return fmt.Errorf("clear %s budget: %w", p, err)
	}
	t.invalidate()
	t.logger.InfoContext(ctx, "Budget cleared",
		log.FieldPeriod, string(p), log.FieldPeriodKey, key, log.FieldOperation, log.OpClearBudget)
	return nil
}

// MonthlyBudget returns the budget for month, core.Zero when unset.
func (t *Tracker) MonthlyBudget(month string) (core.Money, error) {
	m, err := core.ParseMonthKey(month)
	if err != nil {
		return core.Zero, err
	}
	return t.budgets.Get(core.Monthly, string(m)), nil
}

func (t *Tracker) Budgets(period string) ([]store.Budget, error) {
	p, err := core.ParsePeriodType(period)
	if err != nil {
		return nil, err
	}
	return t.budgets.All(p), nil
}

// Dashboard computes every summary and the insights for now. Results are
// reused until the next write. Each call returns its own copy.
func (t *Tracker) Dashboard(ctx context.Context, now core.Date) (Dashboard, error) {
	if err := now.Validate(); err != nil {
		return Dashboard{}, err
	}
	if d, ok := t.dashboards.Get(now.Key()); ok {
		return d.clone(), nil
	}
	gen := t.currentGeneration()

	daily, err := t.engine.DailySummary(now)
	if err != nil {
		return Dashboard{}, err
	}
	weekly, err := t.engine.WeeklySummary(now)
	if err != nil {
		return Dashboard{}, err
	}
	monthly, err := t.engine.MonthlySummary(now)
	if err != nil {
		return Dashboard{}, err
	}
	list, err := t.engine.GenerateInsights(now)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Daily: daily, Weekly: weekly, Monthly: monthly, Insights: list}
	if remaining, pct, ok := monthly.BudgetUsage(); ok {
		d.Budget = &BudgetUsage{Remaining: remaining, PercentUsed: pct.StringFixed(1)}
	}

	t.insightsLog.DebugContext(ctx, "Dashboard computed",
		log.FieldDate, now.Key(), log.FieldMonth, now.MonthKey().String(),
		log.FieldCount, len(list), log.FieldOperation, log.OpSummarize)

	// A write that landed while computing has already purged; caching now
	// would pin the older result.
	t.cacheDashboard(now.Key(), gen, d)
	return d, nil
}

func (d Dashboard) clone() Dashboard {
	d.Daily.Totals = cloneTotals(d.Daily.Totals)
	d.Weekly.Current = cloneTotals(d.Weekly.Current)
	d.Weekly.Last = cloneTotals(d.Weekly.Last)
	d.Monthly.Current = cloneTotals(d.Monthly.Current)
	d.Monthly.Prev = cloneTotals(d.Monthly.Prev)
	if d.Budget != nil {
		b := *d.Budget
		d.Budget = &b
	}
	d.Insights = append([]insights.Insight(nil), d.Insights...)
	return d
}

func cloneTotals(t core.Totals) core.Totals {
	t.ByCategory = append([]core.CategoryAmount(nil), t.ByCategory...)
	return t
}
