// Package insights derives period summaries and rule-based feedback from
// the expense and budget stores. It never mutates what it reads.
package insights

import (
	"fmt"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

// ExpenseReader is the read side of the expense store.
type ExpenseReader interface {
	ByDate(d core.Date) []core.Expense
	ByWeek(weekStart core.Date) []core.Expense
	ByMonth(m core.MonthKey) []core.Expense
}

// BudgetReader returns core.Zero for an unset budget.
type BudgetReader interface {
	Get(p core.PeriodType, key string) core.Money
}

type Engine struct {
	expenses ExpenseReader
	budgets  BudgetReader
	policy   Policy
}

func New(expenses ExpenseReader, budgets BudgetReader, policy Policy) *Engine {
	return &Engine{expenses: expenses, budgets: budgets, policy: policy}
}

type DailySummary struct {
	Date   core.Date   `json:"date"`
	Totals core.Totals `json:"totals"`
}

type WeeklySummary struct {
	CurrentWeek core.Date   `json:"current_week"`
	LastWeek    core.Date   `json:"last_week"`
	Current     core.Totals `json:"current"`
	Last        core.Totals `json:"last"`
}

type MonthlySummary struct {
	CurrentMonth core.MonthKey `json:"current_month"`
	PrevMonth    core.MonthKey `json:"prev_month"`
	Current      core.Totals   `json:"current"`
	Prev         core.Totals   `json:"prev"`
	Budget       core.Money    `json:"budget"`
}

var hundred = decimal.NewFromInt(100)

// BudgetUsage reports how much of the monthly budget is left and the share
// spent, rounded to one decimal. ok is false when no budget is set.
func (m MonthlySummary) BudgetUsage() (remaining core.Money, percentUsed decimal.Decimal, ok bool) {
	if !m.Budget.IsPositive() {
		return core.Zero, decimal.Zero, false
	}
	return m.Budget.Sub(m.Current.Total), m.Current.Total.Percent(m.Budget).Round(1), true
}

func (e *Engine) DailySummary(now core.Date) (DailySummary, error) {
	if err := now.Validate(); err != nil {
		return DailySummary{}, err
	}
	return DailySummary{Date: now, Totals: core.CalculateTotals(e.expenses.ByDate(now))}, nil
}

func (e *Engine) WeeklySummary(now core.Date) (WeeklySummary, error) {
	if err := now.Validate(); err != nil {
		return WeeklySummary{}, err
	}
	current := now.WeekStart()
	last := current.AddDays(-7)
	return WeeklySummary{
		CurrentWeek: current,
		LastWeek:    last,
		Current:     core.CalculateTotals(e.expenses.ByWeek(current)),
		Last:        core.CalculateTotals(e.expenses.ByWeek(last)),
	}, nil
}

func (e *Engine) MonthlySummary(now core.Date) (MonthlySummary, error) {
	if err := now.Validate(); err != nil {
		return MonthlySummary{}, err
	}
	current := now.MonthKey()
	prev, err := current.Previous()
	if err != nil {
		return MonthlySummary{}, err
	}
	return MonthlySummary{
		CurrentMonth: current,
		PrevMonth:    prev,
		Current:      core.CalculateTotals(e.expenses.ByMonth(current)),
		Prev:         core.CalculateTotals(e.expenses.ByMonth(prev)),
		Budget:       e.budgets.Get(core.Monthly, string(current)),
	}, nil
}

// GenerateInsights runs the rules in order: weekly comparison, budget
// status, top category. Callers may rely on that order.
func (e *Engine) GenerateInsights(now core.Date) ([]Insight, error) {
	week, err := e.WeeklySummary(now)
	if err != nil {
		return nil, err
	}
	month, err := e.MonthlySummary(now)
	if err != nil {
		return nil, err
	}

	out := make([]Insight, 0, 4)
	if i, ok := weeklyComparison(week); ok {
		out = append(out, i)
	}
	out = append(out, e.budgetStatus(month))
	out = append(out, e.topCategory(month)...)
	return out, nil
}

func weeklyComparison(w WeeklySummary) (Insight, bool) {
	current, last := w.Current.Total, w.Last.Total
	if current.IsZero() {
		return Insight{}, false
	}
	if last.IsZero() {
		return Insight{
			Kind:    KindWeeklyComparison,
			Level:   LevelInfo,
			Message: "Keep logging expenses to start comparing with last week",
			Amount:  current,
		}, true
	}

	diff := current.Sub(last)
	if diff.IsZero() {
		return Insight{}, false
	}
	pct := diff.Abs().Percent(last).Round(0)
	if diff.IsPositive() {
		return Insight{
			Kind:    KindWeeklyComparison,
			Level:   LevelWarning,
			Message: fmt.Sprintf("Spending is %s%% higher than last week", pct),
			Amount:  diff,
			Percent: pct,
		}, true
	}
	return Insight{
		Kind:    KindWeeklyComparison,
		Level:   LevelPositive,
		Message: fmt.Sprintf("Spending is %s%% lower than last week", pct),
		Amount:  diff.Abs(),
		Percent: pct,
	}, true
}

func (e *Engine) budgetStatus(m MonthlySummary) Insight {
	if !m.Budget.IsPositive() {
		return Insight{
			Kind:    KindBudgetStatus,
			Level:   LevelInfo,
			Message: "Tip: set a monthly budget to track how your spending compares",
		}
	}

	remaining := m.Budget.Sub(m.Current.Total)
	used := m.Current.Total.Percent(m.Budget)
	shown := used.Round(1)
	switch {
	case remaining.IsNegative():
		over := remaining.Abs()
		return Insight{
			Kind:    KindBudgetStatus,
			Level:   LevelCritical,
			Message: fmt.Sprintf("Critical: you are over budget by %s this month", over.Display()),
			Amount:  over,
			Percent: shown,
		}
	case used.LessThan(e.policy.NearLimitPercent):
		return Insight{
			Kind:    KindBudgetStatus,
			Level:   LevelPositive,
			Message: fmt.Sprintf("Excellent: you are under budget with %s remaining this month", remaining.Display()),
			Amount:  remaining,
			Percent: shown,
		}
	default:
		return Insight{
			Kind:    KindBudgetStatus,
			Level:   LevelWarning,
			Message: fmt.Sprintf("Caution: %s%% of this month's budget is used, %s remaining", shown.StringFixed(1), remaining.Display()),
			Amount:  remaining,
			Percent: shown,
		}
	}
}

func (e *Engine) topCategory(m MonthlySummary) []Insight {
	top, ok := m.Current.Top()
	if !ok {
		return nil
	}
	out := []Insight{{
		Kind:     KindTopCategory,
		Level:    LevelInfo,
		Message:  fmt.Sprintf("Your top spending category this month is %s at %s", top.Category, top.Amount.Display()),
		Category: top.Category,
		Amount:   top.Amount,
	}}
	if e.policy.suggestsSavings(top.Category) {
		out = append(out, Insight{
			Kind:     KindSuggestion,
			Level:    LevelInfo,
			Message:  fmt.Sprintf("Consider cutting back on %s to grow your savings", top.Category),
			Category: top.Category,
			Amount:   top.Amount,
		})
	}
	return out
}
