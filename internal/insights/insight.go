package insights

import (
	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

// Kind tags an insight with the rule that produced it.
type Kind string

const (
	KindWeeklyComparison Kind = "weekly_comparison"
	KindBudgetStatus     Kind = "budget_status"
	KindTopCategory      Kind = "top_category"
	KindSuggestion       Kind = "suggestion"
)

// Level is the tone a renderer should give an insight.
type Level string

const (
	LevelInfo     Level = "info"
	LevelPositive Level = "positive"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Insight is one generated feedback message. Amount and Percent carry the
// numbers quoted in Message so renderers can format them their own way.
type Insight struct {
	Kind     Kind            `json:"kind"`
	Level    Level           `json:"level"`
	Message  string          `json:"message"`
	Category core.Category   `json:"category,omitempty"`
	Amount   core.Money      `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

// ParseKind accepts the wire name of a Kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindWeeklyComparison, KindBudgetStatus, KindTopCategory, KindSuggestion:
		return k, true
	}
	return "", false
}

// OfKind keeps the insights tagged k, preserving order.
func OfKind(in []Insight, k Kind) []Insight {
	out := make([]Insight, 0, len(in))
	for _, i := range in {
		if i.Kind == k {
			out = append(out, i)
		}
	}
	return out
}
