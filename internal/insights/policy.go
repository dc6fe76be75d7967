package insights

import (
	"fmt"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

const DefaultNearLimitPercent = 80

// Policy holds the product thresholds the rules apply.
type Policy struct {
	// NearLimitPercent is the share of the monthly budget at which the
	// budget rule switches from "excellent" to "caution".
	NearLimitPercent decimal.Decimal
	// SavingsCategories trigger a savings suggestion when they top the month.
	SavingsCategories []core.Category
}

func DefaultPolicy() Policy {
	return Policy{
		NearLimitPercent:  decimal.NewFromInt(DefaultNearLimitPercent),
		SavingsCategories: []core.Category{core.Entertainment, core.Shopping},
	}
}

func (p Policy) Validate() error {
	if !p.NearLimitPercent.IsPositive() || p.NearLimitPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("near limit percent must be in (0, 100], got %s", p.NearLimitPercent)
	}
	for _, c := range p.SavingsCategories {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("savings categories: %w", err)
		}
	}
	return nil
}

func (p Policy) suggestsSavings(c core.Category) bool {
	for _, s := range p.SavingsCategories {
		if s == c {
			return true
		}
	}
	return false
}
