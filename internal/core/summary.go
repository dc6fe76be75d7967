package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// Totals is the aggregate of a set of expenses. ByCategory keeps categories
// in the order they were first seen and omits categories with no spend.
type Totals struct {
	Total      Money            `json:"total"`
	ByCategory []CategoryAmount `json:"by_category"`
}

// CalculateTotals sums amounts overall and per category.
func CalculateTotals(expenses []Expense) Totals {
	t := Totals{Total: Zero, ByCategory: []CategoryAmount{}}
	index := make(map[Category]int)
	for _, e := range expenses {
		t.Total = t.Total.Add(e.Amount)
		if i, ok := index[e.Category]; ok {
			t.ByCategory[i].Amount = t.ByCategory[i].Amount.Add(e.Amount)
			continue
		}
		index[e.Category] = len(t.ByCategory)
		t.ByCategory = append(t.ByCategory, CategoryAmount{Category: e.Category, Amount: e.Amount})
	}
	return t
}

// Amount returns the total for c, zero when c has no spend.
func (t Totals) Amount(c Category) Money {
	for _, ca := range t.ByCategory {
		if ca.Category == c {
			return ca.Amount
		}
	}
	return Zero
}

// Top returns the category with the largest amount. On ties the category
// seen first wins. ok is false when there is no spend at all.
func (t Totals) Top() (top CategoryAmount, ok bool) {
	for i, ca := range t.ByCategory {
		if i == 0 || ca.Amount.GreaterThan(top.Amount.Decimal) {
			top = ca
			ok = true
		}
	}
	return top, ok
}

// IsEmpty reports whether the total is zero.
func (t Totals) IsEmpty() bool {
	return t.Total.IsZero()
}
