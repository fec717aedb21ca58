package models

// MonthlyBudgets is a sparse mapping of month key ("YYYY-MM") to
// per-category spending caps. An absent entry means the budget is
// unset, which callers treat differently from an explicit zero.
type MonthlyBudgets map[string]map[string]float64

// Get returns the budget for a category in a month, or 0 when unset
func (b MonthlyBudgets) Get(monthKey, category string) float64 {
	month, ok := b[monthKey]
	if !ok {
		return 0
	}
	return month[category]
}

// Set stores a budget cap, clamping negative values to zero
func (b MonthlyBudgets) Set(monthKey, category string, amount float64) {
	if amount < 0 {
		amount = 0
	}
	if b[monthKey] == nil {
		b[monthKey] = make(map[string]float64)
	}
	b[monthKey][category] = amount
}

// Clone returns a deep copy
func (b MonthlyBudgets) Clone() MonthlyBudgets {
	out := make(MonthlyBudgets, len(b))
	for month, caps := range b {
		copied := make(map[string]float64, len(caps))
		for cat, amount := range caps {
			copied[cat] = amount
		}
		out[month] = copied
	}
	return out
}
