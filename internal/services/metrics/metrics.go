// Package metrics provides pure aggregation functions over the ledger.
// Nothing here mutates state or caches results: every call re-scans the
// transactions it is given, so callers may filter freely.
package metrics

import (
	"sort"
	"time"

	"smartspend/internal/models"
)

// FilterByMonth returns the transactions whose local calendar month
// matches the given "YYYY-MM" key. Transactions with unparseable dates
// carry the zero time and match no key.
func FilterByMonth(txs []models.Transaction, monthKey string) []models.Transaction {
	var out []models.Transaction
	for _, t := range txs {
		if t.Date.MonthKey() == monthKey {
			out = append(out, t)
		}
	}
	return out
}

// Totals sums amounts partitioned by type. Income counts everything
// typed "income"; everything else lands in expense, so documents that
// arrived via import with an unknown type still total up somewhere.
func Totals(txs []models.Transaction) (income, expense float64) {
	for _, t := range txs {
		if t.Type == models.Income {
			income += t.Amount
		} else {
			expense += t.Amount
		}
	}
	return income, expense
}

// CategorySpend sums expense amounts for one category within a month
func CategorySpend(txs []models.Transaction, category, monthKey string) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type != models.Expense || t.Category != category {
			continue
		}
		if t.Date.MonthKey() == monthKey {
			sum += t.Amount
		}
	}
	return sum
}

// CategoryTotals sums expense amounts per category, preserving the
// order in which each category is first encountered
func CategoryTotals(txs []models.Transaction) ([]string, map[string]float64) {
	var order []string
	totals := make(map[string]float64)
	for _, t := range txs {
		if t.Type != models.Expense {
			continue
		}
		if _, ok := totals[t.Category]; !ok {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount
	}
	return order, totals
}

// AccountTotals sums expense amounts per account in first-encounter order
func AccountTotals(txs []models.Transaction) ([]string, map[string]float64) {
	var order []string
	totals := make(map[string]float64)
	for _, t := range txs {
		if t.Type != models.Expense {
			continue
		}
		if _, ok := totals[t.Account]; !ok {
			order = append(order, t.Account)
		}
		totals[t.Account] += t.Amount
	}
	return order, totals
}

// CountByCategory counts expense transactions per category in
// first-encounter order
func CountByCategory(txs []models.Transaction) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for _, t := range txs {
		if t.Type != models.Expense {
			continue
		}
		if _, ok := counts[t.Category]; !ok {
			order = append(order, t.Category)
		}
		counts[t.Category]++
	}
	return order, counts
}

// BudgetSummary aggregates the budget position for one month
type BudgetSummary struct {
	TotalBudget    float64 `json:"totalBudget"`
	TotalSpent     float64 `json:"totalSpent"`
	TotalRemaining float64 `json:"totalRemaining"`
}

// Budgets computes the month's budget summary across all categories.
// TotalRemaining never goes negative.
func Budgets(l *models.Ledger, monthKey string) BudgetSummary {
	var s BudgetSummary
	for _, c := range l.Categories {
		s.TotalBudget += l.BudgetsMonthly.Get(monthKey, c.Name)
		s.TotalSpent += CategorySpend(l.Transactions, c.Name, monthKey)
	}
	s.TotalRemaining = s.TotalBudget - s.TotalSpent
	if s.TotalRemaining < 0 {
		s.TotalRemaining = 0
	}
	return s
}

// BreakdownRow is one category slice of the monthly spend breakdown
type BreakdownRow struct {
	Category string  `json:"category"`
	Icon     string  `json:"icon"`
	Color    string  `json:"color"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
}

// Breakdown returns the month's expense breakdown sorted by amount,
// largest first. Categories that no longer exist in the ledger degrade
// to a placeholder icon and color instead of failing.
func Breakdown(l *models.Ledger, monthKey string) []BreakdownRow {
	monthTxs := FilterByMonth(l.Transactions, monthKey)
	order, totals := CategoryTotals(monthTxs)

	var total float64
	for _, name := range order {
		total += totals[name]
	}
	if total == 0 {
		total = 1
	}

	rows := make([]BreakdownRow, 0, len(order))
	for _, name := range order {
		icon, color := models.MissingIcon, models.DefaultColor
		if c := l.FindCategory(name); c != nil {
			icon, color = c.Icon, c.Color
		}
		rows = append(rows, BreakdownRow{
			Category: name,
			Icon:     icon,
			Color:    color,
			Amount:   totals[name],
			Percent:  totals[name] / total * 100,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount > rows[j].Amount
	})
	return rows
}

// MonthKeys returns every month key present in the ledger plus the
// current month, sorted newest first
func MonthKeys(l *models.Ledger, now time.Time) []string {
	set := map[string]bool{models.MonthKeyOf(now): true}
	for _, t := range l.Transactions {
		if key := t.Date.MonthKey(); key != "" {
			set[key] = true
		}
	}

	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// PercentChange computes the percentage change between two values
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
