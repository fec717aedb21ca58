// Package analysis exposes the read-only aggregation surface: monthly
// summaries, the category breakdown, budget totals and the month list.
package analysis

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apihttp "smartspend/internal/http"
	ledgersvc "smartspend/internal/services/ledger"
	"smartspend/internal/services/metrics"
)

var svc *ledgersvc.Service

// Initialize sets up the analysis package with required dependencies
func Initialize(s *ledgersvc.Service) {
	svc = s
}

// RegisterRoutes registers all analysis routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/summary", handleSummary)
	r.Get("/api/analysis", handleAnalysis)
	r.Get("/api/budgets/summary", handleBudgetSummary)
	r.Get("/api/months", handleMonths)
}

func handleSummary(w http.ResponseWriter, r *http.Request) {
	month := apihttp.ParseMonth(r, time.Now())

	l := svc.Ledger()
	monthTxs := metrics.FilterByMonth(l.Transactions, month)
	income, expense := metrics.Totals(monthTxs)

	var totalBalance float64
	for _, a := range l.Accounts {
		totalBalance += a.Balance
	}

	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"month":        month,
		"income":       income,
		"expense":      expense,
		"net":          income - expense,
		"totalBalance": totalBalance,
		"currency":     l.Settings.Currency,
	})
}

func handleAnalysis(w http.ResponseWriter, r *http.Request) {
	month := apihttp.ParseMonth(r, time.Now())

	l := svc.Ledger()
	rows := metrics.Breakdown(l, month)
	if rows == nil {
		rows = []metrics.BreakdownRow{}
	}

	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"month":     month,
		"breakdown": rows,
	})
}

func handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	month := apihttp.ParseMonth(r, time.Now())

	l := svc.Ledger()
	summary := metrics.Budgets(l, month)

	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"month":          month,
		"totalBudget":    summary.TotalBudget,
		"totalSpent":     summary.TotalSpent,
		"totalRemaining": summary.TotalRemaining,
	})
}

func handleMonths(w http.ResponseWriter, r *http.Request) {
	l := svc.Ledger()
	apihttp.JSON(w, http.StatusOK, metrics.MonthKeys(l, time.Now()))
}
