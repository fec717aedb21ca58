// Package insights derives human-readable observations from the ledger.
//
// Observations always describe the real current calendar month and the
// one before it, regardless of which month the user is browsing. Every
// rule is independently gated so the engine never divides by zero and
// never returns an error.
package insights

import (
	"fmt"
	"math"
	"time"

	"smartspend/internal/models"
	"smartspend/internal/services/metrics"
)

// Observation kinds, in the order rules emit them
const (
	KindInsufficientData = "insufficient-data"
	KindMonthTrend       = "month-trend"
	KindCategoryTrend    = "category-trend"
	KindHabit            = "habit"
	KindBurnRate         = "burn-rate"
	KindAccountDrain     = "account-drain"
	KindSavingsTip       = "savings-tip"
	KindStable           = "stable"
)

// Observation severities
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityPositive = "positive"
)

// Observation is one textual insight, ready for display
type Observation struct {
	Kind          string  `json:"kind"`
	Severity      string  `json:"severity"`
	Message       string  `json:"message"`
	Category      string  `json:"category,omitempty"`
	Account       string  `json:"account,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	ChangePercent float64 `json:"changePercent,omitempty"`
}

// minTransactions gates the whole engine: below this there is not
// enough history to say anything useful
const minTransactions = 5

// trend thresholds, in percent
const (
	monthTrendThreshold    = 15
	categoryTrendThreshold = 30
	habitCountThreshold    = 6
)

// Generate evaluates all insight rules against the ledger at the given
// wall-clock time and returns the ordered observations
func Generate(l *models.Ledger, now time.Time) []Observation {
	if len(l.Transactions) < minTransactions {
		return []Observation{{
			Kind:     KindInsufficientData,
			Severity: SeverityInfo,
			Message:  "Not enough data yet. Add more transactions to unlock smart insights.",
		}}
	}

	thisKey := models.MonthKeyOf(now)
	lastKey := models.PreviousMonthKey(now)

	var thisMonth, lastMonth []models.Transaction
	for _, t := range l.Transactions {
		if t.Type != models.Expense {
			continue
		}
		switch t.Date.MonthKey() {
		case thisKey:
			thisMonth = append(thisMonth, t)
		case lastKey:
			lastMonth = append(lastMonth, t)
		}
	}

	var thisTotal, lastTotal float64
	for _, t := range thisMonth {
		thisTotal += t.Amount
	}
	for _, t := range lastMonth {
		lastTotal += t.Amount
	}

	currency := l.Settings.Currency

	var obs []Observation
	obs = append(obs, monthTrend(thisTotal, lastTotal)...)
	obs = append(obs, categoryTrends(thisMonth, lastMonth)...)
	obs = append(obs, habits(thisMonth)...)
	obs = append(obs, burnRate(thisTotal, now, currency))
	obs = append(obs, accountDrain(thisMonth)...)
	obs = append(obs, savingsTip(thisTotal, currency)...)

	if len(obs) == 0 {
		obs = append(obs, Observation{
			Kind:     KindStable,
			Severity: SeverityInfo,
			Message:  "Your spending looks stable. No unusual patterns detected.",
		})
	}
	return obs
}

// monthTrend compares this month's expense total to last month's.
// A zero last month is skipped entirely: no division, no "infinite
// increase" message.
func monthTrend(thisTotal, lastTotal float64) []Observation {
	if lastTotal <= 0 {
		return nil
	}

	change := metrics.PercentChange(thisTotal, lastTotal)
	switch {
	case change > monthTrendThreshold:
		return []Observation{{
			Kind:          KindMonthTrend,
			Severity:      SeverityWarning,
			Message:       fmt.Sprintf("Your spending increased by %.1f%% compared to last month.", change),
			ChangePercent: change,
		}}
	case change < -monthTrendThreshold:
		return []Observation{{
			Kind:          KindMonthTrend,
			Severity:      SeverityPositive,
			Message:       fmt.Sprintf("Good job! You reduced spending by %.1f%% this month.", math.Abs(change)),
			ChangePercent: change,
		}}
	}
	return nil
}

// categoryTrends flags categories whose spend rose sharply versus last
// month. Categories new this month have no baseline and are skipped.
func categoryTrends(thisMonth, lastMonth []models.Transaction) []Observation {
	order, current := metrics.CategoryTotals(thisMonth)
	_, previous := metrics.CategoryTotals(lastMonth)

	var obs []Observation
	for _, cat := range order {
		prev, ok := previous[cat]
		if !ok || prev == 0 {
			continue
		}
		change := metrics.PercentChange(current[cat], prev)
		if change > categoryTrendThreshold {
			obs = append(obs, Observation{
				Kind:          KindCategoryTrend,
				Severity:      SeverityWarning,
				Message:       fmt.Sprintf("Your %s expenses increased by %.0f%% this month.", cat, change),
				Category:      cat,
				ChangePercent: change,
			})
		}
	}
	return obs
}

// habits flags categories hit frequently this month
func habits(thisMonth []models.Transaction) []Observation {
	order, counts := metrics.CountByCategory(thisMonth)

	var obs []Observation
	for _, cat := range order {
		if counts[cat] >= habitCountThreshold {
			obs = append(obs, Observation{
				Kind:     KindHabit,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("You spend very frequently on %s. This looks like a habit.", cat),
				Category: cat,
			})
		}
	}
	return obs
}

// burnRate projects the full-month spend from the per-day average so
// far. Always emitted once the engine is past its data gate, even when
// the projection is zero.
func burnRate(thisTotal float64, now time.Time, currency string) Observation {
	local := now.In(time.Local)
	daysPassed := local.Day()
	daysInMonth := time.Date(local.Year(), local.Month()+1, 0, 0, 0, 0, 0, time.Local).Day()

	avgPerDay := thisTotal / float64(daysPassed)
	projected := avgPerDay * float64(daysInMonth)

	return Observation{
		Kind:     KindBurnRate,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("At this rate, you may spend around %s %.0f this month.", currency, projected),
		Amount:   projected,
	}
}

// accountDrain names the account with the highest expense sum this
// month. The comparison is strictly greater-than, so the first account
// encountered wins ties.
func accountDrain(thisMonth []models.Transaction) []Observation {
	order, totals := metrics.AccountTotals(thisMonth)

	var top string
	var max float64
	for _, acc := range order {
		if totals[acc] > max {
			max = totals[acc]
			top = acc
		}
	}
	if top == "" {
		return nil
	}

	return []Observation{{
		Kind:     KindAccountDrain,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("Your %s account is draining the fastest this month.", top),
		Account:  top,
		Amount:   max,
	}}
}

// savingsTip suggests what saving 10% of this month's spend would yield
func savingsTip(thisTotal float64, currency string) []Observation {
	if thisTotal <= 0 {
		return nil
	}
	save := thisTotal * 0.10
	return []Observation{{
		Kind:     KindSavingsTip,
		Severity: SeverityPositive,
		Message:  fmt.Sprintf("If you cut just 10%% spending, you could save %s %.0f this month.", currency, save),
		Amount:   save,
	}}
}
