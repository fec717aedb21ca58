package models

import (
	"encoding/json"
	"time"
)

// TransactionType indicates whether a transaction is an expense or income
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Icon and name sentinels used when denormalized references go stale
const (
	OtherCategory   = "Other"
	OtherIcon       = "🎯"
	IncomeIcon      = "💰"
	MissingIcon     = "❓"
	FallbackAccount = "Cash"
	DefaultColor    = "#64748b"
)

// Timestamp is a time.Time that tolerates malformed JSON dates.
// Ledger documents may come from imports we do not control; a date
// that cannot be parsed becomes the zero time, which matches no
// month bucket and so drops out of every monthly view instead of
// failing the whole document.
type Timestamp struct {
	time.Time
}

var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON never returns an error; unparseable values decode to zero
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}

	for _, format := range timestampFormats {
		if parsed, err := time.Parse(format, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return nil
}

// MonthKey returns the "YYYY-MM" key of the timestamp's local calendar
// month, or "" for the zero time
func (t Timestamp) MonthKey() string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("2006-01")
}

// MonthKeyOf returns the "YYYY-MM" key for a wall-clock time
func MonthKeyOf(t time.Time) string {
	return t.In(time.Local).Format("2006-01")
}

// PreviousMonthKey returns the key of the calendar month immediately
// before the one containing t
func PreviousMonthKey(t time.Time) string {
	local := t.In(time.Local)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
	return first.AddDate(0, -1, 0).Format("2006-01")
}

// Transaction is a single posted expense or income entry.
//
// Category, Icon and Account are denormalized snapshots taken at
// creation time: renaming a category or changing its icon later does
// not rewrite history. For income entries Category holds the free-text
// source instead of a category name. Transactions are immutable once
// posted, except that deleting a category rewrites its references to
// the Other sentinel and deleting an account rewrites references to the
// fallback account.
type Transaction struct {
	ID       int64           `json:"id"`
	Type     TransactionType `json:"type"`
	Amount   float64         `json:"amount"`
	Category string          `json:"category"`
	Icon     string          `json:"icon"`
	Account  string          `json:"account"`
	Date     Timestamp       `json:"date"`
	Desc     string          `json:"desc,omitempty"`
}
