// Package models defines the ledger document and its entities.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Account is a balance-tracking bucket. Balance is a running signed
// sum adjusted on every post (expense subtracts, income adds); it is
// only recomputed if the user edits it by hand.
type Account struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// Category groups expense transactions and carries display metadata
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Settings holds user-level preferences
type Settings struct {
	Currency string `json:"currency"`
}

// DefaultCurrency is used when a document carries no settings
const DefaultCurrency = "₹"

// Ledger is the full persisted document: every entity the app owns.
// The storage layer only ever sees a serialized snapshot of it.
type Ledger struct {
	Accounts       []Account      `json:"accounts"`
	Categories     []Category     `json:"categories"`
	Transactions   []Transaction  `json:"transactions"`
	BudgetsMonthly MonthlyBudgets `json:"budgetsMonthly"`
	Settings       Settings       `json:"settings"`
}

// Default returns a fresh ledger with the stock accounts and categories
func Default() *Ledger {
	return &Ledger{
		Accounts: []Account{
			{ID: 1, Name: "Cash"},
			{ID: 2, Name: "Bank"},
			{ID: 3, Name: "UPI"},
		},
		Categories: []Category{
			{ID: 1, Name: "Food", Icon: "🍔", Color: "#ef4444"},
			{ID: 2, Name: "Transport", Icon: "🚌", Color: "#f59e0b"},
			{ID: 3, Name: "Desserts", Icon: "🍨", Color: "#a78bfa"},
			{ID: 4, Name: "Recharge", Icon: "📱", Color: "#06b6d4"},
			{ID: 5, Name: "Health", Icon: "💊", Color: "#10b981"},
			{ID: 6, Name: "Shopping", Icon: "🛍️", Color: "#f472b6"},
			{ID: 7, Name: "Utilities", Icon: "💡", Color: "#f59e0b"},
			{ID: 8, Name: "Entertainment", Icon: "🎉", Color: "#f43f5e"},
			{ID: 9, Name: "Rent", Icon: "🏠", Color: "#22c55e"},
			{ID: 10, Name: "Bills", Icon: "🧾", Color: "#60a5fa"},
			{ID: 11, Name: "Groceries", Icon: "🥦", Color: "#22c55e"},
			{ID: 12, Name: "Education", Icon: "📚", Color: "#06b6d4"},
			{ID: 13, Name: "Travel", Icon: "✈️", Color: "#f97316"},
			{ID: 14, Name: "Fuel", Icon: "⛽", Color: "#fb7185"},
			{ID: 15, Name: "Insurance", Icon: "🛡️", Color: "#64748b"},
			{ID: 16, Name: "Investments", Icon: "📈", Color: "#84cc16"},
			{ID: 17, Name: "Gifts", Icon: "🎁", Color: "#e879f9"},
			{ID: 18, Name: "Subscriptions", Icon: "🔁", Color: "#a78bfa"},
			{ID: 19, Name: "Pets", Icon: "🐾", Color: "#fb923c"},
			{ID: 20, Name: "Kids", Icon: "🧸", Color: "#f472b6"},
			{ID: 21, Name: "Taxes", Icon: "💸", Color: "#f43f5e"},
			{ID: 22, Name: "Maintenance", Icon: "🔧", Color: "#94a3b8"},
			{ID: 23, Name: "Dining Out", Icon: "🍽️", Color: "#ef4444"},
			{ID: 24, Name: "Coffee", Icon: "☕", Color: "#a16207"},
			{ID: 25, Name: "Other", Icon: OtherIcon, Color: "#475569"},
		},
		Transactions:   []Transaction{},
		BudgetsMonthly: MonthlyBudgets{},
		Settings:       Settings{Currency: DefaultCurrency},
	}
}

// EnsureCompat backfills fields that older or hand-edited documents may
// lack: missing top-level containers fall back to defaults, categories
// without a color get the neutral gray, and categories without an id get
// one synthesized from the load time plus their index.
func (l *Ledger) EnsureCompat(now time.Time) {
	defaults := Default()

	if l.Accounts == nil {
		l.Accounts = defaults.Accounts
	}
	if l.Categories == nil {
		l.Categories = defaults.Categories
	}
	for i := range l.Categories {
		if l.Categories[i].Color == "" {
			l.Categories[i].Color = DefaultColor
		}
		if l.Categories[i].ID == 0 {
			l.Categories[i].ID = now.UnixMilli() + int64(i)
		}
	}
	if l.Transactions == nil {
		l.Transactions = []Transaction{}
	}
	if l.BudgetsMonthly == nil {
		l.BudgetsMonthly = MonthlyBudgets{}
	}
	if l.Settings.Currency == "" {
		l.Settings.Currency = DefaultCurrency
	}
}

// Normalize enforces the case-insensitive name uniqueness that entry
// forms guarantee but bulk imports do not: later duplicates are renamed
// with a numeric suffix. Transactions referencing the old name keep it,
// matching the snapshot semantics of denormalized fields.
func (l *Ledger) Normalize() {
	seen := make(map[string]int)
	for i := range l.Accounts {
		l.Accounts[i].Name = dedupeName(seen, l.Accounts[i].Name)
	}

	seen = make(map[string]int)
	for i := range l.Categories {
		l.Categories[i].Name = dedupeName(seen, l.Categories[i].Name)
	}
}

func dedupeName(seen map[string]int, name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	seen[key]++
	if seen[key] == 1 {
		return name
	}

	for n := seen[key]; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		candidateKey := strings.ToLower(candidate)
		if seen[candidateKey] == 0 {
			seen[candidateKey]++
			return candidate
		}
	}
}

// FindAccount returns the account with the given name, or nil
func (l *Ledger) FindAccount(name string) *Account {
	for i := range l.Accounts {
		if l.Accounts[i].Name == name {
			return &l.Accounts[i]
		}
	}
	return nil
}

// FindCategory returns the category with the given name, or nil
func (l *Ledger) FindCategory(name string) *Category {
	for i := range l.Categories {
		if l.Categories[i].Name == name {
			return &l.Categories[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the ledger
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{
		Accounts:       make([]Account, len(l.Accounts)),
		Categories:     make([]Category, len(l.Categories)),
		Transactions:   make([]Transaction, len(l.Transactions)),
		BudgetsMonthly: l.BudgetsMonthly.Clone(),
		Settings:       l.Settings,
	}
	copy(out.Accounts, l.Accounts)
	copy(out.Categories, l.Categories)
	copy(out.Transactions, l.Transactions)
	return out
}
