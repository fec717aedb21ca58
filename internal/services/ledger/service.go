// Package ledger owns the in-memory ledger document and every mutation
// to it. All writes go through the service, which persists a full
// snapshot via the storage layer after each mutation; there is no
// implicit autosave anywhere else.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"smartspend/internal/models"
	"smartspend/internal/services/storage"
)

// Service guards the ledger with a mutex. The data model is still
// single-writer; the lock only protects against concurrent HTTP
// handlers touching the same snapshot.
type Service struct {
	mu           sync.Mutex
	store        *storage.Storage
	path         string
	snapshotsDir string
	ledger       *models.Ledger
}

// New creates a ledger service persisting to the given document path,
// with pre-import snapshots written to snapshotsDir
func New(store *storage.Storage, ledgerFile, snapshotsDir string) *Service {
	return &Service{
		store:        store,
		path:         ledgerFile,
		snapshotsDir: snapshotsDir,
		ledger:       models.Default(),
	}
}

// Load reads the persisted document. A missing file means a fresh
// ledger; an unreadable or unparseable file is an error, so a corrupt
// document is never silently replaced.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.ledger = models.Default()
			return nil
		}
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	var l models.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("failed to parse ledger: %w", err)
	}

	l.EnsureCompat(time.Now())
	l.Normalize()
	s.ledger = &l

	return nil
}

// commitLocked serializes the full document to storage. Callers must
// hold the mutex.
func (s *Service) commitLocked() error {
	data, err := json.MarshalIndent(s.ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}
	if err := s.store.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}

// Ledger returns a deep copy of the current document for read-only use
func (s *Service) Ledger() *models.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// TransactionInput carries a transaction entry form
type TransactionInput struct {
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Account  string  `json:"account"`
	Category string  `json:"category"` // expense category, or income source text
	Date     string  `json:"date"`     // "YYYY-MM-DD"
	Desc     string  `json:"desc"`
}

// PostTransaction validates and posts a new transaction: prepends it to
// the list (most recent first) and adjusts the account balance by the
// signed amount, then commits. The category icon is snapshotted at
// creation and never updated afterwards.
func (s *Service) PostTransaction(in TransactionInput) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txType := models.TransactionType(in.Type)
	if txType != models.Expense && txType != models.Income {
		return models.Transaction{}, fmt.Errorf("unsupported transaction type %q", in.Type)
	}
	if in.Amount <= 0 {
		return models.Transaction{}, fmt.Errorf("enter a valid amount")
	}
	if in.Account == "" {
		return models.Transaction{}, fmt.Errorf("select an account")
	}
	if in.Date == "" {
		return models.Transaction{}, fmt.Errorf("select a date")
	}
	date, err := time.ParseInLocation("2006-01-02", in.Date, time.Local)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date %q", in.Date)
	}

	category := in.Category
	icon := models.IncomeIcon

	if txType == models.Expense {
		if category == "" {
			return models.Transaction{}, fmt.Errorf("select a category")
		}
		icon = models.MissingIcon
		if c := s.ledger.FindCategory(category); c != nil {
			icon = c.Icon
		}
	} else {
		category = strings.TrimSpace(category)
		if category == "" {
			return models.Transaction{}, fmt.Errorf("enter income source")
		}
	}

	tx := models.Transaction{
		ID:       time.Now().UnixMilli(),
		Type:     txType,
		Amount:   in.Amount,
		Category: category,
		Icon:     icon,
		Account:  in.Account,
		Date:     models.Timestamp{Time: date},
		Desc:     strings.TrimSpace(in.Desc),
	}

	s.ledger.Transactions = append([]models.Transaction{tx}, s.ledger.Transactions...)

	if acc := s.ledger.FindAccount(in.Account); acc != nil {
		if txType == models.Expense {
			acc.Balance -= in.Amount
		} else {
			acc.Balance += in.Amount
		}
	}

	if err := s.commitLocked(); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Records returns the transactions of one month, newest first as
// stored, optionally narrowed by a substring search over description,
// amount, category and account
func (s *Service) Records(monthKey, query string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))

	out := []models.Transaction{}
	for _, t := range s.ledger.Transactions {
		if t.Date.MonthKey() != monthKey {
			continue
		}
		if q != "" && !matchSearch(t, q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchSearch(t models.Transaction, q string) bool {
	fields := strings.ToLower(strings.Join([]string{
		t.Desc,
		strconv.FormatFloat(t.Amount, 'f', -1, 64),
		t.Category,
		t.Account,
	}, " "))
	return strings.Contains(fields, q)
}

// History returns all expense transactions of one category across all
// time, newest first
func (s *Service) History(category string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Transaction{}
	for _, t := range s.ledger.Transactions {
		if t.Type == models.Expense && t.Category == category {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// CreateAccount adds an account with a case-insensitively unique name
func (s *Service) CreateAccount(name string, balance float64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Account{}, fmt.Errorf("name required")
	}
	if s.accountNameTaken(name, 0) {
		return models.Account{}, fmt.Errorf("account name exists")
	}

	acc := models.Account{ID: time.Now().UnixMilli(), Name: name, Balance: balance}
	s.ledger.Accounts = append(s.ledger.Accounts, acc)

	if err := s.commitLocked(); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// UpdateAccount renames an account and optionally overwrites its
// balance. Existing transactions keep the old denormalized name.
func (s *Service) UpdateAccount(id int64, name string, balance *float64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Account{}, fmt.Errorf("name required")
	}
	if s.accountNameTaken(name, id) {
		return models.Account{}, fmt.Errorf("account name exists")
	}

	for i := range s.ledger.Accounts {
		if s.ledger.Accounts[i].ID != id {
			continue
		}
		s.ledger.Accounts[i].Name = name
		if balance != nil {
			s.ledger.Accounts[i].Balance = *balance
		}
		if err := s.commitLocked(); err != nil {
			return models.Account{}, err
		}
		return s.ledger.Accounts[i], nil
	}
	return models.Account{}, fmt.Errorf("account %d not found", id)
}

// DeleteAccount removes an account. Transactions are never deleted;
// any transaction left referencing a name with no matching account is
// detached to the fallback account.
func (s *Service) DeleteAccount(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ledger.Accounts[:0]
	found := false
	for _, a := range s.ledger.Accounts {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return fmt.Errorf("account %d not found", id)
	}
	s.ledger.Accounts = kept

	for i := range s.ledger.Transactions {
		if s.ledger.FindAccount(s.ledger.Transactions[i].Account) == nil {
			s.ledger.Transactions[i].Account = models.FallbackAccount
		}
	}

	return s.commitLocked()
}

func (s *Service) accountNameTaken(name string, excludeID int64) bool {
	lower := strings.ToLower(name)
	for _, a := range s.ledger.Accounts {
		if a.ID != excludeID && strings.ToLower(a.Name) == lower {
			return true
		}
	}
	return false
}

// CreateCategory adds a category with a case-insensitively unique name
func (s *Service) CreateCategory(name, icon, color string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("category name required")
	}
	if s.categoryNameTaken(name, 0) {
		return models.Category{}, fmt.Errorf("category name exists")
	}
	if icon == "" {
		icon = models.OtherIcon
	}
	if color == "" {
		color = models.DefaultColor
	}

	cat := models.Category{ID: time.Now().UnixMilli(), Name: name, Icon: icon, Color: color}
	s.ledger.Categories = append(s.ledger.Categories, cat)

	if err := s.commitLocked(); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// UpdateCategory edits a category in place. Transactions keep the
// snapshot they were created with: neither the name nor the icon is
// rewritten on history.
func (s *Service) UpdateCategory(id int64, name, icon, color string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("category name required")
	}
	if s.categoryNameTaken(name, id) {
		return models.Category{}, fmt.Errorf("category name exists")
	}

	for i := range s.ledger.Categories {
		if s.ledger.Categories[i].ID != id {
			continue
		}
		s.ledger.Categories[i].Name = name
		if icon != "" {
			s.ledger.Categories[i].Icon = icon
		}
		if color != "" {
			s.ledger.Categories[i].Color = color
		}
		if err := s.commitLocked(); err != nil {
			return models.Category{}, err
		}
		return s.ledger.Categories[i], nil
	}
	return models.Category{}, fmt.Errorf("category %d not found", id)
}

// DeleteCategory removes a category and reassigns its transactions to
// the Other sentinel. Total transaction count never changes.
func (s *Service) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted *models.Category
	kept := s.ledger.Categories[:0]
	for i := range s.ledger.Categories {
		if s.ledger.Categories[i].ID == id {
			c := s.ledger.Categories[i]
			deleted = &c
			continue
		}
		kept = append(kept, s.ledger.Categories[i])
	}
	if deleted == nil {
		return fmt.Errorf("category %d not found", id)
	}
	s.ledger.Categories = kept

	for i := range s.ledger.Transactions {
		if s.ledger.Transactions[i].Category == deleted.Name {
			s.ledger.Transactions[i].Category = models.OtherCategory
			s.ledger.Transactions[i].Icon = models.OtherIcon
		}
	}

	return s.commitLocked()
}

func (s *Service) categoryNameTaken(name string, excludeID int64) bool {
	lower := strings.ToLower(name)
	for _, c := range s.ledger.Categories {
		if c.ID != excludeID && strings.ToLower(c.Name) == lower {
			return true
		}
	}
	return false
}

// SetBudget stores a monthly cap for a category, clamping negatives to
// zero
func (s *Service) SetBudget(monthKey, category string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := time.Parse("2006-01", monthKey); err != nil {
		return fmt.Errorf("invalid month key %q", monthKey)
	}
	if category == "" {
		return fmt.Errorf("category required")
	}

	s.ledger.BudgetsMonthly.Set(monthKey, category, amount)
	return s.commitLocked()
}

// SetCurrency updates the display currency symbol
func (s *Service) SetCurrency(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return fmt.Errorf("currency symbol required")
	}

	s.ledger.Settings.Currency = symbol
	return s.commitLocked()
}

// Reset replaces the ledger with the stock document
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = models.Default()
	return s.commitLocked()
}
