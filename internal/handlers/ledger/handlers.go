// Package ledger exposes the CRUD surface of the ledger document:
// transactions, accounts, categories, budgets and settings.
package ledger

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apihttp "smartspend/internal/http"
	ledgersvc "smartspend/internal/services/ledger"
)

var svc *ledgersvc.Service

// Initialize sets up the ledger package with required dependencies
func Initialize(s *ledgersvc.Service) {
	svc = s
}

// RegisterRoutes registers all ledger routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/records", handleRecords)
	r.Post("/api/transactions", handleCreateTransaction)

	r.Get("/api/accounts", handleListAccounts)
	r.Post("/api/accounts", handleCreateAccount)
	r.Put("/api/accounts/{id}", handleUpdateAccount)
	r.Delete("/api/accounts/{id}", handleDeleteAccount)

	r.Get("/api/categories", handleListCategories)
	r.Post("/api/categories", handleCreateCategory)
	r.Put("/api/categories/{id}", handleUpdateCategory)
	r.Delete("/api/categories/{id}", handleDeleteCategory)
	r.Get("/api/categories/{name}/history", handleCategoryHistory)

	r.Get("/api/budgets", handleGetBudgets)
	r.Put("/api/budgets/{month}/{category}", handleSetBudget)

	r.Put("/api/settings/currency", handleSetCurrency)
}

func handleRecords(w http.ResponseWriter, r *http.Request) {
	month := apihttp.ParseMonth(r, time.Now())
	query := r.URL.Query().Get("q")

	records := svc.Records(month, query)
	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"month":   month,
		"records": records,
	})
}

func handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in ledgersvc.TransactionInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := svc.PostTransaction(in)
	if err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusCreated, tx)
}

func handleListAccounts(w http.ResponseWriter, r *http.Request) {
	l := svc.Ledger()
	apihttp.JSON(w, http.StatusOK, l.Accounts)
}

func handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
	}
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := svc.CreateAccount(in.Name, in.Balance)
	if err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusCreated, acc)
}

func handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apihttp.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	var in struct {
		Name    string   `json:"name"`
		Balance *float64 `json:"balance"`
	}
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := svc.UpdateAccount(id, in.Name, in.Balance)
	if err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusOK, acc)
}

func handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apihttp.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	if err := svc.DeleteAccount(id); err != nil {
		apihttp.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	apihttp.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func handleListCategories(w http.ResponseWriter, r *http.Request) {
	l := svc.Ledger()
	apihttp.JSON(w, http.StatusOK, l.Categories)
}

func handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := svc.CreateCategory(in.Name, in.Icon, in.Color)
	if err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusCreated, cat)
}

func handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apihttp.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var in struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := svc.UpdateCategory(id, in.Name, in.Icon, in.Color)
	if err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusOK, cat)
}

func handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apihttp.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if err := svc.DeleteCategory(id); err != nil {
		apihttp.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	apihttp.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func handleCategoryHistory(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		apihttp.Error(w, "invalid category name", http.StatusBadRequest)
		return
	}

	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"category": name,
		"history":  svc.History(name),
	})
}

func handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	month := apihttp.ParseMonth(r, time.Now())

	l := svc.Ledger()
	budgets := l.BudgetsMonthly[month]
	if budgets == nil {
		budgets = map[string]float64{}
	}

	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"month":   month,
		"budgets": budgets,
	})
}

func handleSetBudget(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		apihttp.Error(w, "invalid category name", http.StatusBadRequest)
		return
	}

	var in struct {
		Amount float64 `json:"amount"`
	}
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := svc.SetBudget(month, category, in.Amount); err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Currency string `json:"currency"`
	}
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := svc.SetCurrency(in.Currency); err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	apihttp.JSON(w, http.StatusOK, map[string]string{"currency": in.Currency})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
