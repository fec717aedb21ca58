package main

import (
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"smartspend/internal/config"
	"smartspend/internal/testutil"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func newServer(t *testing.T) *testutil.TestServer {
	t.Helper()

	cleanup := testutil.SetTestEnv(t)
	t.Cleanup(cleanup)

	cfg := config.Load()
	if err := SetupDependencies(cfg); err != nil {
		t.Fatalf("Failed to set up dependencies: %v", err)
	}

	ts := testutil.NewTestServer(t, SetupRouter())
	t.Cleanup(ts.Close)
	return ts
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func thisMonth() string {
	return time.Now().Format("2006-01")
}

func TestHealthEndpoint(t *testing.T) {
	ts := newServer(t)

	resp := ts.GET("/api/health")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		ContainsAll(`"status":"ok"`, `"version"`)
}

func TestTransactionLifecycle(t *testing.T) {
	ts := newServer(t)

	resp := ts.PostJSON("/api/transactions", map[string]interface{}{
		"type":     "expense",
		"amount":   120.5,
		"account":  "Cash",
		"category": "Food",
		"date":     today(),
		"desc":     "lunch run",
	})
	testutil.AssertResponse(t, resp).
		Status(201).
		ContainsAll(`"category":"Food"`, `"icon":"🍔"`)

	resp = ts.GET("/api/records?month=" + thisMonth())
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll("lunch run", `"month":"`+thisMonth()+`"`)

	// Search narrows the listing
	resp = ts.GET("/api/records?month=" + thisMonth() + "&q=nothing-matches")
	testutil.AssertResponse(t, resp).
		StatusOK().
		NotContains("lunch run")
}

func TestTransactionValidationRejected(t *testing.T) {
	ts := newServer(t)

	resp := ts.PostJSON("/api/transactions", map[string]interface{}{
		"type":     "expense",
		"amount":   0,
		"account":  "Cash",
		"category": "Food",
		"date":     today(),
	})
	testutil.AssertResponse(t, resp).
		Status(400).
		Contains("enter a valid amount")
}

func TestSummaryReflectsPostedTransactions(t *testing.T) {
	ts := newServer(t)

	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "income", "amount": 1000.0, "account": "Bank", "category": "Salary", "date": today(),
	})
	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "expense", "amount": 250.0, "account": "Bank", "category": "Food", "date": today(),
	})

	var summary struct {
		Income       float64 `json:"income"`
		Expense      float64 `json:"expense"`
		Net          float64 `json:"net"`
		TotalBalance float64 `json:"totalBalance"`
	}
	resp := ts.GET("/api/summary?month=" + thisMonth())
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	testutil.DecodeBody(t, resp, &summary)

	if summary.Income != 1000 || summary.Expense != 250 || summary.Net != 750 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.TotalBalance != 750 {
		t.Errorf("Expected total balance 750, got %v", summary.TotalBalance)
	}
}

func TestAccountCRUD(t *testing.T) {
	ts := newServer(t)

	resp := ts.PostJSON("/api/accounts", map[string]interface{}{
		"name": "Wallet", "balance": 500.0,
	})
	var acc struct {
		ID int64 `json:"id"`
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	testutil.DecodeBody(t, resp, &acc)

	// Duplicate name rejected case-insensitively
	resp = ts.PostJSON("/api/accounts", map[string]interface{}{"name": "wallet"})
	testutil.AssertResponse(t, resp).Status(400)

	resp = ts.PutJSON("/api/accounts/"+itoa(acc.ID), map[string]interface{}{"name": "Wallet 2"})
	testutil.AssertResponse(t, resp).StatusOK().Contains("Wallet 2")

	resp = ts.DELETE("/api/accounts/" + itoa(acc.ID))
	testutil.AssertResponse(t, resp).StatusOK()

	resp = ts.GET("/api/accounts")
	testutil.AssertResponse(t, resp).StatusOK().NotContains("Wallet 2")
}

func TestCategoryHistoryEndpoint(t *testing.T) {
	ts := newServer(t)

	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "expense", "amount": 42.0, "account": "Cash", "category": "Coffee", "date": today(),
	})

	resp := ts.GET("/api/categories/Coffee/history")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll(`"category":"Coffee"`, `"amount":42`)
}

func TestBudgetFlow(t *testing.T) {
	ts := newServer(t)

	resp := ts.PutJSON("/api/budgets/"+thisMonth()+"/Food", map[string]interface{}{"amount": 500.0})
	testutil.AssertResponse(t, resp).StatusOK()

	resp = ts.GET("/api/budgets?month=" + thisMonth())
	testutil.AssertResponse(t, resp).StatusOK().Contains(`"Food":500`)

	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "expense", "amount": 200.0, "account": "Cash", "category": "Food", "date": today(),
	})

	var summary struct {
		TotalBudget    float64 `json:"totalBudget"`
		TotalSpent     float64 `json:"totalSpent"`
		TotalRemaining float64 `json:"totalRemaining"`
	}
	resp = ts.GET("/api/budgets/summary?month=" + thisMonth())
	testutil.DecodeBody(t, resp, &summary)

	if summary.TotalBudget != 500 || summary.TotalSpent != 200 || summary.TotalRemaining != 300 {
		t.Errorf("Unexpected budget summary: %+v", summary)
	}

	// Invalid month key rejected
	resp = ts.PutJSON("/api/budgets/June/Food", map[string]interface{}{"amount": 100.0})
	testutil.AssertResponse(t, resp).Status(400)
}

func TestAnalysisBreakdown(t *testing.T) {
	ts := newServer(t)

	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "expense", "amount": 300.0, "account": "Cash", "category": "Travel", "date": today(),
	})
	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "expense", "amount": 100.0, "account": "Cash", "category": "Food", "date": today(),
	})

	resp := ts.GET("/api/analysis?month=" + thisMonth())
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll(`"category":"Travel"`, `"percent":75`)
}

func TestMonthsEndpoint(t *testing.T) {
	ts := newServer(t)

	resp := ts.GET("/api/months")
	testutil.AssertResponse(t, resp).
		StatusOK().
		Contains(thisMonth())
}

func TestInsightsGate(t *testing.T) {
	ts := newServer(t)

	resp := ts.GET("/api/insights")
	testutil.AssertResponse(t, resp).
		StatusOK().
		Contains("insufficient-data")
}

func TestCurrencySetting(t *testing.T) {
	ts := newServer(t)

	resp := ts.PutJSON("/api/settings/currency", map[string]interface{}{"currency": "$"})
	testutil.AssertResponse(t, resp).StatusOK()

	resp = ts.GET("/api/summary")
	testutil.AssertResponse(t, resp).StatusOK().Contains(`"currency":"$"`)
}

func TestExportImportReset(t *testing.T) {
	ts := newServer(t)

	ts.PostJSON("/api/transactions", map[string]interface{}{
		"type": "expense", "amount": 77.0, "account": "Cash", "category": "Food", "date": today(), "desc": "exported entry",
	})

	resp := ts.GET("/api/export")
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd == "" {
		t.Error("Expected a download Content-Disposition header")
	}
	exported := testutil.ReadBody(t, resp)

	resp = ts.POST("/api/reset", "application/json", nil)
	testutil.AssertResponse(t, resp).StatusOK()

	resp = ts.GET("/api/records?month=" + thisMonth())
	testutil.AssertResponse(t, resp).StatusOK().NotContains("exported entry")

	resp = ts.POST("/api/import", "application/json", stringsReader(exported))
	testutil.AssertResponse(t, resp).StatusOK()

	resp = ts.GET("/api/records?month=" + thisMonth())
	testutil.AssertResponse(t, resp).StatusOK().Contains("exported entry")
}

func TestImportRejectsGarbage(t *testing.T) {
	ts := newServer(t)

	resp := ts.POST("/api/import", "application/json", stringsReader("not json"))
	testutil.AssertResponse(t, resp).Status(400)
}
