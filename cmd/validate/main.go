// Package main provides a CLI tool for validating a ledger document.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"smartspend/internal/models"
)

type problem struct {
	severity string // "error" or "warning"
	message  string
}

func main() {
	file := flag.String("file", "data/ledger.json", "Path to the ledger document")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *file, err)
		os.Exit(1)
	}

	var l models.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *file, err)
		os.Exit(1)
	}

	fmt.Printf("Validating %s\n", *file)
	fmt.Printf("Accounts: %d, Categories: %d, Transactions: %d\n\n",
		len(l.Accounts), len(l.Categories), len(l.Transactions))

	problems := validate(&l)

	var errors, warnings int
	for _, p := range problems {
		if p.severity == "error" {
			errors++
			fmt.Printf("FAIL %s\n", p.message)
		} else {
			warnings++
			if *verbose {
				fmt.Printf("WARN %s\n", p.message)
			}
		}
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Results: %d errors, %d warnings\n", errors, warnings)

	if errors > 0 {
		os.Exit(1)
	}
}

func validate(l *models.Ledger) []problem {
	var problems []problem

	// Duplicate names (case-insensitive)
	seenAcc := map[string]bool{}
	for _, a := range l.Accounts {
		key := strings.ToLower(a.Name)
		if seenAcc[key] {
			problems = append(problems, problem{"error",
				fmt.Sprintf("duplicate account name %q", a.Name)})
		}
		seenAcc[key] = true
	}
	seenCat := map[string]bool{}
	for _, c := range l.Categories {
		key := strings.ToLower(c.Name)
		if seenCat[key] {
			problems = append(problems, problem{"error",
				fmt.Sprintf("duplicate category name %q", c.Name)})
		}
		seenCat[key] = true
	}

	// Transaction references and field sanity
	balances := map[string]float64{}
	for i, t := range l.Transactions {
		if t.Type != models.Expense && t.Type != models.Income {
			problems = append(problems, problem{"warning",
				fmt.Sprintf("transaction %d has unknown type %q (will be treated as expense)", t.ID, t.Type)})
		}
		if t.Amount <= 0 {
			problems = append(problems, problem{"error",
				fmt.Sprintf("transaction %d has non-positive amount %v", t.ID, t.Amount)})
		}
		if t.Date.IsZero() {
			problems = append(problems, problem{"warning",
				fmt.Sprintf("transaction %d (index %d) has an unparseable date and will match no month", t.ID, i)})
		}
		if !seenAcc[strings.ToLower(t.Account)] {
			problems = append(problems, problem{"error",
				fmt.Sprintf("transaction %d references unknown account %q", t.ID, t.Account)})
		}
		if t.Type == models.Expense && !seenCat[strings.ToLower(t.Category)] {
			problems = append(problems, problem{"warning",
				fmt.Sprintf("transaction %d references unknown category %q", t.ID, t.Category)})
		}

		if t.Type == models.Income {
			balances[t.Account] += t.Amount
		} else {
			balances[t.Account] -= t.Amount
		}
	}

	// Negative budgets
	for month, caps := range l.BudgetsMonthly {
		if _, err := time.Parse("2006-01", month); err != nil {
			problems = append(problems, problem{"error",
				fmt.Sprintf("invalid budget month key %q", month)})
		}
		for cat, amount := range caps {
			if amount < 0 {
				problems = append(problems, problem{"error",
					fmt.Sprintf("negative budget for %s in %s: %v", cat, month, amount)})
			}
		}
	}

	// Net transaction flow per account, informational only: opening
	// balances are not recorded, so this cannot be checked exactly
	for _, a := range l.Accounts {
		net := balances[a.Name]
		if net != 0 {
			problems = append(problems, problem{"warning",
				fmt.Sprintf("account %q: recorded balance %.2f, net transaction flow %.2f", a.Name, a.Balance, net)})
		}
	}

	return problems
}
