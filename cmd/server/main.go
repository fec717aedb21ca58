package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/term"

	"smartspend/internal/config"
	"smartspend/internal/handlers/analysis"
	"smartspend/internal/handlers/backup"
	"smartspend/internal/handlers/insights"
	ledgerhandlers "smartspend/internal/handlers/ledger"
	ledgersvc "smartspend/internal/services/ledger"
	"smartspend/internal/services/storage"
	"smartspend/internal/version"
)

var (
	cfg   *config.Config
	store *storage.Storage
	svc   *ledgersvc.Service
)

func main() {
	cfg = config.Load()
	log.Printf("Starting SmartSpend on %s", cfg.ListenAddr)
	log.Printf("Data directory: %s", cfg.DataDirectory)
	log.Println(version.Get().String())

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	r := SetupRouter()

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// SetupDependencies wires storage, the ledger service and all handler
// packages. Exported so tests can boot the full stack.
func SetupDependencies(c *config.Config) error {
	cfg = c

	var err error
	store, err = storage.New(c.DataDirectory)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	if store.IsEncrypted() && !store.IsUnlocked() {
		password := c.Password
		if password == "" {
			password, err = promptPassword()
			if err != nil {
				return err
			}
		}
		if err := store.Unlock(password); err != nil {
			return err
		}
		log.Println("Data directory unlocked")
	}

	svc = ledgersvc.New(store, c.LedgerFile, c.SnapshotsDirectory)
	if err := svc.Load(); err != nil {
		return err
	}

	ledgerhandlers.Initialize(svc)
	analysis.Initialize(svc)
	insights.Initialize(svc)
	backup.Initialize(svc, store)

	return nil
}

// SetupRouter builds the chi router with all routes registered
func SetupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	ledgerhandlers.RegisterRoutes(r)
	analysis.RegisterRoutes(r)
	insights.RegisterRoutes(r)
	backup.RegisterRoutes(r)

	return r
}

// promptPassword reads the encryption password from the terminal
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("data directory is encrypted; set SMARTSPEND_PASSWORD")
	}

	fmt.Fprint(os.Stderr, "Data directory password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
