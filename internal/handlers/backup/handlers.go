// Package backup exposes export, import and reset of the whole ledger
// document, plus the health endpoint.
package backup

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	apihttp "smartspend/internal/http"
	ledgersvc "smartspend/internal/services/ledger"
	"smartspend/internal/services/storage"
	"smartspend/internal/version"
)

// maxImportSize caps uploaded backup documents at 10MB
const maxImportSize = 10 << 20

var (
	svc   *ledgersvc.Service
	store *storage.Storage
)

// Initialize sets up the backup package with required dependencies
func Initialize(s *ledgersvc.Service, st *storage.Storage) {
	svc = s
	store = st
}

// RegisterRoutes registers all backup routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/health", handleHealth)
	r.Get("/api/export", handleExport)
	r.Post("/api/import", handleImport)
	r.Post("/api/reset", handleReset)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   version.Get(),
		"encrypted": store.IsEncrypted(),
	})
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	data, filename, err := svc.Export()
	if err != nil {
		apihttp.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}

func handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		apihttp.Error(w, "error reading request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := svc.Import(data); err != nil {
		apihttp.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("Ledger imported (%d bytes)", len(data))
	apihttp.JSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func handleReset(w http.ResponseWriter, r *http.Request) {
	if err := svc.Reset(); err != nil {
		apihttp.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Println("Ledger reset to defaults")
	apihttp.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
