// Package insights serves the generated spending observations.
package insights

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apihttp "smartspend/internal/http"
	insightsvc "smartspend/internal/services/insights"
	ledgersvc "smartspend/internal/services/ledger"
)

var svc *ledgersvc.Service

// Initialize sets up the insights package with required dependencies
func Initialize(s *ledgersvc.Service) {
	svc = s
}

// RegisterRoutes registers all insights routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/insights", handleInsights)
}

func handleInsights(w http.ResponseWriter, r *http.Request) {
	l := svc.Ledger()
	obs := insightsvc.Generate(l, time.Now())

	apihttp.JSON(w, http.StatusOK, map[string]interface{}{
		"insights": obs,
	})
}
