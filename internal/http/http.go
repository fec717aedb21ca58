// Package http holds small helpers shared by all API handlers.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"smartspend/internal/models"
)

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// Error sends a JSON error response
func Error(w http.ResponseWriter, message string, statusCode int) {
	log.Printf("Error: %s (status %d)", message, statusCode)
	JSON(w, statusCode, map[string]string{"error": message})
}

// DecodeJSON decodes a request body into dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// ParseMonth reads the "month" query parameter, falling back to the
// current month when absent or malformed
func ParseMonth(r *http.Request, now time.Time) string {
	month := r.URL.Query().Get("month")
	if month != "" {
		if _, err := time.Parse("2006-01", month); err == nil {
			return month
		}
	}
	return models.MonthKeyOf(now)
}
