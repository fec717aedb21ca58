package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"smartspend/internal/models"
)

// Export serializes the full ledger document and suggests a timestamped
// download filename
func (s *Service) Export() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.ledger, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize ledger: %w", err)
	}

	name := "smartspend-backup-" + time.Now().Format("2006-01-02-15-04-05") + ".json"
	return data, name, nil
}

// Import replaces the entire ledger with the uploaded document. Wrong
// top-level JSON is rejected without touching the current state; inside
// a structurally valid document, fields of the wrong type degrade to
// defaults rather than failing the whole import. A snapshot of the
// outgoing ledger is written first so a bad import can be undone by
// hand.
func (s *Service) Import(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid backup file: %w", err)
	}
	// "null" unmarshals into a nil map without error; it is not a document
	if raw == nil {
		return fmt.Errorf("invalid backup file: not a JSON object")
	}

	now := time.Now()
	incoming := &models.Ledger{}

	if err := json.Unmarshal(orEmptyArray(raw["accounts"]), &incoming.Accounts); err != nil {
		incoming.Accounts = nil
	}
	if err := json.Unmarshal(orEmptyArray(raw["categories"]), &incoming.Categories); err != nil {
		incoming.Categories = nil
	}
	if err := json.Unmarshal(orEmptyArray(raw["transactions"]), &incoming.Transactions); err != nil {
		incoming.Transactions = nil
	}
	if b, ok := raw["budgetsMonthly"]; ok {
		if err := json.Unmarshal(b, &incoming.BudgetsMonthly); err != nil {
			incoming.BudgetsMonthly = nil
		}
	}
	if st, ok := raw["settings"]; ok {
		if err := json.Unmarshal(st, &incoming.Settings); err != nil {
			incoming.Settings = models.Settings{}
		}
	}

	incoming.EnsureCompat(now)
	incoming.Normalize()

	s.snapshotLocked()

	s.ledger = incoming
	return s.commitLocked()
}

// orEmptyArray substitutes a JSON array literal for an absent field so
// unmarshaling yields the zero slice instead of an error
func orEmptyArray(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}
	return raw
}

// snapshotLocked writes the current ledger to the snapshots directory.
// Best effort: a snapshot failure is logged but never blocks the
// import itself.
func (s *Service) snapshotLocked() {
	dir := s.snapshotsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("snapshot skipped: %v", err)
		return
	}

	data, err := json.MarshalIndent(s.ledger, "", "  ")
	if err != nil {
		log.Printf("snapshot skipped: %v", err)
		return
	}

	name := fmt.Sprintf("ledger-pre-import-%s.json", uuid.NewString())
	if err := s.store.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		log.Printf("snapshot skipped: %v", err)
	}
}
