package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalyticsEntry is one persisted, timestamped analysis result tied to a
// file. Entries are append-only: never mutated, never deleted by the
// analysis pipeline. Results is the serialized statistics record; absent
// numeric fields round-trip as explicit nulls.
type AnalyticsEntry struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	FileID       uuid.UUID       `json:"file_id" db:"file_id"`
	AnalysisType string          `json:"analysis_type" db:"analysis_type"`
	Results      json.RawMessage `json:"results" db:"results"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
