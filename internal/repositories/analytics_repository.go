package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"excelytics/internal/database"
	"excelytics/pkg/contracts/domain"
)

// AnalyticsRepository persists analysis results keyed by file. Entries are
// append-only: Save never overwrites and nothing here deletes.
type AnalyticsRepository interface {
	Save(ctx context.Context, fileID uuid.UUID, analysisType string, results json.RawMessage) (*domain.AnalyticsEntry, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*domain.AnalyticsEntry, error)
}

type analyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository creates a new analytics repository.
func NewAnalyticsRepository(db *database.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Save inserts a new analytics entry with a fresh id and timestamp.
func (r *analyticsRepository) Save(ctx context.Context, fileID uuid.UUID, analysisType string, results json.RawMessage) (*domain.AnalyticsEntry, error) {
	entry := &domain.AnalyticsEntry{
		ID:           uuid.New(),
		FileID:       fileID,
		AnalysisType: analysisType,
		Results:      results,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO analytics (id, file_id, analysis_type, results, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.FileID,
		entry.AnalysisType,
		entry.Results,
		entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save analytics entry: %w", err)
	}
	return entry, nil
}

// ListByFile returns the analysis history for a file, newest first.
func (r *analyticsRepository) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*domain.AnalyticsEntry, error) {
	query := `
		SELECT id, file_id, analysis_type, results, created_at
		FROM analytics
		WHERE file_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AnalyticsEntry
	for rows.Next() {
		var entry domain.AnalyticsEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.FileID,
			&entry.AnalysisType,
			&entry.Results,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analytics entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analytics entries: %w", err)
	}
	return entries, nil
}
