package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"excelytics/internal/database"
	"excelytics/pkg/contracts/domain"
)

// FileRepository defines the interface for file metadata access.
type FileRepository interface {
	Create(ctx context.Context, record *domain.FileRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*domain.FileRecord, error)
}

type fileRepository struct {
	db *database.DB
}

// NewFileRepository creates a new file repository.
func NewFileRepository(db *database.DB) FileRepository {
	return &fileRepository{db: db}
}

// Create inserts the metadata record for a freshly stored upload.
func (r *fileRepository) Create(ctx context.Context, record *domain.FileRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.UploadedAt = time.Now()

	query := `
		INSERT INTO files (id, user_id, filename, original_name, file_size, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.OwnerUserID,
		record.StorageFilename,
		record.OriginalName,
		record.SizeBytes,
		record.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

// GetByID fetches a file record by id. Returns ErrNotFound when absent.
func (r *fileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	query := `
		SELECT id, user_id, filename, original_name, file_size, upload_date
		FROM files
		WHERE id = $1`

	var record domain.FileRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.OwnerUserID,
		&record.StorageFilename,
		&record.OriginalName,
		&record.SizeBytes,
		&record.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get file record: %w", err)
	}
	return &record, nil
}

// ListByOwner returns all files owned by the user, newest first.
func (r *fileRepository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*domain.FileRecord, error) {
	query := `
		SELECT id, user_id, filename, original_name, file_size, upload_date
		FROM files
		WHERE user_id = $1
		ORDER BY upload_date DESC`

	rows, err := r.db.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file records: %w", err)
	}
	defer rows.Close()

	var records []*domain.FileRecord
	for rows.Next() {
		var record domain.FileRecord
		if err := rows.Scan(
			&record.ID,
			&record.OwnerUserID,
			&record.StorageFilename,
			&record.OriginalName,
			&record.SizeBytes,
			&record.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file record: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file records: %w", err)
	}
	return records, nil
}
