package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"excelytics/internal/repositories"
	"excelytics/pkg/contracts/domain"
)

// BlobWriter stores uploaded bytes and returns the generated storage
// filename and the byte count written.
type BlobWriter interface {
	Save(originalName string, r io.Reader) (string, int64, error)
}

// FileService handles spreadsheet uploads and per-user file listings.
type FileService struct {
	files  repositories.FileRepository
	blobs  BlobWriter
	logger *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(files repositories.FileRepository, blobs BlobWriter, logger *slog.Logger) *FileService {
	return &FileService{
		files:  files,
		blobs:  blobs,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// Upload stores the file bytes and records ownership metadata.
func (s *FileService) Upload(ctx context.Context, ownerUserID uuid.UUID, originalName string, r io.Reader) (*domain.FileRecord, error) {
	storageName, size, err := s.blobs.Save(originalName, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	record := &domain.FileRecord{
		OwnerUserID:     ownerUserID,
		StorageFilename: storageName,
		OriginalName:    originalName,
		SizeBytes:       size,
	}
	if err := s.files.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.logger.InfoContext(ctx, "file uploaded",
		slog.String("file_id", record.ID.String()),
		slog.String("user_id", ownerUserID.String()),
		slog.String("original_name", originalName),
		slog.Int64("size_bytes", size),
	)
	return record, nil
}

// List returns the caller's files, newest first.
func (s *FileService) List(ctx context.Context, ownerUserID uuid.UUID) ([]*domain.FileRecord, error) {
	records, err := s.files.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return records, nil
}
