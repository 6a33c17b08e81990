// Package http provides the HTTP handlers for the analytics API.
package http

import (
	"context"
	"io"

	"github.com/google/uuid"

	"excelytics/internal/services"
	"excelytics/pkg/contracts/domain"
)

// AuthServiceInterface defines the auth operations consumed by handlers.
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, string, error)
}

// FileServiceInterface defines the file operations consumed by handlers.
type FileServiceInterface interface {
	Upload(ctx context.Context, ownerUserID uuid.UUID, originalName string, r io.Reader) (*domain.FileRecord, error)
	List(ctx context.Context, ownerUserID uuid.UUID) ([]*domain.FileRecord, error)
}

// AnalysisServiceInterface defines the pipeline operations consumed by
// handlers.
type AnalysisServiceInterface interface {
	ParseWorkbook(ctx context.Context, fileID, callerUserID uuid.UUID) (*services.ParseResult, error)
	AnalyzeColumn(ctx context.Context, fileID, callerUserID uuid.UUID, sheetName, columnName string) (*services.AnalysisResult, error)
	History(ctx context.Context, fileID, callerUserID uuid.UUID) ([]*domain.AnalyticsEntry, error)
}
