package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"excelytics/internal/analytics"
	"excelytics/internal/blobstore"
	"excelytics/internal/repositories"
	"excelytics/internal/workbook"
	"excelytics/pkg/contracts/domain"
)

// previewRowLimit bounds the raw-row preview returned with an analysis.
const previewRowLimit = 100

// defaultPersistTimeout bounds the detached analytics write.
const defaultPersistTimeout = 10 * time.Second

// BlobReader fetches stored spreadsheet bytes by storage filename.
type BlobReader interface {
	Fetch(name string) ([]byte, error)
}

// ParseResult is the response of the parse operation: every sheet of the
// workbook, fully decoded. SheetNames preserves workbook order; Sheets is
// keyed by sheet name.
type ParseResult struct {
	SheetNames []string           `json:"sheetNames"`
	Sheets     map[string][][]any `json:"data"`
}

// AnalysisResult is the response of a column analysis: the computed
// statistics plus a bounded preview of the sheet's first data rows.
type AnalysisResult struct {
	Statistics  analytics.Statistics `json:"analytics"`
	PreviewRows [][]any              `json:"data"`
}

// AnalysisService runs the ingestion-and-analytics pipeline: authorize the
// caller against file ownership, fetch and parse the stored spreadsheet,
// extract the requested column, compute statistics, and persist the result.
//
// Every request parses the workbook fresh; nothing is cached across
// requests, so memory stays bounded to one decoded file per in-flight
// request and repeated requests always produce identical statistics.
type AnalysisService struct {
	files          repositories.FileRepository
	analytics      repositories.AnalyticsRepository
	blobs          BlobReader
	logger         *slog.Logger
	persistTimeout time.Duration
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	files repositories.FileRepository,
	analyticsRepo repositories.AnalyticsRepository,
	blobs BlobReader,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		files:          files,
		analytics:      analyticsRepo,
		blobs:          blobs,
		logger:         logger.With(slog.String("component", "analysis_service")),
		persistTimeout: defaultPersistTimeout,
	}
}

// authorize loads the file record and checks ownership. A missing record
// and an ownership mismatch return the same ErrFileNotFound.
func (s *AnalysisService) authorize(ctx context.Context, fileID, callerUserID uuid.UUID) (*domain.FileRecord, error) {
	record, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file record: %w", err)
	}
	if record.OwnerUserID != callerUserID {
		return nil, ErrFileNotFound
	}
	return record, nil
}

// loadWorkbook fetches the file's bytes and parses them. A failed blob
// fetch is fatal to the request and surfaces as ErrFileUnavailable.
func (s *AnalysisService) loadWorkbook(ctx context.Context, record *domain.FileRecord) (*workbook.Workbook, error) {
	raw, err := s.blobs.Fetch(record.StorageFilename)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFileUnavailable, record.StorageFilename)
		}
		return nil, fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	return workbook.Parse(raw)
}

// ParseWorkbook decodes the whole stored spreadsheet for the caller.
func (s *AnalysisService) ParseWorkbook(ctx context.Context, fileID, callerUserID uuid.UUID) (*ParseResult, error) {
	record, err := s.authorize(ctx, fileID, callerUserID)
	if err != nil {
		return nil, err
	}

	wb, err := s.loadWorkbook(ctx, record)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		SheetNames: wb.SheetNames(),
		Sheets:     make(map[string][][]any, len(wb.Sheets)),
	}
	for _, sheet := range wb.Sheets {
		result.Sheets[sheet.Name] = rowsToValues(sheet.Rows, len(sheet.Rows))
	}
	return result, nil
}

// AnalyzeColumn computes descriptive statistics over one column of one
// sheet and returns them with a preview of the sheet's first data rows.
// The statistics are always recomputed; the persisted entry is a detached
// best-effort write that never fails or delays the response.
func (s *AnalysisService) AnalyzeColumn(ctx context.Context, fileID, callerUserID uuid.UUID, sheetName, columnName string) (*AnalysisResult, error) {
	record, err := s.authorize(ctx, fileID, callerUserID)
	if err != nil {
		return nil, err
	}

	wb, err := s.loadWorkbook(ctx, record)
	if err != nil {
		return nil, err
	}

	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	series, err := sheet.Column(columnName)
	if err != nil {
		return nil, err
	}

	stats := analytics.Compute(series)
	s.persistResult(ctx, fileID, stats)

	preview := [][]any{}
	if len(sheet.Rows) > 1 {
		preview = rowsToValues(sheet.Rows[1:], previewRowLimit)
	}

	s.logger.InfoContext(ctx, "column analyzed",
		slog.String("file_id", fileID.String()),
		slog.String("sheet", sheetName),
		slog.String("column", columnName),
		slog.Int("total_rows", stats.TotalRows),
		slog.Int("numeric_values", stats.NumericValues),
	)
	return &AnalysisResult{Statistics: stats, PreviewRows: preview}, nil
}

// History returns the persisted analysis entries for a file, newest first.
func (s *AnalysisService) History(ctx context.Context, fileID, callerUserID uuid.UUID) ([]*domain.AnalyticsEntry, error) {
	if _, err := s.authorize(ctx, fileID, callerUserID); err != nil {
		return nil, err
	}

	entries, err := s.analytics.ListByFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics history: %w", err)
	}
	return entries, nil
}

// persistResult saves the computed statistics as a detached write. The
// response is already decided when this runs; a storage failure is logged
// and dropped, never propagated. The write context is decoupled from the
// request context so an early client disconnect does not cancel it.
func (s *AnalysisService) persistResult(ctx context.Context, fileID uuid.UUID, stats analytics.Statistics) {
	payload, err := json.Marshal(stats)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to serialize statistics",
			slog.String("file_id", fileID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	go func() {
		defer cancel()
		if _, err := s.analytics.Save(writeCtx, fileID, analytics.AnalysisTypeBasicStats, payload); err != nil {
			s.logger.ErrorContext(writeCtx, "failed to persist analytics entry",
				slog.String("file_id", fileID.String()),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// rowsToValues converts up to limit rows to their serializable values.
func rowsToValues(rows []workbook.Row, limit int) [][]any {
	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([][]any, 0, limit)
	for _, row := range rows[:limit] {
		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = cell.Value()
		}
		out = append(out, values)
	}
	return out
}
