package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"excelytics/internal/auth"
	apierrors "excelytics/internal/errors"
	"excelytics/pkg/contracts/domain"
)

// AnalysisHandler handles workbook parsing and column analysis requests.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validate     *validator.Validate
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validate:     validator.New(),
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// fileIDParam parses the fileID URL parameter, handling the error response
// itself. The bool result reports success.
func (h *AnalysisHandler) fileIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("fileID", "Invalid file id"))
		return uuid.Nil, false
	}
	return fileID, true
}

// ParseResponse wraps a fully decoded workbook.
type ParseResponse struct {
	Message    string             `json:"message"`
	SheetNames []string           `json:"sheetNames"`
	Data       map[string][][]any `json:"data"`
}

// Parse handles POST /api/parse/{fileID}.
func (h *AnalysisHandler) Parse(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.ParseWorkbook(r.Context(), fileID, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, ParseResponse{
		Message:    "File parsed successfully",
		SheetNames: result.SheetNames,
		Data:       result.Sheets,
	})
}

// AnalyzeRequest is the payload for POST /api/analytics/{fileID}.
type AnalyzeRequest struct {
	SheetName  string `json:"sheetName" validate:"required"`
	ColumnName string `json:"columnName" validate:"required"`
}

// AnalyzeResponse carries the computed statistics and the row preview.
type AnalyzeResponse struct {
	Message   string          `json:"message"`
	Analytics json.RawMessage `json:"analytics"`
	Data      [][]any         `json:"data"`
}

// Analyze handles POST /api/analytics/{fileID}.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileIDParam(w, r)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}

	result, err := h.service.AnalyzeColumn(r.Context(), fileID, auth.UserIDFromContext(r.Context()), req.SheetName, req.ColumnName)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Statistics marshal through the analytics type so absent aggregates
	// render as explicit nulls.
	payload, err := json.Marshal(result.Statistics)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, AnalyzeResponse{
		Message:   "Analytics generated successfully",
		Analytics: payload,
		Data:      result.PreviewRows,
	})
}

// History handles GET /api/analytics/{fileID}.
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.service.History(r.Context(), fileID, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domain.AnalyticsEntry{}
	}
	render.JSON(w, r, entries)
}
