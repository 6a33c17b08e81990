package http

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"

	"excelytics/internal/auth"
	apierrors "excelytics/internal/errors"
	"excelytics/pkg/contracts/domain"
)

// allowedUploadExtensions are the spreadsheet formats the platform accepts.
var allowedUploadExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// FileHandler handles spreadsheet uploads and file listings.
type FileHandler struct {
	service       FileServiceInterface
	maxUploadSize int64
	errorHandler  *apierrors.ErrorHandler
}

// NewFileHandler creates a new file handler.
func NewFileHandler(service FileServiceInterface, maxUploadSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		errorHandler:  apierrors.NewErrorHandler(logger),
	}
}

// UploadResponse describes a stored upload.
type UploadResponse struct {
	Message string             `json:"message"`
	File    *domain.FileRecord `json:"file"`
}

// Upload handles POST /api/upload (multipart form, field "file").
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "No file uploaded"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Only Excel and CSV files are allowed"))
		return
	}

	record, err := h.service.Upload(r.Context(), auth.UserIDFromContext(r.Context()), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{
		Message: "File uploaded successfully",
		File:    record,
	})
}

// List handles GET /api/files.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.FileRecord{}
	}
	render.JSON(w, r, records)
}
