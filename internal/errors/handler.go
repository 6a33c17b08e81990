package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for HTTP handlers: it
// logs the failure with request context and renders the structured response.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to a structured response and renders it.
// Domain sentinel errors are translated by the caller-supplied mapping in
// Map; anything unrecognized becomes a 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := Map(err)

	logFn := h.logger.WarnContext
	if apiErr.StatusCode >= http.StatusInternalServerError {
		logFn = h.logger.ErrorContext
	}
	logFn(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("error_code", apiErr.ErrorCode),
		slog.Int("status", apiErr.StatusCode),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, NewErrorResponse(apiErr))
}

// mappings associates domain sentinel errors with their API responses.
// Registered once at startup by the packages that own the sentinels.
var mappings []mapping

type mapping struct {
	sentinel error
	apiErr   *APIError
}

// Register associates a domain sentinel error with the APIError it should
// render as. Call from package init only; the slice is not mutex-guarded.
func Register(sentinel error, apiErr *APIError) {
	mappings = append(mappings, mapping{sentinel: sentinel, apiErr: apiErr})
}

// Map translates a domain error to its APIError. An *APIError passes
// through unchanged; unregistered errors map to ErrInternalServer so
// internal detail never leaks to clients.
func Map(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, m := range mappings {
		if errors.Is(err, m.sentinel) {
			return m.apiErr
		}
	}
	return ErrInternalServer
}
