package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"excelytics/internal/analytics"
	"excelytics/internal/services"
	"excelytics/internal/workbook"
	"excelytics/pkg/contracts/domain"
)

func TestParseHandler(t *testing.T) {
	svc := new(MockAnalysisService)
	h := NewAnalysisHandler(svc, testLogger())

	fileID := uuid.New()
	ownerID := uuid.New()
	svc.On("ParseWorkbook", mock.Anything, fileID, ownerID).Return(&services.ParseResult{
		SheetNames: []string{"Sheet1"},
		Sheets:     map[string][][]any{"Sheet1": {{"Date", "Sales"}}},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/parse/"+fileID.String(), nil)
	rec := serve(t, http.MethodPost, "/api/parse/{fileID}", h.Parse, authed(req, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File parsed successfully", resp.Message)
	assert.Equal(t, []string{"Sheet1"}, resp.SheetNames)
	assert.Contains(t, resp.Data, "Sheet1")
}

func TestParseHandlerInvalidFileID(t *testing.T) {
	svc := new(MockAnalysisService)
	h := NewAnalysisHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/parse/not-a-uuid", nil)
	rec := serve(t, http.MethodPost, "/api/parse/{fileID}", h.Parse, authed(req, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ParseWorkbook", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeHandler(t *testing.T) {
	svc := new(MockAnalysisService)
	h := NewAnalysisHandler(svc, testLogger())

	fileID := uuid.New()
	ownerID := uuid.New()
	sum := 1250.0
	avg := 625.0
	min := 50.0
	max := 1200.0
	svc.On("AnalyzeColumn", mock.Anything, fileID, ownerID, "Sheet1", "Sales").
		Return(&services.AnalysisResult{
			Statistics: analytics.Statistics{
				TotalRows: 2, TotalValues: 2, NumericValues: 2,
				Min: &min, Max: &max, Sum: &sum, Average: &avg,
				UniqueValues: 2,
			},
			PreviewRows: [][]any{{"2024-01-01", "1200"}, {"2024-01-02", "50"}},
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/"+fileID.String(),
		strings.NewReader(`{"sheetName":"Sheet1","columnName":"Sales"}`))
	rec := serve(t, http.MethodPost, "/api/analytics/{fileID}", h.Analyze, authed(req, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message   string         `json:"message"`
		Analytics map[string]any `json:"analytics"`
		Data      [][]any        `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Analytics generated successfully", resp.Message)
	assert.Equal(t, float64(2), resp.Analytics["totalRows"])
	assert.Equal(t, float64(1250), resp.Analytics["sum"])
	assert.Equal(t, float64(625), resp.Analytics["average"])
	assert.Len(t, resp.Data, 2)
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"sheetName":`},
		{"missing sheet", `{"columnName":"Sales"}`},
		{"missing column", `{"sheetName":"Sheet1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			h := NewAnalysisHandler(svc, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/analytics/"+uuid.NewString(),
				strings.NewReader(tt.body))
			rec := serve(t, http.MethodPost, "/api/analytics/{fileID}", h.Analyze, authed(req, uuid.New()))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "AnalyzeColumn",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeHandlerErrorMapping(t *testing.T) {
	fileID := uuid.New()
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"file not found", services.ErrFileNotFound, http.StatusNotFound, "FILE_NOT_FOUND"},
		{"sheet not found", services.ErrSheetNotFound, http.StatusBadRequest, "SHEET_NOT_FOUND"},
		{"column not found", workbook.ErrColumnNotFound, http.StatusBadRequest, "COLUMN_NOT_FOUND"},
		{"corrupt file", workbook.ErrCorruptFile, http.StatusBadRequest, "CORRUPT_FILE"},
		{"blob unavailable", services.ErrFileUnavailable, http.StatusBadGateway, "FILE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			h := NewAnalysisHandler(svc, testLogger())
			svc.On("AnalyzeColumn", mock.Anything, fileID, mock.Anything, "Sheet1", "Sales").
				Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/analytics/"+fileID.String(),
				strings.NewReader(`{"sheetName":"Sheet1","columnName":"Sales"}`))
			rec := serve(t, http.MethodPost, "/api/analytics/{fileID}", h.Analyze, authed(req, uuid.New()))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestHistoryHandler(t *testing.T) {
	svc := new(MockAnalysisService)
	h := NewAnalysisHandler(svc, testLogger())

	fileID := uuid.New()
	ownerID := uuid.New()
	entries := []*domain.AnalyticsEntry{
		{
			ID:           uuid.New(),
			FileID:       fileID,
			AnalysisType: analytics.AnalysisTypeBasicStats,
			Results:      json.RawMessage(`{"totalRows":2}`),
		},
	}
	svc.On("History", mock.Anything, fileID, ownerID).Return(entries, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/"+fileID.String(), nil)
	rec := serve(t, http.MethodGet, "/api/analytics/{fileID}", h.History, authed(req, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []*domain.AnalyticsEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, analytics.AnalysisTypeBasicStats, resp[0].AnalysisType)
}

func TestHistoryHandlerEmpty(t *testing.T) {
	svc := new(MockAnalysisService)
	h := NewAnalysisHandler(svc, testLogger())

	fileID := uuid.New()
	ownerID := uuid.New()
	svc.On("History", mock.Anything, fileID, ownerID).Return([]*domain.AnalyticsEntry(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/"+fileID.String(), nil)
	rec := serve(t, http.MethodGet, "/api/analytics/{fileID}", h.History, authed(req, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
