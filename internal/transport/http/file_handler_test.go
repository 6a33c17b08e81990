package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"excelytics/pkg/contracts/domain"
)

// multipartUpload builds a multipart body with a single "file" part.
func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	svc := new(MockFileService)
	h := NewFileHandler(svc, 50<<20, testLogger())

	ownerID := uuid.New()
	record := &domain.FileRecord{ID: uuid.New(), OwnerUserID: ownerID, OriginalName: "sales.csv", SizeBytes: 10}
	svc.On("Upload", mock.Anything, ownerID, "sales.csv", mock.Anything).Return(record, nil)

	body, contentType := multipartUpload(t, "sales.csv", []byte("a,b\n1,2\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, authed(req, ownerID))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File uploaded successfully", resp.Message)
	assert.Equal(t, "sales.csv", resp.File.OriginalName)
	// storage filename is internal and must not leak
	assert.NotContains(t, rec.Body.String(), "storage")
	svc.AssertExpectations(t)
}

func TestUploadHandlerRejectsExtension(t *testing.T) {
	svc := new(MockFileService)
	h := NewFileHandler(svc, 50<<20, testLogger())

	body, contentType := multipartUpload(t, "malware.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, authed(req, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only Excel and CSV files are allowed")
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandlerMissingFilePart(t *testing.T) {
	svc := new(MockFileService)
	h := NewFileHandler(svc, 50<<20, testLogger())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, authed(req, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}

func TestUploadHandlerPayloadTooLarge(t *testing.T) {
	svc := new(MockFileService)
	h := NewFileHandler(svc, 64, testLogger()) // tiny cap

	body, contentType := multipartUpload(t, "big.csv", bytes.Repeat([]byte("x"), 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, authed(req, uuid.New()))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestListHandler(t *testing.T) {
	svc := new(MockFileService)
	h := NewFileHandler(svc, 50<<20, testLogger())

	ownerID := uuid.New()
	records := []*domain.FileRecord{
		{ID: uuid.New(), OwnerUserID: ownerID, OriginalName: "q2.xlsx"},
	}
	svc.On("List", mock.Anything, ownerID).Return(records, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	h.List(rec, authed(req, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []*domain.FileRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "q2.xlsx", resp[0].OriginalName)
}

func TestListHandlerEmpty(t *testing.T) {
	svc := new(MockFileService)
	h := NewFileHandler(svc, 50<<20, testLogger())

	ownerID := uuid.New()
	svc.On("List", mock.Anything, ownerID).Return([]*domain.FileRecord(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	h.List(rec, authed(req, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	// empty array, never null
	assert.JSONEq(t, "[]", rec.Body.String())
}
