package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"excelytics/internal/auth"
	"excelytics/internal/services"
	"excelytics/pkg/contracts/domain"
)

// MockAuthService is a mock implementation of AuthServiceInterface.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

// MockFileService is a mock implementation of FileServiceInterface.
type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, ownerUserID uuid.UUID, originalName string, r io.Reader) (*domain.FileRecord, error) {
	args := m.Called(ctx, ownerUserID, originalName, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, ownerUserID uuid.UUID) ([]*domain.FileRecord, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FileRecord), args.Error(1)
}

// MockAnalysisService is a mock implementation of AnalysisServiceInterface.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) ParseWorkbook(ctx context.Context, fileID, callerUserID uuid.UUID) (*services.ParseResult, error) {
	args := m.Called(ctx, fileID, callerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ParseResult), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeColumn(ctx context.Context, fileID, callerUserID uuid.UUID, sheetName, columnName string) (*services.AnalysisResult, error) {
	args := m.Called(ctx, fileID, callerUserID, sheetName, columnName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) History(ctx context.Context, fileID, callerUserID uuid.UUID) ([]*domain.AnalyticsEntry, error) {
	args := m.Called(ctx, fileID, callerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnalyticsEntry), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authed attaches claims for the given user, the way the auth middleware
// would after verifying a token.
func authed(r *http.Request, userID uuid.UUID) *http.Request {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
		Username:         "tester",
	}
	return r.WithContext(auth.WithClaims(r.Context(), claims))
}

// serve routes the request through a throwaway chi router so URL parameters
// like {fileID} resolve.
func serve(t *testing.T, method, pattern string, handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}
