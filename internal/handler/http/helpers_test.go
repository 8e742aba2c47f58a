package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// ── stubs ────────────────────────────────────────────────────────────────────

const (
	validToken  = "valid-token"
	testUserID  = int64(42)
	testVersion = "1.4.0"
)

type stubAuthService struct {
	resolve func(ctx context.Context, token string) (models.User, error)
}

func (s *stubAuthService) ResolveUser(ctx context.Context, token string) (models.User, error) {
	if s.resolve != nil {
		return s.resolve(ctx, token)
	}
	if token != validToken {
		return models.User{}, service.ErrUnauthenticated
	}
	return models.User{UserID: testUserID, IsActive: true}, nil
}

type stubSyncService struct {
	pull func(ctx context.Context, userID int64, req models.PullRequest) (models.PullResponse, error)
	push func(ctx context.Context, userID int64, req models.PushRequest) (models.PushAck, error)
}

func (s *stubSyncService) Pull(ctx context.Context, userID int64, req models.PullRequest) (models.PullResponse, error) {
	if s.pull == nil {
		return models.PullResponse{Changes: models.NewChangeSet()}, nil
	}
	return s.pull(ctx, userID, req)
}

func (s *stubSyncService) Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushAck, error) {
	if s.push == nil {
		return models.NewPushAck(), nil
	}
	return s.push(ctx, userID, req)
}

func (s *stubSyncService) PruneTombstones(context.Context) (int64, error) {
	return 0, nil
}

type stubAppInfoService struct{}

func (stubAppInfoService) GetAppVersion(context.Context) string { return testVersion }

// ── helpers ──────────────────────────────────────────────────────────────────

func newTestHandler(syncSvc service.SyncService) *Handler {
	if syncSvc == nil {
		syncSvc = &stubSyncService{}
	}
	return NewHandler(&service.Services{
		AuthService:    &stubAuthService{},
		SyncService:    syncSvc,
		AppInfoService: stubAppInfoService{},
	}, config.Server{}, logger.Nop())
}

func newTestRouter(syncSvc service.SyncService) http.Handler {
	return newTestHandler(syncSvc).Init()
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authorized() map[string]string {
	return map[string]string{"Authorization": "Bearer " + validToken}
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// bufferLogger returns a logger writing JSON lines into buf.
func bufferLogger(buf *bytes.Buffer) *logger.Logger {
	return &logger.Logger{Logger: zerolog.New(buf)}
}
