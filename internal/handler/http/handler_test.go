package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// ── NewHandler ───────────────────────────────────────────────────────────────

func TestNewHandler(t *testing.T) {
	svcs := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svcs, config.Server{RequestTimeout: 3 * time.Second}, log)

	require.NotNil(t, h)
	assert.Same(t, svcs, h.services)
	assert.Same(t, log, h.logger)
	assert.Equal(t, 3*time.Second, h.requestTimeout)
	assert.NotNil(t, h.traceIDs)
}

// ── Init ─────────────────────────────────────────────────────────────────────

func TestInit_Routes(t *testing.T) {
	tests := []struct {
		method     string
		path       string
		headers    map[string]string
		wantStatus int
	}{
		{http.MethodGet, "/api/version", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/sync/pull", authorized(), http.StatusOK},
		{http.MethodPost, "/api/v1/sync/pull", authorized(), http.StatusOK},
		{http.MethodPost, "/api/v1/sync/push", authorized(), http.StatusOK},

		{http.MethodGet, "/api/v1/sync/pull", nil, http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/sync/push", nil, http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/sync/push", map[string]string{"Authorization": "Bearer stale"}, http.StatusUnauthorized},

		{http.MethodGet, "/api/v1/sync/push", authorized(), http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/sync/pull", authorized(), http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/version", nil, http.StatusMethodNotAllowed},

		{http.MethodGet, "/api/nonexistent", nil, http.StatusNotFound},
		{http.MethodGet, "/api/v1/sync/unknown", authorized(), http.StatusNotFound},
	}

	router := newTestRouter(nil)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, "", tt.headers)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
		})
	}
}

func TestInit_RecoversFromPanics(t *testing.T) {
	h := newTestHandler(panickingSyncService{&stubSyncService{}})

	rec := serve(h.Init(), http.MethodPost, "/api/v1/sync/pull", "", authorized())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panickingSyncService struct {
	*stubSyncService
}

func (panickingSyncService) Pull(context.Context, int64, models.PullRequest) (models.PullResponse, error) {
	panic("unexpected nil map")
}
