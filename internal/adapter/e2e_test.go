package adapter_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/adapter"
	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	handlerhttp "github.com/MKhiriev/go-bankroll-sync/internal/handler/http"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
	"github.com/MKhiriev/go-bankroll-sync/internal/store/storetest"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

const (
	e2eSignKey = "e2e-sign-key"
	e2eIssuer  = "go-bankroll-sync"
)

// newE2EAdapter starts the real router over SQLite and returns an adapter
// authenticated as a freshly created user.
func newE2EAdapter(t *testing.T) adapter.SyncAdapter {
	a, _ := startE2E(t)
	return a
}

func startE2E(t *testing.T) (adapter.SyncAdapter, string) {
	t.Helper()
	log := logger.Nop()
	db := storetest.NewSQLite(t)

	cfg := config.StructuredConfig{
		App:  config.App{TokenSignKey: e2eSignKey, TokenIssuer: e2eIssuer, Version: "1.4.0"},
		Sync: config.Sync{ClockSkewTolerance: 5 * time.Minute, TombstoneRetention: 30 * 24 * time.Hour},
	}
	services, err := service.NewServices(store.NewStorages(db, log), cfg, log)
	require.NoError(t, err)

	srv := httptest.NewServer(handlerhttp.NewHandler(services, cfg.Server, log).Init())
	t.Cleanup(srv.Close)

	userID := storetest.CreateUser(t, db, "player@example.com", true)
	token, err := utils.GenerateJWTToken(e2eIssuer, userID, time.Hour, e2eSignKey)
	require.NoError(t, err)

	a, err := adapter.NewHTTPSyncAdapter(config.Adapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 5 * time.Second,
		Token:          token.SignedString,
	}, log)
	require.NoError(t, err)
	require.Equal(t, userID, a.UserID())
	return a, srv.URL
}

func adapterFor(t *testing.T, url string, userID int64) adapter.SyncAdapter {
	t.Helper()
	token, err := utils.GenerateJWTToken(e2eIssuer, userID, time.Hour, e2eSignKey)
	require.NoError(t, err)

	a, err := adapter.NewHTTPSyncAdapter(config.Adapter{HTTPAddress: url, Token: token.SignedString}, logger.Nop())
	require.NoError(t, err)
	return a
}

func pushSession(id string) models.PushRequest {
	req := models.PushRequest{Changes: models.NewChangeSet()}
	sessions := req.Changes[models.Sessions]
	sessions.Created = []models.RawRecord{{
		"id":         id,
		"start_time": int64(1714600000000),
		"game_type":  "NLHE",
		"big_blind":  2,
		"buy_in":     200,
	}}
	req.Changes[models.Sessions] = sessions
	return req
}

func TestE2E_Version(t *testing.T) {
	v, err := newE2EAdapter(t).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", v)
}

func TestE2E_PushThenPull(t *testing.T) {
	a := newE2EAdapter(t)
	ctx := context.Background()

	ack, err := a.Push(ctx, pushSession("s-1"))
	require.NoError(t, err)
	assert.Equal(t, models.AppliedCounts{Created: 1}, ack.Applied[models.Sessions])
	assert.Empty(t, ack.Rejected)

	full, err := a.Pull(ctx, nil)
	require.NoError(t, err)
	created := full.Changes[models.Sessions].Created
	require.Len(t, created, 1)
	assert.Equal(t, "s-1", created[0].ID())
	assert.Equal(t, "NLHE", created[0]["game_type"])

	again, err := a.Pull(ctx, &full.Timestamp)
	require.NoError(t, err)
	assert.True(t, again.Changes.IsEmpty())
}

func TestE2E_EditAndDeleteAreReported(t *testing.T) {
	a := newE2EAdapter(t)
	ctx := context.Background()

	_, err := a.Push(ctx, pushSession("s-1"))
	require.NoError(t, err)
	_, err = a.Push(ctx, pushSession("s-2"))
	require.NoError(t, err)

	mark, err := a.Pull(ctx, nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	req := models.PushRequest{Changes: models.NewChangeSet(), LastPulledAt: &mark.Timestamp}
	sessions := req.Changes[models.Sessions]
	sessions.Updated = []models.RawRecord{{"id": "s-1", "cash_out": 450.5}}
	sessions.Deleted = []string{"s-2"}
	req.Changes[models.Sessions] = sessions

	ack, err := a.Push(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.AppliedCounts{Updated: 1, Deleted: 1}, ack.Applied[models.Sessions])

	resp, err := a.Pull(ctx, &mark.Timestamp)
	require.NoError(t, err)
	got := resp.Changes[models.Sessions]
	assert.Empty(t, got.Created)
	require.Len(t, got.Updated, 1)
	assert.Equal(t, "s-1", got.Updated[0].ID())
	assert.Equal(t, []string{"s-2"}, got.Deleted)
}

func TestE2E_MixedBatchIsAcknowledged(t *testing.T) {
	a := newE2EAdapter(t)

	req := pushSession("s-1")
	hands := req.Changes[models.Hands]
	hands.Created = []models.RawRecord{
		{"id": "h-1", "session_id": "s-1"},
		{"id": "h-2", "session_id": "missing"},
	}
	req.Changes[models.Hands] = hands

	ack, err := a.Push(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, models.AppliedCounts{Created: 1}, ack.Applied[models.Sessions])
	assert.Equal(t, models.AppliedCounts{Created: 1}, ack.Applied[models.Hands])
	require.Len(t, ack.Rejected, 1)
	assert.Equal(t, "h-2", ack.Rejected[0].Identifier)
	assert.Equal(t, models.RejectDanglingReference, ack.Rejected[0].Reason)
}

func TestE2E_FutureWatermarkIsBadRequest(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()

	_, err := newE2EAdapter(t).Pull(context.Background(), &future)

	assert.ErrorIs(t, err, adapter.ErrBadRequest)
}

func TestE2E_UnknownUserIsUnauthorized(t *testing.T) {
	_, url := startE2E(t)

	_, err := adapterFor(t, url, 9999).Pull(context.Background(), nil)

	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}
