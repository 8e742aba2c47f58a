package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

const (
	pullPath    = "/api/v1/sync/pull"
	pushPath    = "/api/v1/sync/push"
	versionPath = "/api/version"
)

// Retry policy for 503 answers.
const (
	retryCount       = 2
	retryWaitTime    = 500 * time.Millisecond
	retryMaxWaitTime = 10 * time.Second
)

type httpSyncAdapter struct {
	client *utils.HTTPClient
	userID int64

	logger *logger.Logger
}

// NewHTTPSyncAdapter builds a [SyncAdapter] for the server at
// cfg.HTTPAddress authenticating with cfg.Token. An address without a scheme
// is taken as http.
func NewHTTPSyncAdapter(cfg config.Adapter, logger *logger.Logger) (SyncAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout)
	client.
		SetAuthToken(token).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		SetRetryAfter(retryAfter).
		AddRetryCondition(retryOnUnavailable)

	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		logger.Warn().Err(err).Str("func", "NewHTTPSyncAdapter").Msg("token subject is unreadable")
	}

	return &httpSyncAdapter{client: client, userID: userID, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func retryOnUnavailable(resp *resty.Response, err error) bool {
	return err == nil && resp.StatusCode() == http.StatusServiceUnavailable
}

// retryAfter honours the Retry-After seconds the server sends with
// transient failures. Zero falls back to resty's backoff.
func retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	seconds, err := strconv.Atoi(resp.Header().Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0, nil
	}
	return time.Duration(seconds) * time.Second, nil
}

// Pull implements [SyncAdapter].
func (h *httpSyncAdapter) Pull(ctx context.Context, lastPulledAt *int64) (models.PullResponse, error) {
	var out models.PullResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PullRequest{LastPulledAt: lastPulledAt}).
		SetResult(&out).
		Post(pullPath)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	h.logger.Debug().
		Str("func", "httpSyncAdapter.Pull").
		Int64("timestamp", out.Timestamp).
		Str("trace_id", resp.Header().Get("X-Trace-ID")).
		Msg("pulled")

	return out, nil
}

// Push implements [SyncAdapter].
func (h *httpSyncAdapter) Push(ctx context.Context, req models.PushRequest) (models.PushAck, error) {
	var ack models.PushAck

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&ack).
		Post(pushPath)
	if err != nil {
		return models.PushAck{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushAck{}, err
	}

	return ack, nil
}

// Version implements [SyncAdapter].
func (h *httpSyncAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(versionPath)
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

// UserID implements [SyncAdapter].
func (h *httpSyncAdapter) UserID() int64 {
	return h.userID
}
