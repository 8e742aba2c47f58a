// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

const (
	maxBodyBytes = 32 << 20

	lastPulledAtParam = "last_pulled_at"
)

// pull serves POST /api/v1/sync/pull. An empty body is a full sync.
func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	var req models.PullRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, "Handler.pull", err)
		return
	}

	h.servePull(w, r, req)
}

// pullByQuery serves GET /api/v1/sync/pull?last_pulled_at=<ms>.
func (h *Handler) pullByQuery(w http.ResponseWriter, r *http.Request) {
	var req models.PullRequest

	if raw := r.URL.Query().Get(lastPulledAtParam); raw != "" && raw != "null" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, "Handler.pullByQuery", fmt.Errorf("%w: %q is not an integer", service.ErrInvalidWatermark, raw))
			return
		}
		req.LastPulledAt = &ms
	}

	h.servePull(w, r, req)
}

func (h *Handler) servePull(w http.ResponseWriter, r *http.Request, req models.PullRequest) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, "Handler.pull", ErrNoUserInContext)
		return
	}

	resp, err := h.services.SyncService.Pull(ctx, userID, req)
	if err != nil {
		writeError(w, r, "Handler.pull", err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// push serves POST /api/v1/sync/push. Item-level rejections are part of a
// 200 answer; only request-level failures change the status.
func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, "Handler.push", ErrNoUserInContext)
		return
	}

	var req models.PushRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, "Handler.push", err)
		return
	}

	ack, err := h.services.SyncService.Push(ctx, userID, req)
	if err != nil {
		writeError(w, r, "Handler.push", err)
		return
	}

	if len(ack.Rejected) > 0 {
		log.Info().Str("func", "Handler.push").Int("rejected", len(ack.Rejected)).Msg("push partially applied")
	}
	utils.WriteJSON(w, ack, http.StatusOK)
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	err := json.NewDecoder(body).Decode(v)
	var maxBytesErr *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBytesErr.Limit)
	default:
		return fmt.Errorf("%w: %w", service.ErrInvalidRequest, err)
	}
}
