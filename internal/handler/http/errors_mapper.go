// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
)

// retryAfterSeconds is sent with 503 responses caused by transient store
// failures.
const retryAfterSeconds = "5"

type errorStatus struct {
	err    error
	status int
}

// errorStatuses is checked in order; the first sentinel in the chain wins.
var errorStatuses = []errorStatus{
	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized},
	{utils.ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrInvalidWatermark, http.StatusBadRequest},
	{service.ErrUnknownCollection, http.StatusBadRequest},
	{service.ErrInvalidRequest, http.StatusBadRequest},
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
}

// errorResponse is the JSON body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

func statusFromError(err error) int {
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			return es.status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with the mapped status. Store failures are
// reported without their driver detail.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	message := err.Error()
	switch {
	case status == http.StatusServiceUnavailable:
		message = service.ErrStoreUnavailable.Error()
		if errors.Is(err, store.ErrTransient) {
			w.Header().Set("Retry-After", retryAfterSeconds)
		}
	case status >= http.StatusInternalServerError:
		message = http.StatusText(status)
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, errorResponse{Error: message}, status)
}
