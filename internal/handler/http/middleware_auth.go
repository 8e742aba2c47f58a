// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
)

// auth resolves the bearer token of the request to an active account and
// stores its id in the request context under [utils.UserIDCtxKey]. The
// request logger is tagged with the user id as well.
//
// Missing or malformed headers and unknown tokens are answered with 401,
// suspended accounts with 403 and resolver store failures with 503.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, "Handler.auth", ErrEmptyAuthorizationHeader)
			return
		}

		token, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			writeError(w, r, "Handler.auth", err)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.ResolveUser(ctx, token)
		if err != nil {
			writeError(w, r, "Handler.auth", err)
			return
		}

		log := logger.FromContext(ctx).GetChildLogger()
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", user.UserID)
		})
		ctx = log.WithContext(utils.WithUserID(ctx, user.UserID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
