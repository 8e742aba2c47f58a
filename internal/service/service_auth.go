// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// authService resolves bearer JWTs issued by the account service. Tokens are
// verified with the shared HMAC key; the account itself is then looked up so
// that suspended users are refused even while their token is valid.
type authService struct {
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to verify JWT signatures.
	tokenSignKey string

	// tokenIssuer is the required "iss" claim.
	tokenIssuer string

	logger *logger.Logger
}

// NewAuthService constructs an AuthService verifying tokens with the
// parameters from cfg. The returned service is safe for concurrent use.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		logger:         logger,
	}
}

// ResolveUser implements [AuthService].
//
// Returns:
//   - ErrUnauthenticated if the token is invalid, expired or names an
//     unknown account.
//   - ErrForbidden if the account is inactive.
//   - ErrStoreUnavailable if the account lookup fails.
func (a *authService) ResolveUser(ctx context.Context, token string) (models.User, error) {
	log := logger.FromContext(ctx)

	parsed, err := utils.ValidateAndParseJWTToken(token, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Str("func", "authService.ResolveUser").Msg("token rejected")
		return models.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := a.userRepository.FindUserByID(ctx, parsed.UserID)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		log.Warn().Int64("user_id", parsed.UserID).Str("func", "authService.ResolveUser").Msg("token names unknown user")
		return models.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	case err != nil:
		log.Err(err).Int64("user_id", parsed.UserID).Str("func", "authService.ResolveUser").Msg("user lookup failed")
		return models.User{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !user.IsActive {
		log.Warn().Int64("user_id", user.UserID).Str("func", "authService.ResolveUser").Msg("inactive user tried to sync")
		return models.User{}, ErrForbidden
	}

	return user, nil
}
