// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// userRepository looks up accounts in the "users" table.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// FindUserByID returns the account with userID.
//
// Error handling:
//   - no row → [ErrNoUserWasFound].
//   - any other driver error → wrapped [ErrExecutingQuery], marked
//     [ErrTransient] when retryable.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder(), userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.UserID, &user.Email, &user.IsActive)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		log.Debug().Str("func", "*userRepository.FindUserByID").Int64("user_id", userID).Msg("user not found")
		return models.User{}, ErrNoUserWasFound
	case err != nil:
		log.Err(err).
			Str("func", "*userRepository.FindUserByID").
			Str("sqlstate", postgresError(err)).
			Int64("user_id", userID).
			Msg("error querying user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return user, nil
}
