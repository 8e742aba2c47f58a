// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// request carries no "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNoUserInContext means a protected handler ran without the auth
	// middleware in front of it.
	ErrNoUserInContext = errors.New("no user id in request context")

	ErrBodyTooLarge = errors.New("request body is too large")
)
