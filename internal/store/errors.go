// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrNoUserWasFound is returned when no account matches the requested id.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrUnknownCollection is returned for a collection without a schema.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnsupportedDriver is returned by NewDB for an unknown driver name.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrTransient marks failures the classifier considers retryable
	// (connection loss, deadlock, busy database).
	ErrTransient = errors.New("transient database failure")
)

// Low-level database operation errors. These wrap the driver error.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
)
