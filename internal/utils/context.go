// Package utils holds small helpers shared by the transports, services and
// the client: context keys, JSON responses, bearer JWT handling, trace ids
// and the HTTP client wrapper.
package utils

import (
	"context"
)

// contextKey is a private type for context keys so that values stored here
// cannot collide with string keys of other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey stores the authenticated user id (int64) set by the auth
// middleware and interceptor.
var UserIDCtxKey = contextKey("userID")

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, userID)
}

// GetUserIDFromContext retrieves the user id stored by [WithUserID].
// ok is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
