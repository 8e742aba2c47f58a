// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. Only access tokens authorize sync
// calls.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the claim set of a bearer JWT: the registered claims plus
// the token type.
type TokenClaims struct {
	jwt.RegisteredClaims

	Type string `json:"type,omitempty"`
}

// Token wraps a parsed JWT bearer credential.
//
// It embeds [jwt.Token] for signature inspection and [TokenClaims] for the
// claim set. UserID caches the parsed "sub" claim.
type Token struct {
	*jwt.Token `json:"-"`

	TokenClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (t *Token) GetUserID() (int64, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if subject == "" {
		return 0, fmt.Errorf("error extracting UserID from token: empty subject")
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}
