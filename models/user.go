// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// User is the account resolved from a bearer credential. Accounts are owned
// by the account service; sync only needs the identity and the active flag.
type User struct {
	// UserID is the internal identifier every synced row is scoped by.
	UserID int64 `json:"-"`

	// Email is the login of the account. Used in logs only.
	Email string `json:"email"`

	// IsActive is false for suspended accounts, which may not sync.
	IsActive bool `json:"is_active"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
