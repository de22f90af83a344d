// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records persisted by the store:
// users, visitors, volunteers, cells and the photo gallery.
package model

import (
	"database/sql"
	"time"
)

// ProtectedUserID is the seed administrator. The record can never be
// deleted, by anyone, through any path.
const ProtectedUserID int64 = 1

// User represents an account that can sign in.
type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	PasswordHash sql.NullString `json:"-"` // Never expose in JSON; NULL for federated accounts
	Phone        string         `json:"phone,omitempty"`
	IsAdmin      bool           `json:"is_admin"`
	// Permissions is the stored capability blob (JSON object of
	// capability name to bool). Resolve it with the perm package;
	// never gate on it directly.
	Permissions string    `json:"-"`
	IsFederated bool      `json:"is_federated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsProtected returns true for the permanent seed administrator.
func (u *User) IsProtected() bool {
	return u.ID == ProtectedUserID
}
