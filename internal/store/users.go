// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/model"
)

const createUser = `
INSERT INTO users (username, password_hash, phone, is_admin, permissions, is_federated, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, username, password_hash, phone, is_admin, permissions, is_federated, created_at, updated_at
`

// CreateUserParams holds the fields for a new account.
type CreateUserParams struct {
	Username     string
	PasswordHash sql.NullString
	Phone        string
	IsAdmin      bool
	Permissions  string
	IsFederated  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new account. A UNIQUE violation on username
// surfaces as the driver's constraint error.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username, arg.PasswordHash, arg.Phone, arg.IsAdmin,
		arg.Permissions, arg.IsFederated, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

const getUserByID = `
SELECT id, username, password_hash, phone, is_admin, permissions, is_federated, created_at, updated_at
FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `
SELECT id, username, password_hash, phone, is_admin, permissions, is_federated, created_at, updated_at
FROM users WHERE username = ?
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const listUsers = `
SELECT id, username, password_hash, phone, is_admin, permissions, is_federated, created_at, updated_at
FROM users ORDER BY username
`

func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const updateUser = `
UPDATE users
SET username = ?, phone = ?, is_admin = ?, permissions = ?, updated_at = ?
WHERE id = ?
RETURNING id, username, password_hash, phone, is_admin, permissions, is_federated, created_at, updated_at
`

// UpdateUserParams carries a full-field account update. The credential
// is updated separately via UpdateUserPassword.
type UpdateUserParams struct {
	ID          int64
	Username    string
	Phone       string
	IsAdmin     bool
	Permissions string
	UpdatedAt   time.Time
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, updateUser,
		arg.Username, arg.Phone, arg.IsAdmin, arg.Permissions, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}

const updateUserPassword = `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
`

func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, passwordHash, time.Now(), id)
	return err
}

const deleteUser = `DELETE FROM users WHERE id = ?`

// DeleteUser removes an account. The seed administrator (id 1) is
// refused unconditionally, regardless of the caller.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	if id == model.ProtectedUserID {
		return ErrProtectedUser
	}
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Phone,
		&u.IsAdmin, &u.Permissions, &u.IsFederated, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
