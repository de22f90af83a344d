// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/auth"
	"github.com/ieqgestao/ekklesia-go/internal/middleware"
	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/perm"
	"github.com/ieqgestao/ekklesia-go/internal/service"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// UserHandler handles account administration. All routes are mounted
// behind the admin requirement.
type UserHandler struct {
	queries *store.Queries
	events  *service.EventService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(db *sql.DB, events *service.EventService) *UserHandler {
	return &UserHandler{queries: store.New(db), events: events}
}

type userRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Phone       string   `json:"phone"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions perm.Set `json:"permissions"`
}

// List returns all accounts ordered by username.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("listing users", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userToResponse(u))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// Get returns a single account by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		slog.Error("loading user", "error", err, "id", id)
		WriteInternalError(w, "Failed to load user")
		return
	}
	WriteSuccess(w, userToResponse(user), nil)
}

// Create adds an account with an explicit permission set.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	fieldErrors := make(map[string]string)
	if req.Username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if len(req.Password) < auth.MinPasswordLength {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	perms := req.Permissions
	if perms == nil {
		perms = perm.DefaultMember()
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     req.Username,
		PasswordHash: sql.NullString{String: passwordHash, Valid: true},
		Phone:        req.Phone,
		IsAdmin:      req.IsAdmin,
		Permissions:  perms.Encode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		WriteConflict(w, "Username already taken")
		return
	}

	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo,
		"User created", middleware.GetUserID(r),
		map[string]any{"username": user.Username, "target_id": user.ID})

	WriteCreated(w, userToResponse(user))
}

// Update replaces an account's profile and permission set. The seed
// administrator cannot be demoted.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	fieldErrors := make(map[string]string)
	if req.Username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Password != "" && len(req.Password) < auth.MinPasswordLength {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	current, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		slog.Error("loading user", "error", err, "id", id)
		WriteInternalError(w, "Failed to update user")
		return
	}
	if current.IsProtected() && !req.IsAdmin {
		WriteConflict(w, "The primary administrator cannot be demoted")
		return
	}

	// Absent permissions keep the stored blob as-is; derived
	// capabilities are re-resolved on read, never persisted.
	permissions := current.Permissions
	if req.Permissions != nil {
		permissions = req.Permissions.Encode()
	}

	user, err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:          id,
		Username:    req.Username,
		Phone:       req.Phone,
		IsAdmin:     req.IsAdmin,
		Permissions: permissions,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		WriteConflict(w, "Username already taken")
		return
	}

	if req.Password != "" {
		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			slog.Error("hashing password", "error", err)
			WriteInternalError(w, "Failed to update password")
			return
		}
		if err := h.queries.UpdateUserPassword(r.Context(), id, passwordHash); err != nil {
			slog.Error("updating password", "error", err, "id", id)
			WriteInternalError(w, "Failed to update password")
			return
		}
	}

	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo,
		"User updated", middleware.GetUserID(r),
		map[string]any{"username": user.Username, "target_id": user.ID})

	WriteSuccess(w, userToResponse(user), nil)
}

// Delete removes an account. The seed administrator is refused.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrProtectedUser):
			WriteConflict(w, "The primary administrator cannot be deleted")
		case errors.Is(err, sql.ErrNoRows):
			WriteNotFound(w, "User not found")
		default:
			slog.Error("deleting user", "error", err, "id", id)
			WriteInternalError(w, "Failed to delete user")
		}
		return
	}

	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo,
		"User deleted", middleware.GetUserID(r), map[string]any{"target_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
