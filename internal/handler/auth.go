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

	"github.com/alexedwards/scs/v2"

	"github.com/ieqgestao/ekklesia-go/internal/auth"
	"github.com/ieqgestao/ekklesia-go/internal/middleware"
	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/perm"
	"github.com/ieqgestao/ekklesia-go/internal/service"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	queries        *store.Queries
	sessionManager *scs.SessionManager
	events         *service.EventService
	protection     *middleware.LoginProtection
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, events *service.EventService, protection *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		sessionManager: sm,
		events:         events,
		protection:     protection,
	}
}

// UserResponse is the account payload returned by auth and user routes.
type UserResponse struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Phone       string   `json:"phone,omitempty"`
	IsAdmin     bool     `json:"is_admin"`
	IsFederated bool     `json:"is_federated"`
	Permissions perm.Set `json:"permissions"`
}

func userToResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Phone:       u.Phone,
		IsAdmin:     u.IsAdmin,
		IsFederated: u.IsFederated,
		Permissions: perm.Resolve(u.IsAdmin, u.Permissions),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and establishes a session. Every
// non-match, unknown username included, produces the same generic
// failure so the endpoint does not leak which accounts exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		h.writeInvalidCredentials(w)
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(req.Username); locked {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login attempt on locked account", 0,
			map[string]any{"username": req.Username, "remaining": remaining.Round(time.Second).String()})
		WriteError(w, http.StatusTooManyRequests, "account_locked", "Account temporarily locked", nil)
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.failLogin(w, r, req.Username)
			return
		}
		slog.Error("loading user for login", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	// Federated accounts carry no password and cannot sign in here.
	if !user.PasswordHash.Valid {
		h.failLogin(w, r, req.Username)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash.String)
	if err != nil || !ok {
		h.failLogin(w, r, req.Username)
		return
	}

	if auth.NeedsRehash(user.PasswordHash.String) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			_ = h.queries.UpdateUserPassword(r.Context(), user.ID, newHash)
		}
	}

	h.protection.RecordSuccessfulLogin(req.Username)
	h.establishSession(w, r, user)
}

// FederatedLogin signs in a federated identity, creating the account
// on first use with no password and the default member permissions.
func (h *AuthHandler) FederatedLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Phone    string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		WriteValidationError(w, map[string]string{"username": "Username is required"})
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), req.Username)
	switch {
	case err == nil:
		// Existing account, federated or not, signs straight in.
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now()
		user, err = h.queries.CreateUser(r.Context(), store.CreateUserParams{
			Username:    req.Username,
			Phone:       req.Phone,
			Permissions: perm.DefaultMember().Encode(),
			IsFederated: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			slog.Error("creating federated user", "error", err)
			WriteInternalError(w, "Login failed")
			return
		}
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"Federated account created", user.ID, map[string]any{"username": user.Username})
	default:
		slog.Error("loading user for federated login", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	h.establishSession(w, r, user)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates a member account with the default permission set.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	validationErrors := make(map[string]string)
	if req.Username == "" {
		validationErrors["username"] = "Username is required"
	}
	if len(req.Password) < auth.MinPasswordLength {
		validationErrors["password"] = "Password must be at least 8 characters"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if _, err := h.queries.GetUserByUsername(r.Context(), req.Username); err == nil {
		WriteConflict(w, "Username already taken")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("checking username availability", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     req.Username,
		PasswordHash: sql.NullString{String: passwordHash, Valid: true},
		Phone:        req.Phone,
		Permissions:  perm.DefaultMember().Encode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Lost the race on the unique username.
		WriteConflict(w, "Username already taken")
		return
	}

	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo,
		"Member registered", user.ID, map[string]any{"username": user.Username})

	h.establishSession(w, r, user)
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID != 0 {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", userID, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("destroying session", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// establishSession renews the session token and binds it to the user.
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, user model.User) {
	// Renew the token to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("renewing session token", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in", user.ID, map[string]any{"username": user.Username})

	WriteSuccess(w, userToResponse(user), nil)
}

// failLogin records the failure and answers with the generic outcome.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, username string) {
	locked, duration := h.protection.RecordFailedAttempt(username)
	if locked {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Account locked after failed logins", 0,
			map[string]any{"username": username, "duration": duration.String()})
	} else {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Failed login attempt", 0, map[string]any{"username": username})
	}
	h.writeInvalidCredentials(w)
}

func (h *AuthHandler) writeInvalidCredentials(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password", nil)
}
