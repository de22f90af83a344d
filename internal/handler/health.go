// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	db        *sql.DB
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// Health answers with overall status. The database is pinged; a failed
// ping degrades the status and the response code.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		payload["status"] = "degraded"
		payload["database"] = "unreachable"
		WriteJSON(w, http.StatusServiceUnavailable, payload)
		return
	}
	payload["database"] = "ok"
	WriteJSON(w, http.StatusOK, payload)
}
