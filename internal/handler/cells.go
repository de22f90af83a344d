// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// CellHandler handles cell group CRUD.
type CellHandler struct {
	queries *store.Queries
}

// NewCellHandler creates a new cell handler.
func NewCellHandler(db *sql.DB) *CellHandler {
	return &CellHandler{queries: store.New(db)}
}

type cellRequest struct {
	Name         string          `json:"name"`
	LeaderName   string          `json:"leader_name"`
	HostName     string          `json:"host_name"`
	Address      json.RawMessage `json:"address"`
	MeetingDay   string          `json:"meeting_day"`
	MeetingTime  string          `json:"meeting_time"`
	Observations string          `json:"observations"`
}

func (req *cellRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if strings.TrimSpace(req.LeaderName) == "" {
		fieldErrors["leader_name"] = "Leader name is required"
	}
	if req.MeetingDay != "" && !model.ValidMeetingDay(req.MeetingDay) {
		fieldErrors["meeting_day"] = "Unknown weekday: " + req.MeetingDay
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// List returns cells ordered by name. Deactivated records are excluded
// unless ?all=true is passed.
func (h *CellHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		cells []model.Cell
		err   error
	)
	if r.URL.Query().Get("all") == "true" {
		cells, err = h.queries.ListAllCells(r.Context())
	} else {
		cells, err = h.queries.ListActiveCells(r.Context())
	}
	if err != nil {
		slog.Error("listing cells", "error", err)
		WriteInternalError(w, "Failed to list cells")
		return
	}
	WriteSuccess(w, cells, &Meta{Total: int64(len(cells))})
}

// Get returns a single cell, active or not.
func (h *CellHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid cell ID", nil)
		return
	}

	cell, err := h.queries.GetCellByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Cell not found")
			return
		}
		slog.Error("loading cell", "error", err, "id", id)
		WriteInternalError(w, "Failed to load cell")
		return
	}
	WriteSuccess(w, cell, nil)
}

// Create registers a new cell group.
func (h *CellHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}
	addr, err := decodeAddress(req.Address)
	if err != nil {
		WriteValidationError(w, map[string]string{"address": err.Error()})
		return
	}

	cell, err := h.queries.CreateCell(r.Context(), store.CreateCellParams{
		Name:         strings.TrimSpace(req.Name),
		LeaderName:   strings.TrimSpace(req.LeaderName),
		HostName:     req.HostName,
		Address:      addr,
		MeetingDay:   req.MeetingDay,
		MeetingTime:  req.MeetingTime,
		Observations: req.Observations,
	})
	if err != nil {
		slog.Error("creating cell", "error", err)
		WriteInternalError(w, "Failed to create cell")
		return
	}
	WriteCreated(w, cell)
}

// Update replaces a cell's details.
func (h *CellHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid cell ID", nil)
		return
	}

	var req cellRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}
	addr, err := decodeAddress(req.Address)
	if err != nil {
		WriteValidationError(w, map[string]string{"address": err.Error()})
		return
	}

	cell, err := h.queries.UpdateCell(r.Context(), store.UpdateCellParams{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		LeaderName:   strings.TrimSpace(req.LeaderName),
		HostName:     req.HostName,
		Address:      addr,
		MeetingDay:   req.MeetingDay,
		MeetingTime:  req.MeetingTime,
		Observations: req.Observations,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Cell not found")
			return
		}
		slog.Error("updating cell", "error", err, "id", id)
		WriteInternalError(w, "Failed to update cell")
		return
	}
	WriteSuccess(w, cell, nil)
}

// Deactivate soft-deletes a cell group.
func (h *CellHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid cell ID", nil)
		return
	}

	if err := h.queries.DeactivateCell(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Cell not found")
			return
		}
		slog.Error("deactivating cell", "error", err, "id", id)
		WriteInternalError(w, "Failed to deactivate cell")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deactivated"}, nil)
}
