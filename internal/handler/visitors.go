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
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/address"
	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/store"
	"github.com/ieqgestao/ekklesia-go/internal/whatsapp"
)

// VisitorHandler handles visitor CRUD.
type VisitorHandler struct {
	queries *store.Queries
}

// NewVisitorHandler creates a new visitor handler.
func NewVisitorHandler(db *sql.DB) *VisitorHandler {
	return &VisitorHandler{queries: store.New(db)}
}

// decodeAddress accepts either the structured address object or the
// legacy single-string form carried over from older client exports.
// The string form is split back into fields on a best-effort basis.
func decodeAddress(raw json.RawMessage) (address.Fields, error) {
	if len(raw) == 0 {
		return address.Fields{}, nil
	}
	var fields address.Fields
	if err := json.Unmarshal(raw, &fields); err == nil {
		return fields, nil
	}
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return address.Fields{}, errors.New("address must be an object or a string")
	}
	return address.Decode(legacy), nil
}

type visitorRequest struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Address      json.RawMessage `json:"address"`
	Observations string          `json:"observations"`
}

// visitorResponse decorates the record with the rendered single-line
// address and a ready-to-use WhatsApp contact link.
type visitorResponse struct {
	model.Visitor
	AddressDisplay string `json:"address_display,omitempty"`
	WhatsAppLink   string `json:"whatsapp_link,omitempty"`
}

func visitorToResponse(v model.Visitor) visitorResponse {
	resp := visitorResponse{Visitor: v}
	if !v.Address.Empty() {
		resp.AddressDisplay = address.Encode(v.Address)
	}
	resp.WhatsAppLink = whatsapp.Link(v.Phone, v.Name)
	return resp
}

// List returns all visitors, most recent visit first.
func (h *VisitorHandler) List(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.queries.ListVisitors(r.Context())
	if err != nil {
		slog.Error("listing visitors", "error", err)
		WriteInternalError(w, "Failed to list visitors")
		return
	}

	responses := make([]visitorResponse, 0, len(visitors))
	for _, v := range visitors {
		responses = append(responses, visitorToResponse(v))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// Get returns a single visitor by ID.
func (h *VisitorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid visitor ID", nil)
		return
	}

	visitor, err := h.queries.GetVisitorByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Visitor not found")
			return
		}
		slog.Error("loading visitor", "error", err, "id", id)
		WriteInternalError(w, "Failed to load visitor")
		return
	}
	WriteSuccess(w, visitorToResponse(visitor), nil)
}

// Create registers a new visitor. The visit date is stamped by the
// server and never taken from the request.
func (h *VisitorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req visitorRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}
	addr, err := decodeAddress(req.Address)
	if err != nil {
		WriteValidationError(w, map[string]string{"address": err.Error()})
		return
	}

	visitor, err := h.queries.CreateVisitor(r.Context(), store.CreateVisitorParams{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      addr,
		VisitDate:    time.Now(),
		Observations: req.Observations,
	})
	if err != nil {
		slog.Error("creating visitor", "error", err)
		WriteInternalError(w, "Failed to create visitor")
		return
	}
	WriteCreated(w, visitorToResponse(visitor))
}

// Update replaces a visitor's contact details. The visit date is fixed
// at creation and ignored here.
func (h *VisitorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid visitor ID", nil)
		return
	}

	var req visitorRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}
	addr, err := decodeAddress(req.Address)
	if err != nil {
		WriteValidationError(w, map[string]string{"address": err.Error()})
		return
	}

	visitor, err := h.queries.UpdateVisitor(r.Context(), store.UpdateVisitorParams{
		ID:           id,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      addr,
		Observations: req.Observations,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Visitor not found")
			return
		}
		slog.Error("updating visitor", "error", err, "id", id)
		WriteInternalError(w, "Failed to update visitor")
		return
	}
	WriteSuccess(w, visitorToResponse(visitor), nil)
}
