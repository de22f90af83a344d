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

	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/store"
	"github.com/ieqgestao/ekklesia-go/internal/whatsapp"
)

// VolunteerHandler handles volunteer CRUD.
type VolunteerHandler struct {
	queries *store.Queries
}

// NewVolunteerHandler creates a new volunteer handler.
func NewVolunteerHandler(db *sql.DB) *VolunteerHandler {
	return &VolunteerHandler{queries: store.New(db)}
}

type volunteerRequest struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Address      json.RawMessage `json:"address"`
	Role         string          `json:"role"`
	Department   string          `json:"department"`
	HireDate     *time.Time      `json:"hire_date"`
	Observations string          `json:"observations"`
}

func (req *volunteerRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if strings.TrimSpace(req.Role) == "" {
		fieldErrors["role"] = "Role is required"
	}
	if !model.ValidDepartment(req.Department) {
		fieldErrors["department"] = "Unknown department: " + req.Department
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

type volunteerResponse struct {
	model.Volunteer
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

func volunteerToResponse(v model.Volunteer) volunteerResponse {
	return volunteerResponse{
		Volunteer:    v,
		WhatsAppLink: whatsapp.Link(v.Phone, v.Name),
	}
}

// List returns volunteers ordered by name. Deactivated records are
// excluded unless ?all=true is passed.
func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		volunteers []model.Volunteer
		err        error
	)
	if r.URL.Query().Get("all") == "true" {
		volunteers, err = h.queries.ListAllVolunteers(r.Context())
	} else {
		volunteers, err = h.queries.ListActiveVolunteers(r.Context())
	}
	if err != nil {
		slog.Error("listing volunteers", "error", err)
		WriteInternalError(w, "Failed to list volunteers")
		return
	}

	responses := make([]volunteerResponse, 0, len(volunteers))
	for _, v := range volunteers {
		responses = append(responses, volunteerToResponse(v))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// Get returns a single volunteer, active or not.
func (h *VolunteerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid volunteer ID", nil)
		return
	}

	volunteer, err := h.queries.GetVolunteerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Volunteer not found")
			return
		}
		slog.Error("loading volunteer", "error", err, "id", id)
		WriteInternalError(w, "Failed to load volunteer")
		return
	}
	WriteSuccess(w, volunteerToResponse(volunteer), nil)
}

// Create registers a new volunteer. The registration date is stamped
// by the server; the hire date is optional and caller-supplied.
func (h *VolunteerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req volunteerRequest
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

	var hireDate sql.NullTime
	if req.HireDate != nil {
		hireDate = sql.NullTime{Time: *req.HireDate, Valid: true}
	}

	volunteer, err := h.queries.CreateVolunteer(r.Context(), store.CreateVolunteerParams{
		Name:             strings.TrimSpace(req.Name),
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          addr,
		Role:             strings.TrimSpace(req.Role),
		Department:       req.Department,
		HireDate:         hireDate,
		RegistrationDate: time.Now(),
		Observations:     req.Observations,
	})
	if err != nil {
		slog.Error("creating volunteer", "error", err)
		WriteInternalError(w, "Failed to create volunteer")
		return
	}
	WriteCreated(w, volunteerToResponse(volunteer))
}

// Update replaces a volunteer's details. The registration date is
// fixed at creation and ignored here.
func (h *VolunteerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid volunteer ID", nil)
		return
	}

	var req volunteerRequest
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

	var hireDate sql.NullTime
	if req.HireDate != nil {
		hireDate = sql.NullTime{Time: *req.HireDate, Valid: true}
	}

	volunteer, err := h.queries.UpdateVolunteer(r.Context(), store.UpdateVolunteerParams{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      addr,
		Role:         strings.TrimSpace(req.Role),
		Department:   req.Department,
		HireDate:     hireDate,
		Observations: req.Observations,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Volunteer not found")
			return
		}
		slog.Error("updating volunteer", "error", err, "id", id)
		WriteInternalError(w, "Failed to update volunteer")
		return
	}
	WriteSuccess(w, volunteerToResponse(volunteer), nil)
}

// Deactivate soft-deletes a volunteer. The record stays in the store
// and keeps its history.
func (h *VolunteerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid volunteer ID", nil)
		return
	}

	if err := h.queries.DeactivateVolunteer(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Volunteer not found")
			return
		}
		slog.Error("deactivating volunteer", "error", err, "id", id)
		WriteInternalError(w, "Failed to deactivate volunteer")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deactivated"}, nil)
}
