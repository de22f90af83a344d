// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ieqgestao/ekklesia-go/internal/cep"
)

// CEPHandler proxies postal code lookups so browser clients never talk
// to the upstream service directly.
type CEPHandler struct {
	client *cep.Client
}

// NewCEPHandler creates a new CEP lookup handler.
func NewCEPHandler(client *cep.Client) *CEPHandler {
	return &CEPHandler{client: client}
}

// Lookup resolves a postal code to an address. Any lookup failure,
// malformed code included, answers 404: the client only cares whether
// an address came back.
func (h *CEPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	addr, err := h.client.Lookup(r.Context(), code)
	if err != nil {
		WriteNotFound(w, "Postal code not found")
		return
	}
	WriteSuccess(w, addr, nil)
}
