// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func testVolunteerRouter(t *testing.T) *chi.Mux {
	t.Helper()

	h := NewVolunteerHandler(testDB(t))
	r := chi.NewRouter()
	r.Get("/volunteers", h.List)
	r.Post("/volunteers", h.Create)
	r.Get("/volunteers/{id}", h.Get)
	r.Put("/volunteers/{id}", h.Update)
	r.Delete("/volunteers/{id}", h.Deactivate)
	return r
}

func TestVolunteerCreate(t *testing.T) {
	r := testVolunteerRouter(t)

	rec := postJSON(t, r, "/volunteers", `{
		"name": "Marcos Souza",
		"phone": "11911112222",
		"role": "Baterista",
		"department": "Louvor"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data volunteerResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Data.Active {
		t.Error("new volunteer should be active")
	}
	if resp.Data.RegistrationDate.IsZero() {
		t.Error("registration date should be stamped by the server")
	}
	if resp.Data.WhatsAppLink == "" {
		t.Error("volunteer with a phone should carry a contact link")
	}
}

func TestVolunteerCreate_Validation(t *testing.T) {
	r := testVolunteerRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"role":"Líder","department":"Pastoral"}`},
		{"missing role", `{"name":"X","department":"Pastoral"}`},
		{"unknown department", `{"name":"X","role":"Y","department":"Marketing"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, r, "/volunteers", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
			}
		})
	}
}

func TestVolunteerDeactivate(t *testing.T) {
	r := testVolunteerRouter(t)

	if rec := postJSON(t, r, "/volunteers", `{"name":"Saindo","role":"Apoio","department":"Zeladoria"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/volunteers/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d: %s", rec.Code, rec.Body.String())
	}

	// Default listing drops the record; direct fetch still works.
	req = httptest.NewRequest(http.MethodGet, "/volunteers", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	var resp struct {
		Data []volunteerResponse `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("active listing has %d entries, want 0", len(resp.Data))
	}

	req = httptest.NewRequest(http.MethodGet, "/volunteers?all=true", nil)
	all := httptest.NewRecorder()
	r.ServeHTTP(all, req)
	if err := json.Unmarshal(all.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding all listing: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Active {
		t.Errorf("all listing = %+v, want one inactive entry", resp.Data)
	}

	req = httptest.NewRequest(http.MethodGet, "/volunteers/1", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	if get.Code != http.StatusOK {
		t.Errorf("direct fetch of deactivated volunteer = %d, want %d", get.Code, http.StatusOK)
	}
}

func TestVolunteerDeactivate_Missing(t *testing.T) {
	r := testVolunteerRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/volunteers/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
