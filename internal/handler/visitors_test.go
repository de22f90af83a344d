// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ieqgestao/ekklesia-go/internal/address"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

func testVisitorRouter(t *testing.T) (*chi.Mux, *store.Queries) {
	t.Helper()

	db := testDB(t)
	h := NewVisitorHandler(db)

	r := chi.NewRouter()
	r.Get("/visitors", h.List)
	r.Post("/visitors", h.Create)
	r.Get("/visitors/{id}", h.Get)
	r.Put("/visitors/{id}", h.Update)
	return r, store.New(db)
}

func TestVisitorCreate_StructuredAddress(t *testing.T) {
	r, _ := testVisitorRouter(t)

	body := `{
		"name": "Carlos Lima",
		"phone": "(11) 98765-4321",
		"address": {
			"street": "Rua das Flores",
			"number": "12",
			"neighborhood": "Centro",
			"city": "São Paulo",
			"state": "SP",
			"postal_code": "01310100"
		}
	}`
	rec := postJSON(t, r, "/visitors", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data visitorResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Address.City != "São Paulo" {
		t.Errorf("city = %q", resp.Data.Address.City)
	}
	wantDisplay := "Rua das Flores, 12 - Centro, São Paulo/SP CEP: 01310100"
	if resp.Data.AddressDisplay != wantDisplay {
		t.Errorf("address_display = %q, want %q", resp.Data.AddressDisplay, wantDisplay)
	}
	if !strings.HasPrefix(resp.Data.WhatsAppLink, "https://wa.me/5511987654321?text=") {
		t.Errorf("whatsapp_link = %q", resp.Data.WhatsAppLink)
	}
	if resp.Data.VisitDate.IsZero() {
		t.Error("visit date should be stamped by the server")
	}
}

func TestVisitorCreate_LegacyAddressString(t *testing.T) {
	r, _ := testVisitorRouter(t)

	body := `{
		"name": "Dona Rosa",
		"address": "Av. Paulista, 1000 - Bela Vista, São Paulo/SP CEP: 01310-100"
	}`
	rec := postJSON(t, r, "/visitors", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data visitorResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want := address.Fields{
		Street:       "Av. Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		PostalCode:   "01310-100",
	}
	if resp.Data.Address != want {
		t.Errorf("decoded address = %+v, want %+v", resp.Data.Address, want)
	}
}

func TestVisitorCreate_MissingName(t *testing.T) {
	r, _ := testVisitorRouter(t)

	rec := postJSON(t, r, "/visitors", `{"phone":"11999990000"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestVisitorCreate_BadAddressType(t *testing.T) {
	r, _ := testVisitorRouter(t)

	rec := postJSON(t, r, "/visitors", `{"name":"X","address":42}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestVisitorList_MostRecentFirst(t *testing.T) {
	r, q := testVisitorRouter(t)
	ctx := context.Background()

	for i, params := range []store.CreateVisitorParams{
		{Name: "Primeiro", VisitDate: time.Now().Add(-48 * time.Hour)},
		{Name: "Segundo", VisitDate: time.Now()},
	} {
		if _, err := q.CreateVisitor(ctx, params); err != nil {
			t.Fatalf("CreateVisitor(%d): %v", i, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/visitors", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data []visitorResponse `json:"data"`
		Meta *Meta             `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Meta == nil || resp.Meta.Total != 2 {
		t.Fatalf("meta = %+v, want total 2", resp.Meta)
	}
	if resp.Data[0].Name != "Segundo" {
		t.Errorf("first listed = %q, want the most recent visit", resp.Data[0].Name)
	}
}

func TestVisitorUpdate_NotFound(t *testing.T) {
	r, _ := testVisitorRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/visitors/999", strings.NewReader(`{"name":"Ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestVisitorUpdate_KeepsVisitDate(t *testing.T) {
	r, q := testVisitorRouter(t)
	ctx := context.Background()

	visitDate := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	created, err := q.CreateVisitor(ctx, store.CreateVisitorParams{Name: "Ana", VisitDate: visitDate})
	if err != nil {
		t.Fatalf("CreateVisitor: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/visitors/1", strings.NewReader(`{"name":"Ana Paula"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := q.GetVisitorByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetVisitorByID: %v", err)
	}
	if updated.Name != "Ana Paula" {
		t.Errorf("name = %q", updated.Name)
	}
	if !updated.VisitDate.Equal(created.VisitDate) {
		t.Errorf("visit date changed from %v to %v", created.VisitDate, updated.VisitDate)
	}
}
