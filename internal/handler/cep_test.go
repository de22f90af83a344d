// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ieqgestao/ekklesia-go/internal/cep"
)

func TestCEPLookup(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/01310100/json/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer backend.Close()

	h := NewCEPHandler(cep.NewClientWithBase(backend.URL))
	r := chi.NewRouter()
	r.Get("/cep/{code}", h.Lookup)

	req := httptest.NewRequest(http.MethodGet, "/cep/01310-100", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data cep.Address `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Street != "Avenida Paulista" || resp.Data.State != "SP" {
		t.Errorf("address = %+v", resp.Data)
	}
}

func TestCEPLookup_NotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"erro": true}`))
	}))
	defer backend.Close()

	h := NewCEPHandler(cep.NewClientWithBase(backend.URL))
	r := chi.NewRouter()
	r.Get("/cep/{code}", h.Lookup)

	for _, code := range []string{"99999999", "abc", "123"} {
		req := httptest.NewRequest(http.MethodGet, "/cep/"+code, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Lookup(%s) status = %d, want %d", code, rec.Code, http.StatusNotFound)
		}
	}
}
