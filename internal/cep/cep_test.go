// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package cep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestLookup_ShortCodeNeverHitsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClientWithBase(srv.URL)
	for _, code := range []string{"", "123", "123456789", "abcd-efg", "01310-10"} {
		_, err := client.Lookup(context.Background(), code)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Lookup(%q) err = %v, want ErrNotFound", code, err)
		}
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("server received %d requests, want 0", n)
	}
}

func TestLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/01310100/json/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	addr, err := NewClientWithBase(srv.URL).Lookup(context.Background(), "01310-100")
	if err != nil {
		t.Fatalf("Lookup() err = %v", err)
	}
	if addr.Street != "Avenida Paulista" || addr.City != "São Paulo" || addr.State != "SP" {
		t.Fatalf("Lookup() = %+v", addr)
	}
}

func TestLookup_FailureModesAreUniform(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"error marker with 200", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"erro": true}`))
		}},
		{"not found status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			_, err := NewClientWithBase(srv.URL).Lookup(context.Background(), "01310100")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestLookup_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := NewClientWithBase(srv.URL).Lookup(context.Background(), "01310100")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCleanAndFormat(t *testing.T) {
	if got := Clean("01310-100"); got != "01310100" {
		t.Fatalf("Clean() = %q", got)
	}
	if got := Format("01310100"); got != "01310-100" {
		t.Fatalf("Format() = %q", got)
	}
	if got := Format("1234"); got != "1234" {
		t.Fatalf("Format(short) = %q, want input unchanged", got)
	}
}
