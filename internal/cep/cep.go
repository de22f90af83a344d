// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cep looks up Brazilian postal codes against the ViaCEP API.
//
// Every failure mode collapses into ErrNotFound: callers cannot and
// must not distinguish a timeout from a 404 from a malformed response.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// ViaCEP lookup endpoint base
	defaultBaseURL = "https://viacep.com.br/ws"
	// Timeout for lookup requests
	lookupTimeout = 5 * time.Second
)

// ErrNotFound is the uniform outcome for every unsuccessful lookup:
// invalid code length, transport failure, non-200 status, malformed
// body or the API's own error marker.
var ErrNotFound = errors.New("cep: not found")

// Address is the subset of the ViaCEP response the application uses.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         bool   `json:"erro"`
}

// Client queries ViaCEP. The zero value is not usable; construct with
// NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client against the public ViaCEP endpoint.
func NewClient() *Client {
	return NewClientWithBase(defaultBaseURL)
}

// NewClientWithBase returns a client against a custom endpoint base,
// used by tests to point at a local server.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: lookupTimeout},
	}
}

// Clean strips everything but ASCII digits from a postal code.
func Clean(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders an 8-digit code as XXXXX-XXX. Anything else is
// returned unchanged.
func Format(code string) string {
	clean := Clean(code)
	if len(clean) != 8 {
		return code
	}
	return clean[:5] + "-" + clean[5:]
}

// Lookup resolves a postal code to an address. Codes that do not clean
// to exactly 8 digits fail immediately without touching the network.
func (c *Client) Lookup(ctx context.Context, code string) (*Address, error) {
	clean := Clean(code)
	if len(clean) != 8 {
		return nil, ErrNotFound
	}

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrNotFound
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNotFound
	}

	var addr Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return nil, ErrNotFound
	}
	if addr.Erro {
		return nil, ErrNotFound
	}
	return &addr, nil
}
