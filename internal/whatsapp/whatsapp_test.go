// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package whatsapp

import (
	"strings"
	"testing"
)

func TestLink(t *testing.T) {
	tests := []struct {
		name       string
		phone      string
		wantPrefix string
	}{
		{"national gets country code", "(11) 98888-7777", "https://wa.me/5511988887777?text="},
		{"already has country code", "5511988887777", "https://wa.me/5511988887777?text="},
		{"short number", "98888-7777", "https://wa.me/55988887777?text="},
		{"long international untouched", "551198888777712", "https://wa.me/551198888777712?text="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Link(tt.phone, "Ana")
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("Link(%q) = %q, want prefix %q", tt.phone, got, tt.wantPrefix)
			}
		})
	}
}

func TestLink_EmptyPhone(t *testing.T) {
	if got := Link("", "Ana"); got != "" {
		t.Fatalf("Link with empty phone = %q, want empty", got)
	}
}

func TestLink_GreetingEncoded(t *testing.T) {
	got := Link("11988887777", "Ana")
	if strings.Contains(got, " ") {
		t.Fatalf("link contains raw spaces: %q", got)
	}
	if !strings.Contains(got, "Ana") {
		t.Fatalf("link does not carry the name: %q", got)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+55 (11) 98888-7777"); got != "5511988887777" {
		t.Fatalf("Digits() = %q", got)
	}
}
