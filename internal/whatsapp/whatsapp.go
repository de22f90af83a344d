// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package whatsapp builds wa.me deep links with a pre-filled greeting,
// used on visitor and volunteer listings for one-tap follow-up.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// countryCode is prefixed onto national numbers (Brazil).
const countryCode = "55"

// Greeting is the pre-filled first message. The name is inserted as-is.
func Greeting(name string) string {
	return fmt.Sprintf("Olá %s, paz! Sou da IEQ.", name)
}

// Digits strips everything but ASCII digits from a phone number.
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link returns the wa.me URL for a phone number, or the empty string
// when no phone is given. National numbers (11 digits or fewer, no
// leading country code) get the Brazilian country code prefixed.
func Link(phone, name string) string {
	if phone == "" {
		return ""
	}
	digits := Digits(phone)
	if len(digits) <= 11 && !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(Greeting(name))
}
