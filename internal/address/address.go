// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package address converts between structured Brazilian address fields
// and the single display string used on record listings and in legacy
// single-column imports.
package address

import "strings"

// Fields holds the discrete parts of an address. All fields are plain
// strings; missing parts are empty.
type Fields struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

// Empty reports whether every field is blank.
func (f Fields) Empty() bool {
	return f == Fields{}
}

// Encode renders the canonical display string:
//
//	<street>, <number> - <neighborhood>, <city>/<state> CEP: <postal>
//
// Fields are inserted verbatim, so a field containing one of the
// template separators produces a string Decode cannot fully invert.
func Encode(f Fields) string {
	var b strings.Builder
	b.WriteString(f.Street)
	b.WriteString(", ")
	b.WriteString(f.Number)
	b.WriteString(" - ")
	b.WriteString(f.Neighborhood)
	b.WriteString(", ")
	b.WriteString(f.City)
	b.WriteString("/")
	b.WriteString(f.State)
	b.WriteString(" CEP: ")
	b.WriteString(f.PostalCode)
	return b.String()
}

// Decode inverts Encode by peeling separators in order: the postal code
// after " CEP: ", then the first " - " split, then commas and the
// city/state slash. Input that does not match the template degrades
// field by field; whatever cannot be attributed stays in the
// coarser-grained field it was found in. Decode never fails, and the
// empty string yields zero Fields.
func Decode(s string) Fields {
	var f Fields
	if s == "" {
		return f
	}

	rest := s
	if i := strings.Index(rest, " CEP: "); i >= 0 {
		f.PostalCode = rest[i+len(" CEP: "):]
		rest = rest[:i]
	}

	// "<street>, <number>" before the first " - ", locality after it.
	streetPart := rest
	locality := ""
	if i := strings.Index(rest, " - "); i >= 0 {
		streetPart = rest[:i]
		locality = rest[i+len(" - "):]
	}

	if i := strings.Index(streetPart, ", "); i >= 0 {
		f.Street = streetPart[:i]
		f.Number = streetPart[i+len(", "):]
	} else {
		f.Street = streetPart
	}

	if locality != "" {
		cityPart := locality
		if i := strings.Index(locality, ", "); i >= 0 {
			f.Neighborhood = locality[:i]
			cityPart = locality[i+len(", "):]
		}
		if i := strings.Index(cityPart, "/"); i >= 0 {
			f.City = cityPart[:i]
			f.State = cityPart[i+1:]
		} else {
			f.City = cityPart
		}
	}

	return f
}
