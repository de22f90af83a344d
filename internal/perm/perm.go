// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package perm resolves the effective capability set of a user from the
// permission blob stored on the account record.
package perm

import "encoding/json"

// Capability identifies a single grantable feature area.
type Capability string

const (
	// CapVisitors grants full visitor management.
	CapVisitors Capability = "visitors"
	// CapVisitorList grants read access to the visitor listing. It is
	// also derived automatically from CapVisitors.
	CapVisitorList Capability = "visitors:list"
	// CapCells grants cell group management.
	CapCells Capability = "cells"
	// CapVolunteers grants volunteer management.
	CapVolunteers Capability = "volunteers"
	// CapUsers grants user account administration.
	CapUsers Capability = "users"
	// CapReadonly marks the account as read-only. It is a restriction,
	// not a grant: handlers check it before allowing writes.
	CapReadonly Capability = "readonly"
)

// managed is the set of capabilities an administrator always holds.
var managed = []Capability{CapVisitors, CapVisitorList, CapCells, CapVolunteers, CapUsers}

// derivations maps a capability to the capabilities it implies. Kept as
// data so new edges are a one-line change.
var derivations = map[Capability][]Capability{
	CapVisitors: {CapVisitorList},
}

// Set is a resolved capability map. Absent keys mean "not granted".
type Set map[Capability]bool

// Has reports whether c is granted. Missing keys are false.
func (s Set) Has(c Capability) bool { return s[c] }

// ReadOnly reports whether the set carries the read-only restriction.
func (s Set) ReadOnly() bool { return s[CapReadonly] }

// Encode serializes the set for storage. An empty or nil set encodes as
// the empty JSON object.
func (s Set) Encode() string {
	if len(s) == 0 {
		return "{}"
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DefaultMember is the capability blob granted to self-registered and
// federated accounts: cell and volunteer access, read-only.
func DefaultMember() Set {
	return Set{CapCells: true, CapVolunteers: true, CapReadonly: true}
}

// Admin returns the fixed full-access set. Administrators ignore any
// stored permission blob; the read-only restriction never applies to
// them.
func Admin() Set {
	s := make(Set, len(managed)+1)
	for _, c := range managed {
		s[c] = true
	}
	s[CapReadonly] = false
	return s
}

// Resolve computes the effective capability set for an account.
//
// Administrators receive the fixed full-access set regardless of the
// stored blob. For other accounts the blob is decoded as a JSON object
// of capability name to boolean; a malformed blob resolves to the empty
// set rather than an error, so a corrupted record locks the account out
// of managed features instead of escalating it. Unknown keys survive
// resolution untouched. Derived capabilities are then applied from the
// derivation table.
func Resolve(isAdmin bool, stored string) Set {
	if isAdmin {
		return Admin()
	}
	s := Set{}
	if stored != "" {
		if err := json.Unmarshal([]byte(stored), &s); err != nil {
			return Set{}
		}
	}
	for src, implied := range derivations {
		if s[src] {
			for _, c := range implied {
				s[c] = true
			}
		}
	}
	return s
}
