// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package perm

import "testing"

func TestResolve_AdminIgnoresStoredBlob(t *testing.T) {
	// Admin resolution must not be affected by anything stored on the
	// record, including a blob that tries to restrict it.
	blobs := []string{
		"",
		"{}",
		`{"visitors": false, "users": false, "readonly": true}`,
		"not json at all",
	}
	for _, blob := range blobs {
		s := Resolve(true, blob)
		for _, c := range []Capability{CapVisitors, CapVisitorList, CapCells, CapVolunteers, CapUsers} {
			if !s.Has(c) {
				t.Errorf("admin with blob %q missing %q", blob, c)
			}
		}
		if s.ReadOnly() {
			t.Errorf("admin with blob %q resolved as read-only", blob)
		}
	}
}

func TestResolve_DerivedVisitorListing(t *testing.T) {
	s := Resolve(false, `{"visitors": true}`)
	if !s.Has(CapVisitors) {
		t.Fatal("visitors not granted")
	}
	if !s.Has(CapVisitorList) {
		t.Fatal("visitor listing not derived from visitor management")
	}

	// Listing alone does not imply management.
	s = Resolve(false, `{"visitors:list": true}`)
	if s.Has(CapVisitors) {
		t.Fatal("listing grant escalated to management")
	}
	if !s.Has(CapVisitorList) {
		t.Fatal("explicit listing grant lost")
	}
}

func TestResolve_MalformedBlobDeniesAll(t *testing.T) {
	for _, blob := range []string{"{", "[1,2]", `"visitors"`, "\x00"} {
		s := Resolve(false, blob)
		if len(s) != 0 {
			t.Errorf("blob %q resolved to %v, want empty set", blob, s)
		}
	}
}

func TestResolve_EmptyAndAbsent(t *testing.T) {
	s := Resolve(false, "")
	if s.Has(CapVisitors) || s.Has(CapUsers) {
		t.Fatal("empty blob granted capabilities")
	}
	s = Resolve(false, "{}")
	if s.Has(CapCells) {
		t.Fatal("empty object granted capabilities")
	}
}

func TestResolve_UnknownKeysPassThrough(t *testing.T) {
	s := Resolve(false, `{"future_feature": true, "cells": true}`)
	if !s.Has(Capability("future_feature")) {
		t.Fatal("unknown key dropped during resolution")
	}
	if !s.Has(CapCells) {
		t.Fatal("known key lost alongside unknown key")
	}
}

func TestSet_Encode(t *testing.T) {
	if got := (Set{}).Encode(); got != "{}" {
		t.Fatalf("empty set encoded as %q", got)
	}
	var nilSet Set
	if got := nilSet.Encode(); got != "{}" {
		t.Fatalf("nil set encoded as %q", got)
	}
	round := Resolve(false, DefaultMember().Encode())
	if !round.Has(CapCells) || !round.Has(CapVolunteers) || !round.ReadOnly() {
		t.Fatalf("default member set did not survive encode/resolve: %v", round)
	}
}
