// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash %q does not use argon2id encoding", hash)
	}

	// Same password must not produce the same hash twice (random salt).
	hash2, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("segredo-forte")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	ok, err := CheckPassword("segredo-forte", hash)
	if err != nil {
		t.Fatalf("CheckPassword() error = %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("segredo-forte")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	ok, err := CheckPassword("segredo-errado", hash)
	if err != nil {
		t.Fatalf("CheckPassword() error = %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	for _, h := range []string{"", "plaintext", "$argon2id$v=19$bogus", "$bcrypt$x$y$z$w"} {
		if _, err := CheckPassword("anything", h); err == nil {
			t.Errorf("CheckPassword against %q returned no error", h)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("segredo-forte")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if NeedsRehash(hash) {
		t.Fatal("fresh hash reported as needing rehash")
	}
	stale := "$argon2id$v=19$m=4096,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	if !NeedsRehash(stale) {
		t.Fatal("stale parameters not flagged for rehash")
	}
	if !NeedsRehash("not-a-hash") {
		t.Fatal("malformed hash not flagged for rehash")
	}
}
