// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/ieqgestao/ekklesia-go/internal/testutil"
)

// testDB creates a migrated temporary database for handler tests.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

// testSessionManager creates an in-memory session manager for tests.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}
