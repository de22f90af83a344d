// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/address"
)

// Ministry departments a volunteer can serve in.
const (
	DeptPastoral   = "Pastoral"
	DeptAdmin      = "Administração"
	DeptWorship    = "Louvor"
	DeptChildren   = "Infantil"
	DeptMedia      = "Mídia"
	DeptFacilities = "Zeladoria"
)

// Departments lists the valid volunteer departments.
var Departments = []string{
	DeptPastoral,
	DeptAdmin,
	DeptWorship,
	DeptChildren,
	DeptMedia,
	DeptFacilities,
}

// ValidDepartment reports whether dept is one of the known departments.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// Volunteer is a serving church member. Deactivated volunteers stay in
// the store with Active false and drop out of default listings.
type Volunteer struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone,omitempty"`
	Email            string         `json:"email,omitempty"`
	Address          address.Fields `json:"address"`
	Role             string         `json:"role"`
	Department       string         `json:"department"`
	HireDate         sql.NullTime   `json:"hire_date,omitempty"`
	RegistrationDate time.Time      `json:"registration_date"`
	Observations     string         `json:"observations,omitempty"`
	Active           bool           `json:"active"`
}
