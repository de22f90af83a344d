// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/address"
)

// Visitor is a first-time or returning church visitor. Visitors are
// never deleted; records are kept for follow-up history.
type Visitor struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone,omitempty"`
	Email        string         `json:"email,omitempty"`
	Address      address.Fields `json:"address"`
	VisitDate    time.Time      `json:"visit_date"`
	Observations string         `json:"observations,omitempty"`
}
