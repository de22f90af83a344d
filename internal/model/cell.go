// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/ieqgestao/ekklesia-go/internal/address"

// Weekdays a cell can meet on, in calendar order.
var MeetingDays = []string{
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
	"Domingo",
}

// ValidMeetingDay reports whether day is a known weekday name.
func ValidMeetingDay(day string) bool {
	for _, d := range MeetingDays {
		if d == day {
			return true
		}
	}
	return false
}

// Cell is a small home group. Like volunteers, cells are soft-deleted
// via the Active flag.
type Cell struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	LeaderName   string         `json:"leader_name"`
	HostName     string         `json:"host_name,omitempty"`
	Address      address.Fields `json:"address"`
	MeetingDay   string         `json:"meeting_day,omitempty"`
	MeetingTime  string         `json:"meeting_time,omitempty"`
	Observations string         `json:"observations,omitempty"`
	Active       bool           `json:"active"`
}
