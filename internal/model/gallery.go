// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Album groups event photos.
type Album struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	EventDate   sql.NullTime `json:"event_date,omitempty"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Photo is one uploaded image inside an album. StoragePath is the
// object-store key; PublicURL is what clients load.
type Photo struct {
	ID          int64     `json:"id"`
	AlbumID     int64     `json:"album_id"`
	FileName    string    `json:"file_name"`
	PublicURL   string    `json:"public_url"`
	StoragePath string    `json:"-"`
	Description string    `json:"description,omitempty"`
	UploadedBy  int64     `json:"uploaded_by"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}
