// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage abstracts the object store holding gallery photo
// blobs. Keys are slash-separated paths scoped by album id.
package storage

import (
	"context"
	"io"
)

// Store is the object storage surface the gallery needs. Put returns
// the public URL for the stored object.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	URL(key string) string
}
