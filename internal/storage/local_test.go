// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutDeleteList(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/gallery")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "7/abc_photo.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/gallery/7/abc_photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(s.Root(), "7", "abc_photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	_, err = s.Put(ctx, "7/def_other.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	keys, err := s.List(ctx, "7")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, s.Delete(ctx, "7/abc_photo.jpg"))
	assert.Error(t, s.Delete(ctx, "7/abc_photo.jpg"), "second delete of the same key should fail")

	keys, err = s.List(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"7/def_other.jpg"}, keys)
}

func TestLocalStore_ListMissingPrefix(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/gallery")
	require.NoError(t, err)

	keys, err := s.List(context.Background(), "99")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStore_KeyEscapeRejected(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(filepath.Join(root, "store"), "/gallery")
	require.NoError(t, err)

	// Path traversal stays inside the root.
	url, err := s.Put(context.Background(), "../escape.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/gallery/"), "URL = %q", url)

	_, err = os.Stat(filepath.Join(root, "escape.jpg"))
	assert.Error(t, err, "object escaped the storage root")
}
