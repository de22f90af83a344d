// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs on the local filesystem under a root
// directory and serves them under a public URL prefix.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates a disk-backed store. urlPrefix is the path the
// HTTP server mounts the root directory on, e.g. "/gallery".
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &LocalStore{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

// Root returns the filesystem directory blobs live in.
func (s *LocalStore) Root() string { return s.root }

// cleanKey rejects keys that would escape the root.
func (s *LocalStore) cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" {
		return "", fmt.Errorf("storage: empty key")
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Put writes the object and returns its public URL.
func (s *LocalStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	dst, err := s.cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing object: %w", err)
	}

	return s.URL(key), nil
}

// Delete removes the object. Deleting a missing object is an error so
// callers can log it.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	dst, err := s.cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// List returns the keys stored under a prefix, relative to the root.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	dir, err := s.cleanKey(prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}
	return keys, nil
}

// URL returns the public URL for a key.
func (s *LocalStore) URL(key string) string {
	return s.urlPrefix + "/" + strings.TrimLeft(path.Clean("/"+key), "/")
}
