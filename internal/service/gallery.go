// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/storage"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// Upload limits
const (
	DefaultMaxUploadSize = 20 * 1024 * 1024 // 20MB
	thumbnailSize        = 480
)

// Upload validation failures, distinguishable from storage errors.
var (
	ErrFileTooLarge    = errors.New("file size exceeds the upload limit")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// allowedPhotoMimeTypes defines the MIME types a photo upload may have.
var allowedPhotoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// GalleryService owns albums and photos: metadata rows in the store,
// blobs in object storage. Blob cleanup is best-effort; metadata
// deletion never waits on it.
type GalleryService struct {
	queries   *store.Queries
	blobs     storage.Store
	maxUpload int64
}

// NewGalleryService creates a gallery service over the given database
// and object store.
func NewGalleryService(db *sql.DB, blobs storage.Store, maxUpload int64) *GalleryService {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadSize
	}
	return &GalleryService{
		queries:   store.New(db),
		blobs:     blobs,
		maxUpload: maxUpload,
	}
}

// UploadPhoto validates, stores and records one photo.
func (s *GalleryService) UploadPhoto(ctx context.Context, albumID int64, file io.Reader, filename, mimeType, description string, size, userID int64) (model.Photo, error) {
	if size > s.maxUpload {
		return model.Photo{}, fmt.Errorf("%w (%d bytes max)", ErrFileTooLarge, s.maxUpload)
	}
	if !allowedPhotoMimeTypes[mimeType] {
		return model.Photo{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	// The album must exist before anything touches storage.
	album, err := s.queries.GetAlbumByID(ctx, albumID)
	if err != nil {
		return model.Photo{}, fmt.Errorf("loading album: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		return model.Photo{}, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxUpload {
		return model.Photo{}, fmt.Errorf("%w (%d bytes max)", ErrFileTooLarge, s.maxUpload)
	}

	name := sanitizeFilename(filename)
	key := fmt.Sprintf("%d/%s_%s", album.ID, uuid.New().String(), name)

	publicURL, err := s.blobs.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		return model.Photo{}, fmt.Errorf("storing photo: %w", err)
	}

	s.storeThumbnail(ctx, key, mimeType, data)

	photo, err := s.queries.CreatePhoto(ctx, store.CreatePhotoParams{
		AlbumID:     album.ID,
		FileName:    name,
		PublicURL:   publicURL,
		StoragePath: key,
		Description: description,
		UploadedBy:  userID,
		FileSize:    int64(len(data)),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		// Roll back the blobs; the row never existed.
		s.deleteBlob(ctx, key)
		s.deleteBlob(ctx, ThumbKey(key))
		return model.Photo{}, fmt.Errorf("recording photo: %w", err)
	}

	return photo, nil
}

// storeThumbnail renders and stores a reduced variant. Thumbnail
// failures are logged, never fatal: the full-size photo is already in
// place.
func (s *GalleryService) storeThumbnail(ctx context.Context, key, mimeType string, data []byte) {
	if mimeType == "image/gif" || mimeType == "image/webp" {
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		slog.Warn("thumbnail decode failed", "category", model.EventCategoryGallery, "key", key, "error", err.Error())
		return
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	format := imaging.JPEG
	if mimeType == "image/png" {
		format = imaging.PNG
	}
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		slog.Warn("thumbnail encode failed", "category", model.EventCategoryGallery, "key", key, "error", err.Error())
		return
	}

	if _, err := s.blobs.Put(ctx, ThumbKey(key), &buf); err != nil {
		slog.Warn("thumbnail store failed", "category", model.EventCategoryGallery, "key", key, "error", err.Error())
	}
}

// ThumbKey returns the storage key of a photo's thumbnail variant.
func ThumbKey(key string) string {
	return path.Join(path.Dir(key), "thumbs", path.Base(key))
}

// CreateAlbum records a new album.
func (s *GalleryService) CreateAlbum(ctx context.Context, name, description string, eventDate sql.NullTime, userID int64) (model.Album, error) {
	return s.queries.CreateAlbum(ctx, store.CreateAlbumParams{
		Name:        name,
		Description: description,
		EventDate:   eventDate,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	})
}

// DeleteAlbum removes an album, its photo rows and, best-effort, their
// blobs. A blob that cannot be deleted is logged and left behind; the
// metadata goes regardless.
func (s *GalleryService) DeleteAlbum(ctx context.Context, albumID int64) error {
	photos, err := s.queries.ListPhotosByAlbum(ctx, albumID)
	if err != nil {
		return fmt.Errorf("listing album photos: %w", err)
	}

	for _, photo := range photos {
		s.deleteBlob(ctx, photo.StoragePath)
		s.deleteBlob(ctx, ThumbKey(photo.StoragePath))
	}

	// Photo rows cascade with the album row.
	if err := s.queries.DeleteAlbum(ctx, albumID); err != nil {
		return fmt.Errorf("deleting album: %w", err)
	}
	return nil
}

// DeletePhoto removes one photo row and, best-effort, its blobs.
func (s *GalleryService) DeletePhoto(ctx context.Context, photoID int64) error {
	photo, err := s.queries.GetPhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("loading photo: %w", err)
	}

	s.deleteBlob(ctx, photo.StoragePath)
	s.deleteBlob(ctx, ThumbKey(photo.StoragePath))

	if err := s.queries.DeletePhoto(ctx, photoID); err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	return nil
}

func (s *GalleryService) deleteBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		slog.Warn("blob cleanup failed",
			"category", model.EventCategoryGallery,
			"key", key,
			"error", err.Error(),
		)
	}
}

// sanitizeFilename strips directory components and metacharacters from
// an uploaded filename.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"..", "_",
		"/", "_",
		"\\", "_",
	)
	name := replacer.Replace(filename)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
