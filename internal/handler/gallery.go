// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/middleware"
	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/service"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// GalleryHandler handles photo albums and uploads. Metadata work goes
// through the store; blob work through the gallery service.
type GalleryHandler struct {
	queries *store.Queries
	gallery *service.GalleryService
	events  *service.EventService
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(db *sql.DB, gallery *service.GalleryService, events *service.EventService) *GalleryHandler {
	return &GalleryHandler{
		queries: store.New(db),
		gallery: gallery,
		events:  events,
	}
}

type albumRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	EventDate   *time.Time `json:"event_date"`
}

// ListAlbums returns all albums, most recent event first.
func (h *GalleryHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.queries.ListAlbums(r.Context())
	if err != nil {
		slog.Error("listing albums", "error", err)
		WriteInternalError(w, "Failed to list albums")
		return
	}
	WriteSuccess(w, albums, &Meta{Total: int64(len(albums))})
}

// albumDetail bundles an album with its photos.
type albumDetail struct {
	model.Album
	Photos []model.Photo `json:"photos"`
}

// GetAlbum returns one album with its photos.
func (h *GalleryHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid album ID", nil)
		return
	}

	album, err := h.queries.GetAlbumByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Album not found")
			return
		}
		slog.Error("loading album", "error", err, "id", id)
		WriteInternalError(w, "Failed to load album")
		return
	}

	photos, err := h.queries.ListPhotosByAlbum(r.Context(), id)
	if err != nil {
		slog.Error("listing album photos", "error", err, "id", id)
		WriteInternalError(w, "Failed to load album")
		return
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	WriteSuccess(w, albumDetail{Album: album, Photos: photos}, &Meta{Total: int64(len(photos))})
}

// CreateAlbum adds an empty album.
func (h *GalleryHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	var eventDate sql.NullTime
	if req.EventDate != nil {
		eventDate = sql.NullTime{Time: *req.EventDate, Valid: true}
	}

	album, err := h.gallery.CreateAlbum(r.Context(), req.Name, req.Description, eventDate, middleware.GetUserID(r))
	if err != nil {
		slog.Error("creating album", "error", err)
		WriteInternalError(w, "Failed to create album")
		return
	}

	_ = h.events.LogGalleryEvent(r.Context(), model.EventLevelInfo,
		"Album created", middleware.GetUserID(r), map[string]any{"album_id": album.ID, "name": album.Name})

	WriteCreated(w, album)
}

// DeleteAlbum removes an album, its photo rows and its blobs.
func (h *GalleryHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid album ID", nil)
		return
	}

	if err := h.gallery.DeleteAlbum(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Album not found")
			return
		}
		slog.Error("deleting album", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete album")
		return
	}

	_ = h.events.LogGalleryEvent(r.Context(), model.EventLevelInfo,
		"Album deleted", middleware.GetUserID(r), map[string]any{"album_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// UploadPhoto accepts a multipart form with a "photo" file part and an
// optional "description" field.
func (h *GalleryHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	albumID, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid album ID", nil)
		return
	}

	if err := r.ParseMultipartForm(service.DefaultMaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteBadRequest(w, "Missing photo file", nil)
		return
	}
	defer file.Close()

	photo, err := h.gallery.UploadPhoto(r.Context(), albumID, file,
		header.Filename, header.Header.Get("Content-Type"),
		r.FormValue("description"), header.Size, middleware.GetUserID(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrUnsupportedType):
			WriteValidationError(w, map[string]string{"photo": err.Error()})
		case errors.Is(err, sql.ErrNoRows):
			WriteNotFound(w, "Album not found")
		default:
			slog.Error("uploading photo", "error", err, "album_id", albumID)
			WriteInternalError(w, "Failed to upload photo")
		}
		return
	}

	_ = h.events.LogGalleryEvent(r.Context(), model.EventLevelInfo,
		"Photo uploaded", middleware.GetUserID(r),
		map[string]any{"album_id": albumID, "photo_id": photo.ID, "file_name": photo.FileName})

	WriteCreated(w, photo)
}

// DeletePhoto removes one photo and its blob.
func (h *GalleryHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid photo ID", nil)
		return
	}

	if err := h.gallery.DeletePhoto(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Photo not found")
			return
		}
		slog.Error("deleting photo", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete photo")
		return
	}

	_ = h.events.LogGalleryEvent(r.Context(), model.EventLevelInfo,
		"Photo deleted", middleware.GetUserID(r), map[string]any{"photo_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
