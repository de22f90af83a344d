// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ieqgestao/ekklesia-go/internal/model"
	"github.com/ieqgestao/ekklesia-go/internal/service"
	"github.com/ieqgestao/ekklesia-go/internal/storage"
)

func testGalleryRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db := testDB(t)
	blobs, err := storage.NewLocalStore(t.TempDir(), "/gallery")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	gallery := service.NewGalleryService(db, blobs, 0)
	h := NewGalleryHandler(db, gallery, service.NewEventService(db))

	r := chi.NewRouter()
	r.Get("/albums", h.ListAlbums)
	r.Post("/albums", h.CreateAlbum)
	r.Get("/albums/{id}", h.GetAlbum)
	r.Delete("/albums/{id}", h.DeleteAlbum)
	r.Post("/albums/{id}/photos", h.UploadPhoto)
	r.Delete("/photos/{id}", h.DeletePhoto)
	return r
}

func multipartPhoto(t *testing.T, filename, contentType, payload string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte(payload)); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := w.WriteField("description", "Culto de domingo"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestAlbumLifecycle(t *testing.T) {
	r := testGalleryRouter(t)

	rec := postJSON(t, r, "/albums", `{"name":"Páscoa 2026","description":"Fotos do culto"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	body, contentType := multipartPhoto(t, "foto da pascoa.gif", "image/gif", "GIF89a-not-a-real-gif")
	req := httptest.NewRequest(http.MethodPost, "/albums/1/photos", body)
	req.Header.Set("Content-Type", contentType)
	upload := httptest.NewRecorder()
	r.ServeHTTP(upload, req)
	if upload.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", upload.Code, upload.Body.String())
	}

	var photoResp struct {
		Data model.Photo `json:"data"`
	}
	if err := json.Unmarshal(upload.Body.Bytes(), &photoResp); err != nil {
		t.Fatalf("decoding upload response: %v", err)
	}
	if photoResp.Data.FileName != "foto_da_pascoa.gif" {
		t.Errorf("file name = %q, want sanitized original", photoResp.Data.FileName)
	}
	if !strings.HasPrefix(photoResp.Data.PublicURL, "/gallery/1/") {
		t.Errorf("public URL = %q", photoResp.Data.PublicURL)
	}

	req = httptest.NewRequest(http.MethodGet, "/albums/1", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	var detail struct {
		Data albumDetail `json:"data"`
		Meta *Meta       `json:"meta"`
	}
	if err := json.Unmarshal(get.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decoding album detail: %v", err)
	}
	if len(detail.Data.Photos) != 1 {
		t.Fatalf("album photos = %d, want 1", len(detail.Data.Photos))
	}

	req = httptest.NewRequest(http.MethodDelete, "/albums/1", nil)
	del := httptest.NewRecorder()
	r.ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", del.Code, del.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/albums/1", nil)
	gone := httptest.NewRecorder()
	r.ServeHTTP(gone, req)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("deleted album fetch = %d, want %d", gone.Code, http.StatusNotFound)
	}
}

func TestUploadPhoto_UnsupportedType(t *testing.T) {
	r := testGalleryRouter(t)

	if rec := postJSON(t, r, "/albums", `{"name":"Docs"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	body, contentType := multipartPhoto(t, "boletim.pdf", "application/pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/albums/1/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
}

func TestUploadPhoto_MissingAlbum(t *testing.T) {
	r := testGalleryRouter(t)

	body, contentType := multipartPhoto(t, "a.gif", "image/gif", "GIF89a")
	req := httptest.NewRequest(http.MethodPost, "/albums/99/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestCreateAlbum_MissingName(t *testing.T) {
	r := testGalleryRouter(t)

	rec := postJSON(t, r, "/albums", `{"description":"sem nome"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}
