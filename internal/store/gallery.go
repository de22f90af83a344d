// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/model"
)

const albumColumns = `id, name, description, event_date, created_by, created_at`

const createAlbum = `
INSERT INTO albums (name, description, event_date, created_by, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + albumColumns

type CreateAlbumParams struct {
	Name        string
	Description string
	EventDate   sql.NullTime
	CreatedBy   int64
	CreatedAt   time.Time
}

func (q *Queries) CreateAlbum(ctx context.Context, arg CreateAlbumParams) (model.Album, error) {
	row := q.db.QueryRowContext(ctx, createAlbum,
		arg.Name, arg.Description, arg.EventDate, arg.CreatedBy, arg.CreatedAt)
	return scanAlbum(row)
}

const getAlbumByID = `SELECT ` + albumColumns + ` FROM albums WHERE id = ?`

func (q *Queries) GetAlbumByID(ctx context.Context, id int64) (model.Album, error) {
	return scanAlbum(q.db.QueryRowContext(ctx, getAlbumByID, id))
}

const listAlbums = `SELECT ` + albumColumns + ` FROM albums ORDER BY event_date DESC, id DESC`

func (q *Queries) ListAlbums(ctx context.Context) ([]model.Album, error) {
	rows, err := q.db.QueryContext(ctx, listAlbums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []model.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

const deleteAlbum = `DELETE FROM albums WHERE id = ?`

// DeleteAlbum removes the album row. Photo rows go with it via the
// foreign-key cascade; blob cleanup is the gallery service's job and
// must happen before this call.
func (q *Queries) DeleteAlbum(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deleteAlbum, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const photoColumns = `id, album_id, file_name, public_url, storage_path, description, uploaded_by, file_size, created_at`

const createPhoto = `
INSERT INTO photos (album_id, file_name, public_url, storage_path, description, uploaded_by, file_size, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + photoColumns

type CreatePhotoParams struct {
	AlbumID     int64
	FileName    string
	PublicURL   string
	StoragePath string
	Description string
	UploadedBy  int64
	FileSize    int64
	CreatedAt   time.Time
}

func (q *Queries) CreatePhoto(ctx context.Context, arg CreatePhotoParams) (model.Photo, error) {
	row := q.db.QueryRowContext(ctx, createPhoto,
		arg.AlbumID, arg.FileName, arg.PublicURL, arg.StoragePath,
		arg.Description, arg.UploadedBy, arg.FileSize, arg.CreatedAt)
	return scanPhoto(row)
}

const getPhotoByID = `SELECT ` + photoColumns + ` FROM photos WHERE id = ?`

func (q *Queries) GetPhotoByID(ctx context.Context, id int64) (model.Photo, error) {
	return scanPhoto(q.db.QueryRowContext(ctx, getPhotoByID, id))
}

const listPhotosByAlbum = `SELECT ` + photoColumns + ` FROM photos WHERE album_id = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListPhotosByAlbum(ctx context.Context, albumID int64) ([]model.Photo, error) {
	rows, err := q.db.QueryContext(ctx, listPhotosByAlbum, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []model.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

const deletePhoto = `DELETE FROM photos WHERE id = ?`

func (q *Queries) DeletePhoto(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deletePhoto, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAlbum(row rowScanner) (model.Album, error) {
	var a model.Album
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.EventDate, &a.CreatedBy, &a.CreatedAt)
	return a, err
}

func scanPhoto(row rowScanner) (model.Photo, error) {
	var p model.Photo
	err := row.Scan(&p.ID, &p.AlbumID, &p.FileName, &p.PublicURL, &p.StoragePath,
		&p.Description, &p.UploadedBy, &p.FileSize, &p.CreatedAt)
	return p, err
}
