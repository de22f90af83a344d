// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/ieqgestao/ekklesia-go/internal/address"
	"github.com/ieqgestao/ekklesia-go/internal/model"
)

const cellColumns = `id, name, leader_name, host_name, street, number, neighborhood, city, state, postal_code, meeting_day, meeting_time, observations, active`

const createCell = `
INSERT INTO cells (name, leader_name, host_name, street, number, neighborhood, city, state, postal_code, meeting_day, meeting_time, observations, active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
RETURNING ` + cellColumns

type CreateCellParams struct {
	Name         string
	LeaderName   string
	HostName     string
	Address      address.Fields
	MeetingDay   string
	MeetingTime  string
	Observations string
}

func (q *Queries) CreateCell(ctx context.Context, arg CreateCellParams) (model.Cell, error) {
	row := q.db.QueryRowContext(ctx, createCell,
		arg.Name, arg.LeaderName, arg.HostName,
		arg.Address.Street, arg.Address.Number, arg.Address.Neighborhood,
		arg.Address.City, arg.Address.State, arg.Address.PostalCode,
		arg.MeetingDay, arg.MeetingTime, arg.Observations)
	return scanCell(row)
}

const getCellByID = `SELECT ` + cellColumns + ` FROM cells WHERE id = ?`

// GetCellByID returns the record whether or not it is active.
func (q *Queries) GetCellByID(ctx context.Context, id int64) (model.Cell, error) {
	return scanCell(q.db.QueryRowContext(ctx, getCellByID, id))
}

const listActiveCells = `SELECT ` + cellColumns + ` FROM cells WHERE active = 1 ORDER BY name`

func (q *Queries) ListActiveCells(ctx context.Context) ([]model.Cell, error) {
	return q.listCells(ctx, listActiveCells)
}

const listAllCells = `SELECT ` + cellColumns + ` FROM cells ORDER BY name`

func (q *Queries) ListAllCells(ctx context.Context) ([]model.Cell, error) {
	return q.listCells(ctx, listAllCells)
}

func (q *Queries) listCells(ctx context.Context, query string) ([]model.Cell, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []model.Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

const updateCell = `
UPDATE cells
SET name = ?, leader_name = ?, host_name = ?, street = ?, number = ?, neighborhood = ?, city = ?, state = ?, postal_code = ?, meeting_day = ?, meeting_time = ?, observations = ?
WHERE id = ?
RETURNING ` + cellColumns

type UpdateCellParams struct {
	ID           int64
	Name         string
	LeaderName   string
	HostName     string
	Address      address.Fields
	MeetingDay   string
	MeetingTime  string
	Observations string
}

func (q *Queries) UpdateCell(ctx context.Context, arg UpdateCellParams) (model.Cell, error) {
	row := q.db.QueryRowContext(ctx, updateCell,
		arg.Name, arg.LeaderName, arg.HostName,
		arg.Address.Street, arg.Address.Number, arg.Address.Neighborhood,
		arg.Address.City, arg.Address.State, arg.Address.PostalCode,
		arg.MeetingDay, arg.MeetingTime, arg.Observations, arg.ID)
	return scanCell(row)
}

const deactivateCell = `UPDATE cells SET active = 0 WHERE id = ?`

// DeactivateCell soft-deletes the record.
func (q *Queries) DeactivateCell(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deactivateCell, id)
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

func scanCell(row rowScanner) (model.Cell, error) {
	var c model.Cell
	err := row.Scan(&c.ID, &c.Name, &c.LeaderName, &c.HostName,
		&c.Address.Street, &c.Address.Number, &c.Address.Neighborhood,
		&c.Address.City, &c.Address.State, &c.Address.PostalCode,
		&c.MeetingDay, &c.MeetingTime, &c.Observations, &c.Active)
	return c, err
}
