// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/address"
	"github.com/ieqgestao/ekklesia-go/internal/model"
)

const visitorColumns = `id, name, phone, email, street, number, neighborhood, city, state, postal_code, visit_date, observations`

const createVisitor = `
INSERT INTO visitors (name, phone, email, street, number, neighborhood, city, state, postal_code, visit_date, observations)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + visitorColumns

// CreateVisitorParams holds a new visitor record. VisitDate is set by
// the caller at creation time and never user-editable afterwards.
type CreateVisitorParams struct {
	Name         string
	Phone        string
	Email        string
	Address      address.Fields
	VisitDate    time.Time
	Observations string
}

func (q *Queries) CreateVisitor(ctx context.Context, arg CreateVisitorParams) (model.Visitor, error) {
	row := q.db.QueryRowContext(ctx, createVisitor,
		arg.Name, arg.Phone, arg.Email,
		arg.Address.Street, arg.Address.Number, arg.Address.Neighborhood,
		arg.Address.City, arg.Address.State, arg.Address.PostalCode,
		arg.VisitDate, arg.Observations)
	return scanVisitor(row)
}

const getVisitorByID = `SELECT ` + visitorColumns + ` FROM visitors WHERE id = ?`

func (q *Queries) GetVisitorByID(ctx context.Context, id int64) (model.Visitor, error) {
	return scanVisitor(q.db.QueryRowContext(ctx, getVisitorByID, id))
}

const listVisitors = `SELECT ` + visitorColumns + ` FROM visitors ORDER BY visit_date DESC, id DESC`

// ListVisitors returns all visitors, most recent visit first.
func (q *Queries) ListVisitors(ctx context.Context) ([]model.Visitor, error) {
	rows, err := q.db.QueryContext(ctx, listVisitors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []model.Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

const updateVisitor = `
UPDATE visitors
SET name = ?, phone = ?, email = ?, street = ?, number = ?, neighborhood = ?, city = ?, state = ?, postal_code = ?, observations = ?
WHERE id = ?
RETURNING ` + visitorColumns

// UpdateVisitorParams is a full-field update. VisitDate is deliberately
// absent: it is fixed at creation.
type UpdateVisitorParams struct {
	ID           int64
	Name         string
	Phone        string
	Email        string
	Address      address.Fields
	Observations string
}

func (q *Queries) UpdateVisitor(ctx context.Context, arg UpdateVisitorParams) (model.Visitor, error) {
	row := q.db.QueryRowContext(ctx, updateVisitor,
		arg.Name, arg.Phone, arg.Email,
		arg.Address.Street, arg.Address.Number, arg.Address.Neighborhood,
		arg.Address.City, arg.Address.State, arg.Address.PostalCode,
		arg.Observations, arg.ID)
	return scanVisitor(row)
}

func scanVisitor(row rowScanner) (model.Visitor, error) {
	var v model.Visitor
	err := row.Scan(&v.ID, &v.Name, &v.Phone, &v.Email,
		&v.Address.Street, &v.Address.Number, &v.Address.Neighborhood,
		&v.Address.City, &v.Address.State, &v.Address.PostalCode,
		&v.VisitDate, &v.Observations)
	return v, err
}
