// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ieqgestao/ekklesia-go/internal/address"
	"github.com/ieqgestao/ekklesia-go/internal/model"
)

const volunteerColumns = `id, name, phone, email, street, number, neighborhood, city, state, postal_code, role, department, hire_date, registration_date, observations, active`

const createVolunteer = `
INSERT INTO volunteers (name, phone, email, street, number, neighborhood, city, state, postal_code, role, department, hire_date, registration_date, observations, active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
RETURNING ` + volunteerColumns

type CreateVolunteerParams struct {
	Name             string
	Phone            string
	Email            string
	Address          address.Fields
	Role             string
	Department       string
	HireDate         sql.NullTime
	RegistrationDate time.Time
	Observations     string
}

func (q *Queries) CreateVolunteer(ctx context.Context, arg CreateVolunteerParams) (model.Volunteer, error) {
	row := q.db.QueryRowContext(ctx, createVolunteer,
		arg.Name, arg.Phone, arg.Email,
		arg.Address.Street, arg.Address.Number, arg.Address.Neighborhood,
		arg.Address.City, arg.Address.State, arg.Address.PostalCode,
		arg.Role, arg.Department, arg.HireDate, arg.RegistrationDate, arg.Observations)
	return scanVolunteer(row)
}

const getVolunteerByID = `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = ?`

// GetVolunteerByID returns the record whether or not it is active.
func (q *Queries) GetVolunteerByID(ctx context.Context, id int64) (model.Volunteer, error) {
	return scanVolunteer(q.db.QueryRowContext(ctx, getVolunteerByID, id))
}

const listActiveVolunteers = `SELECT ` + volunteerColumns + ` FROM volunteers WHERE active = 1 ORDER BY name`

// ListActiveVolunteers excludes deactivated records.
func (q *Queries) ListActiveVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	return q.listVolunteers(ctx, listActiveVolunteers)
}

const listAllVolunteers = `SELECT ` + volunteerColumns + ` FROM volunteers ORDER BY name`

// ListAllVolunteers includes deactivated records.
func (q *Queries) ListAllVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	return q.listVolunteers(ctx, listAllVolunteers)
}

func (q *Queries) listVolunteers(ctx context.Context, query string) ([]model.Volunteer, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volunteers []model.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

const updateVolunteer = `
UPDATE volunteers
SET name = ?, phone = ?, email = ?, street = ?, number = ?, neighborhood = ?, city = ?, state = ?, postal_code = ?, role = ?, department = ?, hire_date = ?, observations = ?
WHERE id = ?
RETURNING ` + volunteerColumns

type UpdateVolunteerParams struct {
	ID           int64
	Name         string
	Phone        string
	Email        string
	Address      address.Fields
	Role         string
	Department   string
	HireDate     sql.NullTime
	Observations string
}

func (q *Queries) UpdateVolunteer(ctx context.Context, arg UpdateVolunteerParams) (model.Volunteer, error) {
	row := q.db.QueryRowContext(ctx, updateVolunteer,
		arg.Name, arg.Phone, arg.Email,
		arg.Address.Street, arg.Address.Number, arg.Address.Neighborhood,
		arg.Address.City, arg.Address.State, arg.Address.PostalCode,
		arg.Role, arg.Department, arg.HireDate, arg.Observations, arg.ID)
	return scanVolunteer(row)
}

const deactivateVolunteer = `UPDATE volunteers SET active = 0 WHERE id = ?`

// DeactivateVolunteer soft-deletes the record. Rows are never
// physically removed.
func (q *Queries) DeactivateVolunteer(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deactivateVolunteer, id)
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

func scanVolunteer(row rowScanner) (model.Volunteer, error) {
	var v model.Volunteer
	err := row.Scan(&v.ID, &v.Name, &v.Phone, &v.Email,
		&v.Address.Street, &v.Address.Number, &v.Address.Neighborhood,
		&v.Address.City, &v.Address.State, &v.Address.PostalCode,
		&v.Role, &v.Department, &v.HireDate, &v.RegistrationDate,
		&v.Observations, &v.Active)
	return v, err
}
