package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

const applicantColumns = `id, first_name, last_name, email, phone, linkedin_url,
	address, postal_code, city, country, current_job_title, current_employer,
	desired_position, availability, notice_period, salary_expectation,
	cv_filename, extra_filename, notes, status, created_at, updated_at`

func scanApplicant(row scanner) (*crm.Applicant, error) {
	var a crm.Applicant
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.LinkedinURL,
		&a.Address, &a.PostalCode, &a.City, &a.Country, &a.CurrentJobTitle, &a.CurrentEmployer,
		&a.DesiredPosition, &a.Availability, &a.NoticePeriod, &a.SalaryExpectation,
		&a.CVFilename, &a.ExtraFilename, &a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateApplicant(ctx context.Context, a *crm.Applicant) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO applicants (first_name, last_name, email, phone, linkedin_url,
		   address, postal_code, city, country, current_job_title, current_employer,
		   desired_position, availability, notice_period, salary_expectation,
		   cv_filename, extra_filename, notes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.LinkedinURL,
		a.Address, a.PostalCode, a.City, a.Country, a.CurrentJobTitle, a.CurrentEmployer,
		a.DesiredPosition, a.Availability, a.NoticePeriod, a.SalaryExpectation,
		a.CVFilename, a.ExtraFilename, a.Notes, a.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert applicant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert applicant id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (s *Store) GetApplicant(ctx context.Context, id int64) (*crm.Applicant, error) {
	a, err := scanApplicant(s.db.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	return a, nil
}

func (s *Store) ListApplicants(ctx context.Context, f crm.ListFilter) ([]crm.Applicant, error) {
	var conds []string
	var args []any
	if f.Search != "" {
		conds = append(conds, `(first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR city LIKE ? OR current_job_title LIKE ?)`)
		t := likeTerm(f.Search)
		args = append(args, t, t, t, t, t)
	}
	if st, ok := statusFilter(f); ok {
		conds = append(conds, `status = ?`)
		args = append(args, st)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants`+buildWhere(conds)+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	applicants := make([]crm.Applicant, 0)
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}
	return applicants, rows.Err()
}

func (s *Store) UpdateApplicant(ctx context.Context, a *crm.Applicant) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE applicants
		 SET first_name = ?, last_name = ?, email = ?, phone = ?, linkedin_url = ?,
		     address = ?, postal_code = ?, city = ?, country = ?, current_job_title = ?,
		     current_employer = ?, desired_position = ?, availability = ?, notice_period = ?,
		     salary_expectation = ?, cv_filename = ?, extra_filename = ?, notes = ?,
		     status = ?, updated_at = ?
		 WHERE id = ?`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.LinkedinURL,
		a.Address, a.PostalCode, a.City, a.Country, a.CurrentJobTitle,
		a.CurrentEmployer, a.DesiredPosition, a.Availability, a.NoticePeriod,
		a.SalaryExpectation, a.CVFilename, a.ExtraFilename, a.Notes,
		a.Status, now, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	a.UpdatedAt = now
	return nil
}

func (s *Store) DeleteApplicant(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applicants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) ActiveApplicantOptions(ctx context.Context) ([]crm.PersonOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, phone, email
		 FROM applicants WHERE status = 'active' ORDER BY last_name`)
	if err != nil {
		return nil, fmt.Errorf("applicant options: %w", err)
	}
	defer rows.Close()

	opts := make([]crm.PersonOption, 0)
	for rows.Next() {
		var o crm.PersonOption
		if err := rows.Scan(&o.ID, &o.FirstName, &o.LastName, &o.Phone, &o.Email); err != nil {
			return nil, fmt.Errorf("scan applicant option: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}
