package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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
	err := s.pool.QueryRow(ctx,
		`INSERT INTO applicants (first_name, last_name, email, phone, linkedin_url,
		   address, postal_code, city, country, current_job_title, current_employer,
		   desired_position, availability, notice_period, salary_expectation,
		   cv_filename, extra_filename, notes, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		         $16, $17, $18, $19, $20, $21)
		 RETURNING id`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.LinkedinURL,
		a.Address, a.PostalCode, a.City, a.Country, a.CurrentJobTitle, a.CurrentEmployer,
		a.DesiredPosition, a.Availability, a.NoticePeriod, a.SalaryExpectation,
		a.CVFilename, a.ExtraFilename, a.Notes, a.Status, now, now,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert applicant: %w", err)
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (s *Store) GetApplicant(ctx context.Context, id int64) (*crm.Applicant, error) {
	a, err := scanApplicant(s.pool.QueryRow(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, likeTerm(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR city ILIKE $%d OR current_job_title ILIKE $%d)`,
			n, n, n, n, n))
	}
	if st, ok := statusFilter(f); ok {
		args = append(args, st)
		conds = append(conds, fmt.Sprintf(`status = $%d`, len(args)))
	}

	rows, err := s.pool.Query(ctx,
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE applicants
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, linkedin_url = $5,
		     address = $6, postal_code = $7, city = $8, country = $9, current_job_title = $10,
		     current_employer = $11, desired_position = $12, availability = $13,
		     notice_period = $14, salary_expectation = $15, cv_filename = $16,
		     extra_filename = $17, notes = $18, status = $19, updated_at = $20
		 WHERE id = $21`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.LinkedinURL,
		a.Address, a.PostalCode, a.City, a.Country, a.CurrentJobTitle,
		a.CurrentEmployer, a.DesiredPosition, a.Availability,
		a.NoticePeriod, a.SalaryExpectation, a.CVFilename,
		a.ExtraFilename, a.Notes, a.Status, now, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	a.UpdatedAt = now
	return nil
}

func (s *Store) DeleteApplicant(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM applicants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) ActiveApplicantOptions(ctx context.Context) ([]crm.PersonOption, error) {
	rows, err := s.pool.Query(ctx,
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
