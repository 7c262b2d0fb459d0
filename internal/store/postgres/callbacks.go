package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"recruitdesk/crm-service/internal/crm"
)

const callbackColumns = `id, applicant_id, contact_id, name, company, phone, email,
	reason, notes, callback_date, status, created_at, updated_at`

func scanCallback(row scanner) (*crm.Callback, error) {
	var cb crm.Callback
	err := row.Scan(
		&cb.ID, &cb.ApplicantID, &cb.ContactID, &cb.Name, &cb.Company, &cb.Phone, &cb.Email,
		&cb.Reason, &cb.Notes, &cb.CallbackDate, &cb.Status, &cb.CreatedAt, &cb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cb, nil
}

func (s *Store) CreateCallback(ctx context.Context, cb *crm.Callback) error {
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO callbacks (applicant_id, contact_id, name, company, phone, email,
		   reason, notes, callback_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		cb.ApplicantID, cb.ContactID, cb.Name, cb.Company, cb.Phone, cb.Email,
		cb.Reason, cb.Notes, cb.CallbackDate, cb.Status, now, now,
	).Scan(&cb.ID)
	if err != nil {
		return fmt.Errorf("insert callback: %w", err)
	}
	cb.CreatedAt = now
	cb.UpdatedAt = now
	return nil
}

func (s *Store) GetCallback(ctx context.Context, id int64) (*crm.Callback, error) {
	cb, err := scanCallback(s.pool.QueryRow(ctx,
		`SELECT `+callbackColumns+` FROM callbacks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get callback: %w", err)
	}
	return cb, nil
}

func (s *Store) ListCallbacks(ctx context.Context, f crm.ListFilter) ([]crm.Callback, error) {
	var conds []string
	var args []any
	if f.Search != "" {
		args = append(args, likeTerm(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(name ILIKE $%d OR company ILIKE $%d OR phone ILIKE $%d OR reason ILIKE $%d)`,
			n, n, n, n))
	}
	if st, ok := statusFilter(f); ok {
		args = append(args, st)
		conds = append(conds, fmt.Sprintf(`status = $%d`, len(args)))
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+callbackColumns+` FROM callbacks`+buildWhere(conds)+` ORDER BY callback_date`, args...)
	if err != nil {
		return nil, fmt.Errorf("list callbacks: %w", err)
	}
	defer rows.Close()

	callbacks := make([]crm.Callback, 0)
	for rows.Next() {
		cb, err := scanCallback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan callback: %w", err)
		}
		callbacks = append(callbacks, *cb)
	}
	return callbacks, rows.Err()
}

func (s *Store) UpdateCallback(ctx context.Context, cb *crm.Callback) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE callbacks
		 SET applicant_id = $1, contact_id = $2, name = $3, company = $4, phone = $5,
		     email = $6, reason = $7, notes = $8, callback_date = $9, status = $10,
		     updated_at = $11
		 WHERE id = $12`,
		cb.ApplicantID, cb.ContactID, cb.Name, cb.Company, cb.Phone,
		cb.Email, cb.Reason, cb.Notes, cb.CallbackDate, cb.Status,
		now, cb.ID,
	)
	if err != nil {
		return fmt.Errorf("update callback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	cb.UpdatedAt = now
	return nil
}

func (s *Store) DeleteCallback(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM callbacks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete callback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) DuePendingCallbacks(ctx context.Context, asOf time.Time) ([]crm.Callback, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+callbackColumns+` FROM callbacks
		 WHERE status = 'pending' AND callback_date IS NOT NULL AND callback_date <= $1
		 ORDER BY callback_date`,
		asOf.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("due callbacks: %w", err)
	}
	defer rows.Close()

	due := make([]crm.Callback, 0)
	for rows.Next() {
		cb, err := scanCallback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due callback: %w", err)
		}
		due = append(due, *cb)
	}
	return due, rows.Err()
}
