package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO callbacks (applicant_id, contact_id, name, company, phone, email,
		   reason, notes, callback_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cb.ApplicantID, cb.ContactID, cb.Name, cb.Company, cb.Phone, cb.Email,
		cb.Reason, cb.Notes, cb.CallbackDate, cb.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert callback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert callback id: %w", err)
	}
	cb.ID = id
	cb.CreatedAt = now
	cb.UpdatedAt = now
	return nil
}

func (s *Store) GetCallback(ctx context.Context, id int64) (*crm.Callback, error) {
	cb, err := scanCallback(s.db.QueryRowContext(ctx,
		`SELECT `+callbackColumns+` FROM callbacks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get callback: %w", err)
	}
	return cb, nil
}

// ListCallbacks orders by callback date rather than creation order: the list
// is a worklist of upcoming calls.
func (s *Store) ListCallbacks(ctx context.Context, f crm.ListFilter) ([]crm.Callback, error) {
	var conds []string
	var args []any
	if f.Search != "" {
		conds = append(conds, `(name LIKE ? OR company LIKE ? OR phone LIKE ? OR reason LIKE ?)`)
		t := likeTerm(f.Search)
		args = append(args, t, t, t, t)
	}
	if st, ok := statusFilter(f); ok {
		conds = append(conds, `status = ?`)
		args = append(args, st)
	}

	rows, err := s.db.QueryContext(ctx,
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
	res, err := s.db.ExecContext(ctx,
		`UPDATE callbacks
		 SET applicant_id = ?, contact_id = ?, name = ?, company = ?, phone = ?, email = ?,
		     reason = ?, notes = ?, callback_date = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		cb.ApplicantID, cb.ContactID, cb.Name, cb.Company, cb.Phone, cb.Email,
		cb.Reason, cb.Notes, cb.CallbackDate, cb.Status, now, cb.ID,
	)
	if err != nil {
		return fmt.Errorf("update callback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	cb.UpdatedAt = now
	return nil
}

func (s *Store) DeleteCallback(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM callbacks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete callback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) DuePendingCallbacks(ctx context.Context, asOf time.Time) ([]crm.Callback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+callbackColumns+` FROM callbacks
		 WHERE status = 'pending' AND callback_date IS NOT NULL AND callback_date <= ?
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
