package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

const clientColumns = `id, company_name, vat_number, address, postal_code, city, country,
	contact_name, contact_email, contact_phone, additional_contact, notes, status,
	created_at, updated_at`

func scanClient(row scanner) (*crm.Client, error) {
	var c crm.Client
	err := row.Scan(
		&c.ID, &c.CompanyName, &c.VATNumber, &c.Address, &c.PostalCode, &c.City, &c.Country,
		&c.ContactName, &c.ContactEmail, &c.ContactPhone, &c.AdditionalContact, &c.Notes, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, c *crm.Client) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (company_name, vat_number, address, postal_code, city, country,
		   contact_name, contact_email, contact_phone, additional_contact, notes, status,
		   created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CompanyName, c.VATNumber, c.Address, c.PostalCode, c.City, c.Country,
		c.ContactName, c.ContactEmail, c.ContactPhone, c.AdditionalContact, c.Notes, c.Status,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert client id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*crm.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context, f crm.ListFilter) ([]crm.Client, error) {
	var conds []string
	var args []any
	if f.Search != "" {
		conds = append(conds, `(company_name LIKE ? OR contact_name LIKE ? OR contact_email LIKE ? OR city LIKE ?)`)
		t := likeTerm(f.Search)
		args = append(args, t, t, t, t)
	}
	if st, ok := statusFilter(f); ok {
		conds = append(conds, `status = ?`)
		args = append(args, st)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients`+buildWhere(conds)+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]crm.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (s *Store) UpdateClient(ctx context.Context, c *crm.Client) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE clients
		 SET company_name = ?, vat_number = ?, address = ?, postal_code = ?, city = ?, country = ?,
		     contact_name = ?, contact_email = ?, contact_phone = ?, additional_contact = ?,
		     notes = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		c.CompanyName, c.VATNumber, c.Address, c.PostalCode, c.City, c.Country,
		c.ContactName, c.ContactEmail, c.ContactPhone, c.AdditionalContact,
		c.Notes, c.Status, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	return nil
}
