package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"recruitdesk/crm-service/internal/crm"
)

const clientColumns = `id, company_name, vat_number, address, postal_code, city, country,
	contact_name, contact_email, contact_phone, additional_contact, notes, status,
	created_at, updated_at`

// scanner covers pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

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
	err := s.pool.QueryRow(ctx,
		`INSERT INTO clients (company_name, vat_number, address, postal_code, city, country,
		   contact_name, contact_email, contact_phone, additional_contact, notes, status,
		   created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		c.CompanyName, c.VATNumber, c.Address, c.PostalCode, c.City, c.Country,
		c.ContactName, c.ContactEmail, c.ContactPhone, c.AdditionalContact, c.Notes, c.Status,
		now, now,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*crm.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, likeTerm(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(company_name ILIKE $%d OR contact_name ILIKE $%d OR contact_email ILIKE $%d OR city ILIKE $%d)`,
			n, n, n, n))
	}
	if st, ok := statusFilter(f); ok {
		args = append(args, st)
		conds = append(conds, fmt.Sprintf(`status = $%d`, len(args)))
	}

	rows, err := s.pool.Query(ctx,
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE clients
		 SET company_name = $1, vat_number = $2, address = $3, postal_code = $4, city = $5,
		     country = $6, contact_name = $7, contact_email = $8, contact_phone = $9,
		     additional_contact = $10, notes = $11, status = $12, updated_at = $13
		 WHERE id = $14`,
		c.CompanyName, c.VATNumber, c.Address, c.PostalCode, c.City,
		c.Country, c.ContactName, c.ContactEmail, c.ContactPhone,
		c.AdditionalContact, c.Notes, c.Status, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	return nil
}
