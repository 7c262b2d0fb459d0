package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

const contactColumns = `id, first_name, last_name, email, phone, role, linkedin_url,
	city, country, notes, status, client_id, created_at, updated_at`

func scanContact(row scanner) (*crm.Contact, error) {
	var c crm.Contact
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Role, &c.LinkedinURL,
		&c.City, &c.Country, &c.Notes, &c.Status, &c.ClientID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, c *crm.Contact) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone, role, linkedin_url,
		   city, country, notes, status, client_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Role, c.LinkedinURL,
		c.City, c.Country, c.Notes, c.Status, c.ClientID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert contact id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *Store) GetContact(ctx context.Context, id int64) (*crm.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (s *Store) ListContacts(ctx context.Context, f crm.ListFilter) ([]crm.Contact, error) {
	// Joined so a search term can also match the linked client's company name.
	cols := `c.id, c.first_name, c.last_name, c.email, c.phone, c.role, c.linkedin_url,
		c.city, c.country, c.notes, c.status, c.client_id, c.created_at, c.updated_at`
	var conds []string
	var args []any
	if f.Search != "" {
		conds = append(conds, `(c.first_name LIKE ? OR c.last_name LIKE ? OR c.email LIKE ? OR c.city LIKE ? OR c.role LIKE ? OR cl.company_name LIKE ?)`)
		t := likeTerm(f.Search)
		args = append(args, t, t, t, t, t, t)
	}
	if st, ok := statusFilter(f); ok {
		conds = append(conds, `c.status = ?`)
		args = append(args, st)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cols+` FROM contacts c LEFT JOIN clients cl ON cl.id = c.client_id`+
			buildWhere(conds)+` ORDER BY c.created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]crm.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (s *Store) UpdateContact(ctx context.Context, c *crm.Contact) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts
		 SET first_name = ?, last_name = ?, email = ?, phone = ?, role = ?, linkedin_url = ?,
		     city = ?, country = ?, notes = ?, status = ?, client_id = ?, updated_at = ?
		 WHERE id = ?`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Role, c.LinkedinURL,
		c.City, c.Country, c.Notes, c.Status, c.ClientID, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) ActiveContactOptions(ctx context.Context) ([]crm.PersonOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, phone, email
		 FROM contacts WHERE status = 'active' ORDER BY last_name`)
	if err != nil {
		return nil, fmt.Errorf("contact options: %w", err)
	}
	defer rows.Close()

	opts := make([]crm.PersonOption, 0)
	for rows.Next() {
		var o crm.PersonOption
		if err := rows.Scan(&o.ID, &o.FirstName, &o.LastName, &o.Phone, &o.Email); err != nil {
			return nil, fmt.Errorf("scan contact option: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}
