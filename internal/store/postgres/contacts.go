package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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
	err := s.pool.QueryRow(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone, role, linkedin_url,
		   city, country, notes, status, client_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Role, c.LinkedinURL,
		c.City, c.Country, c.Notes, c.Status, c.ClientID, now, now,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *Store) GetContact(ctx context.Context, id int64) (*crm.Contact, error) {
	c, err := scanContact(s.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, likeTerm(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR c.email ILIKE $%d OR c.city ILIKE $%d OR c.role ILIKE $%d OR cl.company_name ILIKE $%d)`,
			n, n, n, n, n, n))
	}
	if st, ok := statusFilter(f); ok {
		args = append(args, st)
		conds = append(conds, fmt.Sprintf(`c.status = $%d`, len(args)))
	}

	rows, err := s.pool.Query(ctx,
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, role = $5,
		     linkedin_url = $6, city = $7, country = $8, notes = $9, status = $10,
		     client_id = $11, updated_at = $12
		 WHERE id = $13`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Role,
		c.LinkedinURL, c.City, c.Country, c.Notes, c.Status,
		c.ClientID, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) ActiveContactOptions(ctx context.Context) ([]crm.PersonOption, error) {
	rows, err := s.pool.Query(ctx,
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
