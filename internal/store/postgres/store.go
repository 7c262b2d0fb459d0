// Package postgres implements crm.Store on PostgreSQL via pgx. It is the
// production deployment path; schema semantics mirror the sqlite package.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"recruitdesk/crm-service/internal/crm"
)

// Store implements crm.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ crm.Store = (*Store)(nil)

// New wraps a verified pgx pool.
func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id BIGSERIAL PRIMARY KEY,
	company_name VARCHAR(255) NOT NULL,
	vat_number VARCHAR(50) NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	postal_code VARCHAR(20) NOT NULL DEFAULT '',
	city VARCHAR(100) NOT NULL DEFAULT '',
	country VARCHAR(100) NOT NULL DEFAULT '',
	contact_name VARCHAR(255) NOT NULL DEFAULT '',
	contact_email VARCHAR(255) NOT NULL DEFAULT '',
	contact_phone VARCHAR(50) NOT NULL DEFAULT '',
	additional_contact TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id BIGSERIAL PRIMARY KEY,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(50) NOT NULL DEFAULT '',
	role VARCHAR(100) NOT NULL DEFAULT '',
	linkedin_url VARCHAR(500) NOT NULL DEFAULT '',
	city VARCHAR(100) NOT NULL DEFAULT '',
	country VARCHAR(100) NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS applicants (
	id BIGSERIAL PRIMARY KEY,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(50) NOT NULL DEFAULT '',
	linkedin_url VARCHAR(500) NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	postal_code VARCHAR(20) NOT NULL DEFAULT '',
	city VARCHAR(100) NOT NULL DEFAULT '',
	country VARCHAR(100) NOT NULL DEFAULT '',
	current_job_title VARCHAR(255) NOT NULL DEFAULT '',
	current_employer VARCHAR(255) NOT NULL DEFAULT '',
	desired_position VARCHAR(255) NOT NULL DEFAULT '',
	availability VARCHAR(100) NOT NULL DEFAULT '',
	notice_period VARCHAR(100) NOT NULL DEFAULT '',
	salary_expectation VARCHAR(100) NOT NULL DEFAULT '',
	cv_filename VARCHAR(500) NOT NULL DEFAULT '',
	extra_filename VARCHAR(500) NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS missions (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL,
	description TEXT NOT NULL DEFAULT '',
	required_skills TEXT NOT NULL DEFAULT '',
	location VARCHAR(255) NOT NULL DEFAULT '',
	start_date VARCHAR(10) NOT NULL DEFAULT '',
	end_date VARCHAR(10) NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'open',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS mission_applicants (
	id BIGSERIAL PRIMARY KEY,
	mission_id BIGINT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
	applicant_id BIGINT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (mission_id, applicant_id)
);

CREATE TABLE IF NOT EXISTS callbacks (
	id BIGSERIAL PRIMARY KEY,
	applicant_id BIGINT REFERENCES applicants(id) ON DELETE SET NULL,
	contact_id BIGINT REFERENCES contacts(id) ON DELETE SET NULL,
	name VARCHAR(255) NOT NULL,
	company VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(50) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	reason VARCHAR(500) NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	callback_date TIMESTAMPTZ,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id BIGSERIAL PRIMARY KEY,
	content TEXT NOT NULL,
	entity_type VARCHAR(50) NOT NULL,
	entity_id BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_entity ON notes(entity_type, entity_id);
`

func likeTerm(q string) string {
	return "%" + strings.TrimSpace(q) + "%"
}

func buildWhere(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func statusFilter(f crm.ListFilter) (string, bool) {
	if f.Status == "" || f.Status == "all" {
		return "", false
	}
	return f.Status, true
}
