// Package sqlite implements crm.Store on an embedded SQLite database.
// It is the single-binary deployment path and the backend the test suite
// runs against (in-memory). Schema semantics (weak references cleared on
// delete, assignment cascade, the unique mission/applicant pair) live in
// the DDL below and are shared with the Postgres implementation.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"recruitdesk/crm-service/internal/crm"
)

// Store implements crm.Store.
type Store struct {
	db *sql.DB
}

var _ crm.Store = (*Store)(nil)

// New wraps an opened SQLite handle. Callers are expected to have enabled
// foreign keys (db.OpenSQLite does).
func New(sqlDB *sql.DB) *Store { return &Store{db: sqlDB} }

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_name TEXT NOT NULL,
	vat_number TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	contact_name TEXT NOT NULL DEFAULT '',
	contact_email TEXT NOT NULL DEFAULT '',
	contact_phone TEXT NOT NULL DEFAULT '',
	additional_contact TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	client_id INTEGER REFERENCES clients(id) ON DELETE SET NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS applicants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	current_job_title TEXT NOT NULL DEFAULT '',
	current_employer TEXT NOT NULL DEFAULT '',
	desired_position TEXT NOT NULL DEFAULT '',
	availability TEXT NOT NULL DEFAULT '',
	notice_period TEXT NOT NULL DEFAULT '',
	salary_expectation TEXT NOT NULL DEFAULT '',
	cv_filename TEXT NOT NULL DEFAULT '',
	extra_filename TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS missions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	client_id INTEGER REFERENCES clients(id) ON DELETE SET NULL,
	description TEXT NOT NULL DEFAULT '',
	required_skills TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	start_date TEXT NOT NULL DEFAULT '',
	end_date TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'open',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS mission_applicants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	mission_id INTEGER NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
	applicant_id INTEGER NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	UNIQUE (mission_id, applicant_id)
);

CREATE TABLE IF NOT EXISTS callbacks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	applicant_id INTEGER REFERENCES applicants(id) ON DELETE SET NULL,
	contact_id INTEGER REFERENCES contacts(id) ON DELETE SET NULL,
	name TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	callback_date TIMESTAMP,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_entity ON notes(entity_type, entity_id);
`

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// likeTerm wraps a raw query in LIKE wildcards. SQLite LIKE is
// case-insensitive for ASCII, matching the ILIKE used on Postgres.
func likeTerm(q string) string {
	return "%" + strings.TrimSpace(q) + "%"
}

// buildWhere joins optional conditions into a WHERE clause.
func buildWhere(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// statusFilter reports whether a list filter narrows on status.
func statusFilter(f crm.ListFilter) (string, bool) {
	if f.Status == "" || f.Status == "all" {
		return "", false
	}
	return f.Status, true
}
