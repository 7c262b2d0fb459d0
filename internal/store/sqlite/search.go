package sqlite

import (
	"context"
	"fmt"

	"recruitdesk/crm-service/internal/crm"
)

// Per-kind search queries for the federated engine. Each matches a fixed
// field list with a case-insensitive substring and truncates to the limit;
// ranking is creation order within a kind, never across kinds.

func (s *Store) SearchApplicants(ctx context.Context, term string, limit int) ([]crm.ApplicantHit, error) {
	t := likeTerm(term)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, phone, city, current_job_title
		 FROM applicants
		 WHERE first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?
		    OR city LIKE ? OR current_job_title LIKE ? OR notes LIKE ?
		 LIMIT ?`,
		t, t, t, t, t, t, t, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search applicants: %w", err)
	}
	defer rows.Close()

	hits := make([]crm.ApplicantHit, 0)
	for rows.Next() {
		var h crm.ApplicantHit
		if err := rows.Scan(&h.ID, &h.FirstName, &h.LastName, &h.Email, &h.Phone, &h.City, &h.CurrentJobTitle); err != nil {
			return nil, fmt.Errorf("scan applicant hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) SearchClients(ctx context.Context, term string, limit int) ([]crm.ClientHit, error) {
	t := likeTerm(term)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_name, contact_name, contact_email, city
		 FROM clients
		 WHERE company_name LIKE ? OR contact_name LIKE ? OR contact_email LIKE ?
		    OR city LIKE ? OR notes LIKE ?
		 LIMIT ?`,
		t, t, t, t, t, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	hits := make([]crm.ClientHit, 0)
	for rows.Next() {
		var h crm.ClientHit
		if err := rows.Scan(&h.ID, &h.CompanyName, &h.ContactName, &h.ContactEmail, &h.City); err != nil {
			return nil, fmt.Errorf("scan client hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) SearchContacts(ctx context.Context, term string, limit int) ([]crm.ContactHit, error) {
	t := likeTerm(term)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, phone, city, role
		 FROM contacts
		 WHERE first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?
		    OR city LIKE ? OR notes LIKE ?
		 LIMIT ?`,
		t, t, t, t, t, t, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer rows.Close()

	hits := make([]crm.ContactHit, 0)
	for rows.Next() {
		var h crm.ContactHit
		if err := rows.Scan(&h.ID, &h.FirstName, &h.LastName, &h.Email, &h.Phone, &h.City, &h.Role); err != nil {
			return nil, fmt.Errorf("scan contact hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) SearchMissions(ctx context.Context, term string, limit int) ([]crm.MissionHit, error) {
	t := likeTerm(term)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, location, status
		 FROM missions
		 WHERE title LIKE ? OR description LIKE ? OR location LIKE ? OR notes LIKE ?
		 LIMIT ?`,
		t, t, t, t, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search missions: %w", err)
	}
	defer rows.Close()

	hits := make([]crm.MissionHit, 0)
	for rows.Next() {
		var h crm.MissionHit
		if err := rows.Scan(&h.ID, &h.Title, &h.Location, &h.Status); err != nil {
			return nil, fmt.Errorf("scan mission hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) SearchCallbacks(ctx context.Context, term string, limit int) ([]crm.CallbackHit, error) {
	t := likeTerm(term)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, company, phone, reason, status
		 FROM callbacks
		 WHERE name LIKE ? OR company LIKE ? OR phone LIKE ? OR reason LIKE ? OR notes LIKE ?
		 LIMIT ?`,
		t, t, t, t, t, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search callbacks: %w", err)
	}
	defer rows.Close()

	hits := make([]crm.CallbackHit, 0)
	for rows.Next() {
		var h crm.CallbackHit
		if err := rows.Scan(&h.ID, &h.Name, &h.Company, &h.Phone, &h.Reason, &h.Status); err != nil {
			return nil, fmt.Errorf("scan callback hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
