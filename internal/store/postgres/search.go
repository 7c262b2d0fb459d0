package postgres

import (
	"context"
	"fmt"

	"recruitdesk/crm-service/internal/crm"
)

// Per-kind search queries for the federated engine. Same field lists as the
// sqlite implementation, with ILIKE for case-insensitive matching.

func (s *Store) SearchApplicants(ctx context.Context, term string, limit int) ([]crm.ApplicantHit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name, email, phone, city, current_job_title
		 FROM applicants
		 WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1
		    OR city ILIKE $1 OR current_job_title ILIKE $1 OR notes ILIKE $1
		 LIMIT $2`,
		likeTerm(term), limit,
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
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_name, contact_name, contact_email, city
		 FROM clients
		 WHERE company_name ILIKE $1 OR contact_name ILIKE $1 OR contact_email ILIKE $1
		    OR city ILIKE $1 OR notes ILIKE $1
		 LIMIT $2`,
		likeTerm(term), limit,
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
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name, email, phone, city, role
		 FROM contacts
		 WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1
		    OR city ILIKE $1 OR notes ILIKE $1
		 LIMIT $2`,
		likeTerm(term), limit,
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
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, location, status
		 FROM missions
		 WHERE title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1 OR notes ILIKE $1
		 LIMIT $2`,
		likeTerm(term), limit,
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
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, company, phone, reason, status
		 FROM callbacks
		 WHERE name ILIKE $1 OR company ILIKE $1 OR phone ILIKE $1 OR reason ILIKE $1 OR notes ILIKE $1
		 LIMIT $2`,
		likeTerm(term), limit,
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
