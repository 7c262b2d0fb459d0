package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

const missionColumns = `id, title, client_id, description, required_skills, location,
	start_date, end_date, notes, status, created_at, updated_at`

func scanMission(row scanner) (*crm.Mission, error) {
	var m crm.Mission
	err := row.Scan(
		&m.ID, &m.Title, &m.ClientID, &m.Description, &m.RequiredSkills, &m.Location,
		&m.StartDate, &m.EndDate, &m.Notes, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateMission(ctx context.Context, m *crm.Mission) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (title, client_id, description, required_skills, location,
		   start_date, end_date, notes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.ClientID, m.Description, m.RequiredSkills, m.Location,
		m.StartDate, m.EndDate, m.Notes, m.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert mission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert mission id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func (s *Store) GetMission(ctx context.Context, id int64) (*crm.Mission, error) {
	m, err := scanMission(s.db.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}
	return m, nil
}

func (s *Store) ListMissions(ctx context.Context, f crm.ListFilter) ([]crm.Mission, error) {
	// Joined so a search term can also match the client's company name.
	cols := `m.id, m.title, m.client_id, m.description, m.required_skills, m.location,
		m.start_date, m.end_date, m.notes, m.status, m.created_at, m.updated_at`
	var conds []string
	var args []any
	if f.Search != "" {
		conds = append(conds, `(m.title LIKE ? OR m.location LIKE ? OR m.description LIKE ? OR cl.company_name LIKE ?)`)
		t := likeTerm(f.Search)
		args = append(args, t, t, t, t)
	}
	if st, ok := statusFilter(f); ok {
		conds = append(conds, `m.status = ?`)
		args = append(args, st)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cols+` FROM missions m LEFT JOIN clients cl ON cl.id = m.client_id`+
			buildWhere(conds)+` ORDER BY m.created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	missions := make([]crm.Mission, 0)
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, *m)
	}
	return missions, rows.Err()
}

func (s *Store) UpdateMission(ctx context.Context, m *crm.Mission) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE missions
		 SET title = ?, client_id = ?, description = ?, required_skills = ?, location = ?,
		     start_date = ?, end_date = ?, notes = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		m.Title, m.ClientID, m.Description, m.RequiredSkills, m.Location,
		m.StartDate, m.EndDate, m.Notes, m.Status, now, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update mission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	m.UpdatedAt = now
	return nil
}

func (s *Store) DeleteMission(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete mission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	return nil
}

// ─── Assignments ─────────────────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *crm.Assignment) error {
	now := time.Now().UTC()
	// INSERT OR IGNORE skips the unique-pair violation but still surfaces
	// foreign key errors; zero rows affected means the pair already exists.
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO mission_applicants (mission_id, applicant_id, notes, created_at)
		 VALUES (?, ?, ?, ?)`,
		a.MissionID, a.ApplicantID, a.Notes, now,
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	if n == 0 {
		return crm.ErrDuplicateAssignment
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert assignment id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	return nil
}

func (s *Store) DeleteAssignment(ctx context.Context, missionID, applicantID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM mission_applicants WHERE mission_id = ? AND applicant_id = ?`,
		missionID, applicantID,
	)
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}
	return n > 0, nil
}

func (s *Store) AssignedApplicants(ctx context.Context, missionID int64) ([]crm.AssignedApplicant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ma.id, ma.mission_id, ma.applicant_id, ma.notes, ma.created_at,
		        a.first_name, a.last_name, a.email, a.current_job_title
		 FROM mission_applicants ma
		 JOIN applicants a ON a.id = ma.applicant_id
		 WHERE ma.mission_id = ?
		 ORDER BY ma.created_at`,
		missionID,
	)
	if err != nil {
		return nil, fmt.Errorf("assigned applicants: %w", err)
	}
	defer rows.Close()

	assigned := make([]crm.AssignedApplicant, 0)
	for rows.Next() {
		var aa crm.AssignedApplicant
		if err := rows.Scan(
			&aa.ID, &aa.MissionID, &aa.ApplicantID, &aa.Notes, &aa.CreatedAt,
			&aa.FirstName, &aa.LastName, &aa.Email, &aa.CurrentJobTitle,
		); err != nil {
			return nil, fmt.Errorf("scan assigned applicant: %w", err)
		}
		assigned = append(assigned, aa)
	}
	return assigned, rows.Err()
}

func (s *Store) AvailableApplicants(ctx context.Context, missionID int64) ([]crm.Applicant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants
		 WHERE status = 'active'
		   AND id NOT IN (SELECT applicant_id FROM mission_applicants WHERE mission_id = ?)
		 ORDER BY last_name`,
		missionID,
	)
	if err != nil {
		return nil, fmt.Errorf("available applicants: %w", err)
	}
	defer rows.Close()

	available := make([]crm.Applicant, 0)
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan available applicant: %w", err)
		}
		available = append(available, *a)
	}
	return available, rows.Err()
}
