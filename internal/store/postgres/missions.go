package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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
	err := s.pool.QueryRow(ctx,
		`INSERT INTO missions (title, client_id, description, required_skills, location,
		   start_date, end_date, notes, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		m.Title, m.ClientID, m.Description, m.RequiredSkills, m.Location,
		m.StartDate, m.EndDate, m.Notes, m.Status, now, now,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert mission: %w", err)
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func (s *Store) GetMission(ctx context.Context, id int64) (*crm.Mission, error) {
	m, err := scanMission(s.pool.QueryRow(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, likeTerm(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(m.title ILIKE $%d OR m.location ILIKE $%d OR m.description ILIKE $%d OR cl.company_name ILIKE $%d)`,
			n, n, n, n))
	}
	if st, ok := statusFilter(f); ok {
		args = append(args, st)
		conds = append(conds, fmt.Sprintf(`m.status = $%d`, len(args)))
	}

	rows, err := s.pool.Query(ctx,
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE missions
		 SET title = $1, client_id = $2, description = $3, required_skills = $4,
		     location = $5, start_date = $6, end_date = $7, notes = $8, status = $9,
		     updated_at = $10
		 WHERE id = $11`,
		m.Title, m.ClientID, m.Description, m.RequiredSkills,
		m.Location, m.StartDate, m.EndDate, m.Notes, m.Status,
		now, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	m.UpdatedAt = now
	return nil
}

func (s *Store) DeleteMission(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM missions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	return nil
}

// ─── Assignments ─────────────────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *crm.Assignment) error {
	now := time.Now().UTC()
	// ON CONFLICT DO NOTHING closes the concurrent duplicate-assign race at
	// the persistence boundary; no returned row means the pair exists.
	err := s.pool.QueryRow(ctx,
		`INSERT INTO mission_applicants (mission_id, applicant_id, notes, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (mission_id, applicant_id) DO NOTHING
		 RETURNING id`,
		a.MissionID, a.ApplicantID, a.Notes, now,
	).Scan(&a.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.ErrDuplicateAssignment
	}
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	a.CreatedAt = now
	return nil
}

func (s *Store) DeleteAssignment(ctx context.Context, missionID, applicantID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM mission_applicants WHERE mission_id = $1 AND applicant_id = $2`,
		missionID, applicantID,
	)
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AssignedApplicants(ctx context.Context, missionID int64) ([]crm.AssignedApplicant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ma.id, ma.mission_id, ma.applicant_id, ma.notes, ma.created_at,
		        a.first_name, a.last_name, a.email, a.current_job_title
		 FROM mission_applicants ma
		 JOIN applicants a ON a.id = ma.applicant_id
		 WHERE ma.mission_id = $1
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
	rows, err := s.pool.Query(ctx,
		`SELECT `+applicantColumns+` FROM applicants
		 WHERE status = 'active'
		   AND id NOT IN (SELECT applicant_id FROM mission_applicants WHERE mission_id = $1)
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
