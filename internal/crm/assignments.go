package crm

import (
	"context"
	"fmt"
)

// ─── Mission assignments ─────────────────────────────────────────────────────

// Assign links an applicant to a mission. Both records must exist; linking an
// already-assigned pair returns ErrDuplicateAssignment. Uniqueness is enforced
// by the store's constraint, so concurrent duplicate attempts collapse to one
// row.
func (s *Service) Assign(ctx context.Context, missionID, applicantID int64, notes string) (*Assignment, error) {
	if _, err := s.store.GetMission(ctx, missionID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetApplicant(ctx, applicantID); err != nil {
		return nil, err
	}
	a := &Assignment{MissionID: missionID, ApplicantID: applicantID, Notes: notes}
	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	s.publishChange(ctx, KindMission, missionID, "updated")
	return a, nil
}

// Unassign removes the (mission, applicant) link. Removing a pair that is not
// linked is a silent no-op.
func (s *Service) Unassign(ctx context.Context, missionID, applicantID int64) error {
	removed, err := s.store.DeleteAssignment(ctx, missionID, applicantID)
	if err != nil {
		return fmt.Errorf("unassign: %w", err)
	}
	if removed {
		s.publishChange(ctx, KindMission, missionID, "updated")
	}
	return nil
}

// AssignedApplicants returns the mission's assignments joined with applicant
// display fields, oldest assignment first.
func (s *Service) AssignedApplicants(ctx context.Context, missionID int64) ([]AssignedApplicant, error) {
	if _, err := s.store.GetMission(ctx, missionID); err != nil {
		return nil, err
	}
	return s.store.AssignedApplicants(ctx, missionID)
}

// AvailableApplicants returns active applicants not yet assigned to the
// mission, ordered by last name. The result never overlaps the assigned set.
func (s *Service) AvailableApplicants(ctx context.Context, missionID int64) ([]Applicant, error) {
	if _, err := s.store.GetMission(ctx, missionID); err != nil {
		return nil, err
	}
	return s.store.AvailableApplicants(ctx, missionID)
}
