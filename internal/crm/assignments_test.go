package crm_test

import (
	"context"
	"errors"
	"testing"

	"recruitdesk/crm-service/internal/crm"
)

// ── Assign ─────────────────────────────────────────────────────────────────

func TestAssign_CreatesLink(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})

	a, err := svc.Assign(ctx, mission.ID, app.ID, "strong fit")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.ID == 0 || a.MissionID != mission.ID || a.ApplicantID != app.ID {
		t.Errorf("Assign returned %+v", a)
	}

	assigned, err := svc.AssignedApplicants(ctx, mission.ID)
	if err != nil {
		t.Fatalf("AssignedApplicants: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ApplicantID != app.ID || assigned[0].FirstName != "Jean" {
		t.Errorf("AssignedApplicants = %+v", assigned)
	}
}

func TestAssign_DuplicatePairRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})

	if _, err := svc.Assign(ctx, mission.ID, app.ID, ""); err != nil {
		t.Fatalf("first Assign: %v", err)
	}
	_, err := svc.Assign(ctx, mission.ID, app.ID, "")
	if !errors.Is(err, crm.ErrDuplicateAssignment) {
		t.Fatalf("second Assign: got %v, want ErrDuplicateAssignment", err)
	}

	assigned, err := svc.AssignedApplicants(ctx, mission.ID)
	if err != nil {
		t.Fatalf("AssignedApplicants: %v", err)
	}
	if len(assigned) != 1 {
		t.Errorf("duplicate assign left %d rows, want 1", len(assigned))
	}
}

func TestAssign_MissingRecords(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})

	if _, err := svc.Assign(ctx, 999, app.ID, ""); !errors.Is(err, crm.ErrNotFound) {
		t.Errorf("Assign to missing mission: got %v, want ErrNotFound", err)
	}
	if _, err := svc.Assign(ctx, mission.ID, 999, ""); !errors.Is(err, crm.ErrNotFound) {
		t.Errorf("Assign missing applicant: got %v, want ErrNotFound", err)
	}
}

// ── Unassign ───────────────────────────────────────────────────────────────

func TestUnassign_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	if _, err := svc.Assign(ctx, mission.ID, app.ID, ""); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := svc.Unassign(ctx, mission.ID, app.ID); err != nil {
		t.Fatalf("first Unassign: %v", err)
	}
	// Repeating the removal is a silent no-op.
	if err := svc.Unassign(ctx, mission.ID, app.ID); err != nil {
		t.Fatalf("second Unassign: %v", err)
	}

	assigned, err := svc.AssignedApplicants(ctx, mission.ID)
	if err != nil {
		t.Fatalf("AssignedApplicants: %v", err)
	}
	if len(assigned) != 0 {
		t.Errorf("assigned after unassign = %+v, want empty", assigned)
	}
}

// ── Available ──────────────────────────────────────────────────────────────

func TestAvailableApplicants_ExcludesAssignedAndInactive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	assigned := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	free := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Anna", LastName: "Moreau"})
	mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Paul", LastName: "Roche", Status: crm.StatusInactive})

	if _, err := svc.Assign(ctx, mission.ID, assigned.ID, ""); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	available, err := svc.AvailableApplicants(ctx, mission.ID)
	if err != nil {
		t.Fatalf("AvailableApplicants: %v", err)
	}
	if len(available) != 1 || available[0].ID != free.ID {
		t.Errorf("AvailableApplicants = %+v, want only %s", available, free.LastName)
	}

	// The available and assigned sets never overlap.
	got, err := svc.AssignedApplicants(ctx, mission.ID)
	if err != nil {
		t.Fatalf("AssignedApplicants: %v", err)
	}
	for _, av := range available {
		for _, as := range got {
			if av.ID == as.ApplicantID {
				t.Errorf("applicant %d is both available and assigned", av.ID)
			}
		}
	}
}

// ── Cascade ────────────────────────────────────────────────────────────────

func TestDeleteApplicant_RemovesAssignments(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	if _, err := svc.Assign(ctx, mission.ID, app.ID, ""); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := svc.DeleteApplicant(ctx, app.ID); err != nil {
		t.Fatalf("DeleteApplicant: %v", err)
	}

	assigned, err := svc.AssignedApplicants(ctx, mission.ID)
	if err != nil {
		t.Fatalf("AssignedApplicants: %v", err)
	}
	if len(assigned) != 0 {
		t.Errorf("assignments survived applicant delete: %+v", assigned)
	}
}

func TestDeleteMission_RemovesAssignments(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	if _, err := svc.Assign(ctx, mission.ID, app.ID, ""); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := svc.DeleteMission(ctx, mission.ID); err != nil {
		t.Fatalf("DeleteMission: %v", err)
	}

	// The applicant survives and is assignable to a new mission.
	if _, err := svc.GetApplicant(ctx, app.ID); err != nil {
		t.Fatalf("GetApplicant after mission delete: %v", err)
	}
	next := mustCreateMission(t, svc, &crm.Mission{Title: "Warehouse lead"})
	if _, err := svc.Assign(ctx, next.ID, app.ID, ""); err != nil {
		t.Errorf("Assign to new mission after cascade: %v", err)
	}
}
