package crm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

// ── Linking and snapshots ──────────────────────────────────────────────────

func TestCreateCallback_ManualEntry(t *testing.T) {
	svc, _, _ := newTestService(t)

	cb, err := svc.CreateCallback(context.Background(), &crm.Callback{
		Name: "M. Lefevre", Company: "Acme Interim", Reason: "contract renewal",
	})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}
	if cb.Status != crm.CallbackPending {
		t.Errorf("default status = %q, want pending", cb.Status)
	}
	if cb.ApplicantID != nil || cb.ContactID != nil {
		t.Error("manual callback should carry no links")
	}
}

func TestCreateCallback_RequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateCallback(context.Background(), &crm.Callback{Reason: "?"})
	var ve *crm.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("CreateCallback without name: got %v, want ValidationError", err)
	}
}

func TestCreateCallback_ApplicantSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	app := mustCreateApplicant(t, svc, &crm.Applicant{
		FirstName: "Jean", LastName: "Petit", Phone: "0601020304", Email: "jean@example.com",
	})

	cb, err := svc.CreateCallback(ctx, &crm.Callback{ApplicantID: ptr(app.ID), Reason: "follow-up"})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}
	if cb.Name != "Jean Petit" || cb.Phone != "0601020304" || cb.Email != "jean@example.com" {
		t.Errorf("snapshot = name=%q phone=%q email=%q", cb.Name, cb.Phone, cb.Email)
	}
}

func TestCallbackSnapshot_DoesNotTrackApplicantEdits(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	app := mustCreateApplicant(t, svc, &crm.Applicant{
		FirstName: "Jean", LastName: "Petit", Phone: "0601020304",
	})
	cb, err := svc.CreateCallback(ctx, &crm.Callback{ApplicantID: ptr(app.ID)})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}

	app.Phone = "0699999999"
	if _, err := svc.UpdateApplicant(ctx, app, nil, nil); err != nil {
		t.Fatalf("UpdateApplicant: %v", err)
	}

	got, err := svc.GetCallback(ctx, cb.ID)
	if err != nil {
		t.Fatalf("GetCallback: %v", err)
	}
	if got.Phone != "0601020304" {
		t.Errorf("callback phone = %q, snapshot should not resync", got.Phone)
	}
}

func TestCallback_DeleteLinkedApplicant_KeepsSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	cb, err := svc.CreateCallback(ctx, &crm.Callback{ApplicantID: ptr(app.ID)})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}

	if err := svc.DeleteApplicant(ctx, app.ID); err != nil {
		t.Fatalf("DeleteApplicant: %v", err)
	}

	got, err := svc.GetCallback(ctx, cb.ID)
	if err != nil {
		t.Fatalf("GetCallback: %v", err)
	}
	if got.ApplicantID != nil {
		t.Errorf("applicantId after delete = %v, want nil", *got.ApplicantID)
	}
	if got.Name != "Jean Petit" {
		t.Errorf("snapshot name lost on applicant delete: %q", got.Name)
	}
}

func TestCreateCallback_RejectsDoubleLink(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	contact, err := svc.CreateContact(ctx, &crm.Contact{FirstName: "Marie", LastName: "Durand"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	_, err = svc.CreateCallback(ctx, &crm.Callback{ApplicantID: ptr(app.ID), ContactID: ptr(contact.ID)})
	var ve *crm.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("double link: got %v, want ValidationError", err)
	}
}

func TestCreateCallback_RejectsDanglingLink(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateCallback(context.Background(), &crm.Callback{ApplicantID: ptr(999)})
	var ve *crm.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("dangling link: got %v, want ValidationError", err)
	}
}

// ── Status and the due sweep ───────────────────────────────────────────────

func TestMarkCallbackDone(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cb, err := svc.CreateCallback(ctx, &crm.Callback{Name: "M. Lefevre"})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}

	done, err := svc.MarkCallbackDone(ctx, cb.ID)
	if err != nil {
		t.Fatalf("MarkCallbackDone: %v", err)
	}
	if done.Status != crm.CallbackDone {
		t.Errorf("status = %q, want done", done.Status)
	}
}

func TestDuePendingCallbacks(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdue, err := svc.CreateCallback(ctx, &crm.Callback{Name: "Overdue", CallbackDate: &past})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}
	if _, err := svc.CreateCallback(ctx, &crm.Callback{Name: "Upcoming", CallbackDate: &future}); err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}
	finished, err := svc.CreateCallback(ctx, &crm.Callback{Name: "Finished", CallbackDate: &past})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}
	if _, err := svc.MarkCallbackDone(ctx, finished.ID); err != nil {
		t.Fatalf("MarkCallbackDone: %v", err)
	}
	if _, err := svc.CreateCallback(ctx, &crm.Callback{Name: "No date"}); err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}

	due, err := svc.DuePendingCallbacks(ctx, now)
	if err != nil {
		t.Fatalf("DuePendingCallbacks: %v", err)
	}
	if len(due) != 1 || due[0].ID != overdue.ID {
		t.Errorf("DuePendingCallbacks = %+v, want only %q", due, "Overdue")
	}
}

// ── Picker options ─────────────────────────────────────────────────────────

func TestCallbackOptions_OnlyActivePeople(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})
	mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Paul", LastName: "Roche", Status: crm.StatusInactive})
	if _, err := svc.CreateContact(ctx, &crm.Contact{FirstName: "Marie", LastName: "Durand"}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	apps, err := svc.ApplicantOptions(ctx)
	if err != nil {
		t.Fatalf("ApplicantOptions: %v", err)
	}
	if len(apps) != 1 || apps[0].FirstName != "Jean" {
		t.Errorf("ApplicantOptions = %+v", apps)
	}

	contacts, err := svc.ContactOptions(ctx)
	if err != nil {
		t.Fatalf("ContactOptions: %v", err)
	}
	if len(contacts) != 1 || contacts[0].FirstName != "Marie" {
		t.Errorf("ContactOptions = %+v", contacts)
	}
}
