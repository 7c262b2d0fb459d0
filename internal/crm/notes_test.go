package crm_test

import (
	"context"
	"errors"
	"testing"

	"recruitdesk/crm-service/internal/crm"
)

// ── AttachNote ─────────────────────────────────────────────────────────────

func TestAttachNote_TrimsContent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})

	n, err := svc.AttachNote(ctx, crm.KindClient, client.ID, "  called back on Monday  ")
	if err != nil {
		t.Fatalf("AttachNote: %v", err)
	}
	if n.Content != "called back on Monday" {
		t.Errorf("content = %q, want trimmed", n.Content)
	}
	if n.ID == 0 {
		t.Error("AttachNote should assign an id")
	}
}

func TestAttachNote_RejectsBlankContent(t *testing.T) {
	svc, _, _ := newTestService(t)
	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.AttachNote(context.Background(), crm.KindClient, client.ID, content)
		if !errors.Is(err, crm.ErrEmptyContent) {
			t.Errorf("AttachNote(%q): got %v, want ErrEmptyContent", content, err)
		}
	}
}

// ── AttachNotes ────────────────────────────────────────────────────────────

func TestAttachNotes_DropsBlankEntries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})

	notes, err := svc.AttachNotes(ctx, crm.KindClient, client.ID, []string{" first ", "", "second", "  "})
	if err != nil {
		t.Fatalf("AttachNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("AttachNotes stored %d notes, want 2", len(notes))
	}

	stored, err := svc.Notes(ctx, crm.KindClient, client.ID)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("Notes returned %d, want 2", len(stored))
	}
}

func TestAttachNotes_BackfillsIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})

	notes, err := svc.AttachNotes(ctx, crm.KindClient, client.ID, []string{"first", "second"})
	if err != nil {
		t.Fatalf("AttachNotes: %v", err)
	}
	seen := make(map[int64]bool)
	for _, n := range notes {
		if n.ID == 0 {
			t.Errorf("note %q returned without an id", n.Content)
		}
		if seen[n.ID] {
			t.Errorf("note id %d returned twice", n.ID)
		}
		seen[n.ID] = true
		if n.CreatedAt.IsZero() {
			t.Errorf("note %q returned without a timestamp", n.Content)
		}
	}

	// The ids are live: deleting by a returned id removes that note.
	if err := svc.DetachNote(ctx, notes[0].ID); err != nil {
		t.Fatalf("DetachNote: %v", err)
	}
	stored, err := svc.Notes(ctx, crm.KindClient, client.ID)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != notes[1].ID {
		t.Errorf("after detach stored = %+v", stored)
	}
}

func TestAttachNotes_AllBlankIsNoOp(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})

	notes, err := svc.AttachNotes(ctx, crm.KindClient, client.ID, []string{"", "  "})
	if err != nil {
		t.Fatalf("AttachNotes all-blank: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("all-blank batch stored %d notes, want 0", len(notes))
	}
}

// ── Listing and detach ─────────────────────────────────────────────────────

func TestNotes_NewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})
	for _, c := range []string{"first", "second", "third"} {
		if _, err := svc.AttachNote(ctx, crm.KindClient, client.ID, c); err != nil {
			t.Fatalf("AttachNote(%s): %v", c, err)
		}
	}

	notes, err := svc.Notes(ctx, crm.KindClient, client.ID)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 3 || notes[0].Content != "third" || notes[2].Content != "first" {
		t.Errorf("Notes order = %+v, want newest first", notes)
	}
}

func TestNotes_ScopedToEntity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})

	// Same numeric id on two kinds must not collide.
	if _, err := svc.AttachNote(ctx, crm.KindClient, client.ID, "client note"); err != nil {
		t.Fatalf("AttachNote: %v", err)
	}
	if _, err := svc.AttachNote(ctx, crm.KindApplicant, app.ID, "applicant note"); err != nil {
		t.Fatalf("AttachNote: %v", err)
	}

	notes, err := svc.Notes(ctx, crm.KindApplicant, app.ID)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "applicant note" {
		t.Errorf("applicant notes = %+v", notes)
	}
}

func TestNotes_SurviveEntityDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})
	if _, err := svc.AttachNote(ctx, crm.KindClient, client.ID, "history"); err != nil {
		t.Fatalf("AttachNote: %v", err)
	}
	if err := svc.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}

	notes, err := svc.Notes(ctx, crm.KindClient, client.ID)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("notes after entity delete = %d, want 1", len(notes))
	}
}

func TestDetachNote(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})
	n, err := svc.AttachNote(ctx, crm.KindClient, client.ID, "obsolete")
	if err != nil {
		t.Fatalf("AttachNote: %v", err)
	}

	if err := svc.DetachNote(ctx, n.ID); err != nil {
		t.Fatalf("DetachNote: %v", err)
	}
	if err := svc.DetachNote(ctx, n.ID); !errors.Is(err, crm.ErrNotFound) {
		t.Errorf("second DetachNote: got %v, want ErrNotFound", err)
	}
}
