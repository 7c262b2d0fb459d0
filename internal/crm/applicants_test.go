package crm_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"recruitdesk/crm-service/internal/blob"
	"recruitdesk/crm-service/internal/crm"
)

// ── Document naming and lifecycle ──────────────────────────────────────────

func TestCreateApplicant_StoresDocuments(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	app, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("cv bytes")},
		&crm.DocumentUpload{Filename: "diploma.pdf", Data: []byte("extra bytes")},
	)
	if err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	if app.CVFilename != "Jean-Petit-CV.pdf" {
		t.Errorf("cvFilename = %q, want Jean-Petit-CV.pdf", app.CVFilename)
	}
	if app.ExtraFilename != "Jean-Petit-extra-diploma.pdf" {
		t.Errorf("extraFilename = %q, want Jean-Petit-extra-diploma.pdf", app.ExtraFilename)
	}

	data, err := docs.Open(ctx, app.CVFilename)
	if err != nil {
		t.Fatalf("Open cv blob: %v", err)
	}
	if !bytes.Equal(data, []byte("cv bytes")) {
		t.Errorf("cv blob = %q", data)
	}
}

func TestUpdateApplicant_ReplacesCVInPlace(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	app, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("v1")}, nil,
	)
	if err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	// Same applicant name derives the same blob name; the write overwrites.
	updated, err := svc.UpdateApplicant(ctx, app,
		&crm.DocumentUpload{Filename: "resume-v2.pdf", Data: []byte("v2")}, nil,
	)
	if err != nil {
		t.Fatalf("UpdateApplicant: %v", err)
	}
	if updated.CVFilename != "Jean-Petit-CV.pdf" {
		t.Errorf("cvFilename = %q", updated.CVFilename)
	}

	data, err := docs.Open(ctx, updated.CVFilename)
	if err != nil {
		t.Fatalf("Open cv blob: %v", err)
	}
	if !bytes.Equal(data, []byte("v2")) {
		t.Errorf("cv blob = %q, want v2", data)
	}
	if names := docs.Names(); len(names) != 1 {
		t.Errorf("blob store holds %v, want a single cv", names)
	}
}

func TestUpdateApplicant_RenameDropsOldBlob(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	app, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("v1")}, nil,
	)
	if err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	app.LastName = "Petit-Martin"
	if _, err := svc.UpdateApplicant(ctx, app,
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("v2")}, nil,
	); err != nil {
		t.Fatalf("UpdateApplicant: %v", err)
	}

	names := docs.Names()
	sort.Strings(names)
	if len(names) != 1 || names[0] != "Jean-Petit-Martin-CV.pdf" {
		t.Errorf("blob store holds %v, old cv should be gone", names)
	}
}

func TestUpdateApplicant_WithoutFilesKeepsDocuments(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	app, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("v1")}, nil,
	)
	if err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	app.City = "Lille"
	updated, err := svc.UpdateApplicant(ctx, app, nil, nil)
	if err != nil {
		t.Fatalf("UpdateApplicant: %v", err)
	}
	if updated.CVFilename != "Jean-Petit-CV.pdf" {
		t.Errorf("cvFilename lost on field-only update: %q", updated.CVFilename)
	}
	if _, err := docs.Open(ctx, updated.CVFilename); err != nil {
		t.Errorf("cv blob gone after field-only update: %v", err)
	}
}

func TestDeleteApplicant_RemovesDocuments(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	app, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("cv")},
		&crm.DocumentUpload{Filename: "diploma.pdf", Data: []byte("extra")},
	)
	if err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	if err := svc.DeleteApplicant(ctx, app.ID); err != nil {
		t.Fatalf("DeleteApplicant: %v", err)
	}
	if names := docs.Names(); len(names) != 0 {
		t.Errorf("blob store holds %v after applicant delete", names)
	}
}

// ── Storage failure behavior ───────────────────────────────────────────────

// faultyDocs wraps a document store, failing writes and/or deletes on demand.
type faultyDocs struct {
	inner      blob.Store
	failWrite  bool
	failDelete bool
}

func (f *faultyDocs) Driver() blob.Driver { return f.inner.Driver() }

func (f *faultyDocs) Store(ctx context.Context, name string, data []byte) error {
	if f.failWrite {
		return fmt.Errorf("disk full")
	}
	return f.inner.Store(ctx, name, data)
}

func (f *faultyDocs) Open(ctx context.Context, name string) ([]byte, error) {
	return f.inner.Open(ctx, name)
}

func (f *faultyDocs) Delete(ctx context.Context, name string) error {
	if f.failDelete {
		return fmt.Errorf("backend unavailable")
	}
	return f.inner.Delete(ctx, name)
}

func TestCreateApplicant_FailedUploadIsFatal(t *testing.T) {
	svc := newServiceWithDocs(t, &faultyDocs{inner: blob.NewMemoryStore(), failWrite: true})

	_, err := svc.CreateApplicant(context.Background(),
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("cv")}, nil,
	)
	if !errors.Is(err, crm.ErrStorageUnavailable) {
		t.Fatalf("CreateApplicant with failing store: got %v, want ErrStorageUnavailable", err)
	}
}

func TestDeleteApplicant_FailedBlobDeleteIsNonFatal(t *testing.T) {
	svc := newServiceWithDocs(t, &faultyDocs{inner: blob.NewMemoryStore(), failDelete: true})
	ctx := context.Background()

	app, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("cv")}, nil,
	)
	if err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	// The record delete succeeds even though the blob delete keeps failing.
	if err := svc.DeleteApplicant(ctx, app.ID); err != nil {
		t.Fatalf("DeleteApplicant: %v", err)
	}
	if _, err := svc.GetApplicant(ctx, app.ID); !errors.Is(err, crm.ErrNotFound) {
		t.Errorf("GetApplicant after delete: got %v, want ErrNotFound", err)
	}
}

// ── Downloads ──────────────────────────────────────────────────────────────

func TestOpenDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateApplicant(ctx,
		&crm.Applicant{FirstName: "Jean", LastName: "Petit"},
		&crm.DocumentUpload{Filename: "resume.pdf", Data: []byte("cv bytes")}, nil,
	); err != nil {
		t.Fatalf("CreateApplicant: %v", err)
	}

	data, err := svc.OpenDocument(ctx, "Jean-Petit-CV.pdf")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	if !bytes.Equal(data, []byte("cv bytes")) {
		t.Errorf("OpenDocument = %q", data)
	}

	if _, err := svc.OpenDocument(ctx, "missing.pdf"); !errors.Is(err, crm.ErrNotFound) {
		t.Errorf("OpenDocument(missing): got %v, want ErrNotFound", err)
	}
}
