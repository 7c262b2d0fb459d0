package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"recruitdesk/crm-service/internal/blob"
)

// ─── Applicants and their documents ──────────────────────────────────────────
//
// An applicant can carry two documents, a CV and one extra file. The record
// stores only blob names; bytes live in the blob store. Replacement writes
// the new blob before touching the record, and removes the old blob only
// after the record points at the new one. Blob deletes are best-effort.

// DocumentUpload carries one uploaded file. Filename is the client-side name,
// used to derive the stored blob name for extra documents.
type DocumentUpload struct {
	Filename string
	Data     []byte
}

// cvBlobName derives the stored CV name for an applicant.
func cvBlobName(a *Applicant) string {
	return fmt.Sprintf("%s-%s-CV.pdf", cleanNamePart(a.FirstName), cleanNamePart(a.LastName))
}

// extraBlobName derives the stored extra-document name for an applicant.
func extraBlobName(a *Applicant, original string) string {
	return fmt.Sprintf("%s-%s-extra-%s", cleanNamePart(a.FirstName), cleanNamePart(a.LastName), cleanNamePart(original))
}

// cleanNamePart strips path separators and whitespace so derived blob names
// stay flat.
func cleanNamePart(s string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", " ", "-")
	return r.Replace(strings.TrimSpace(s))
}

// CreateApplicant validates and persists a new applicant, storing any
// uploaded documents first so the record never names a blob that does not
// exist.
func (s *Service) CreateApplicant(ctx context.Context, a *Applicant, cv, extra *DocumentUpload) (*Applicant, error) {
	if a.FirstName == "" || a.LastName == "" {
		return nil, &ValidationError{Msg: "firstName and lastName are required"}
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if _, err := ParseRecordStatus(string(a.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	if cv != nil {
		name := cvBlobName(a)
		if err := s.docs.Store(ctx, name, cv.Data); err != nil {
			return nil, fmt.Errorf("%w: store cv: %v", ErrStorageUnavailable, err)
		}
		a.CVFilename = name
	}
	if extra != nil {
		name := extraBlobName(a, extra.Filename)
		if err := s.docs.Store(ctx, name, extra.Data); err != nil {
			return nil, fmt.Errorf("%w: store extra document: %v", ErrStorageUnavailable, err)
		}
		a.ExtraFilename = name
	}

	if err := s.store.CreateApplicant(ctx, a); err != nil {
		return nil, fmt.Errorf("create applicant: %w", err)
	}
	s.publishChange(ctx, KindApplicant, a.ID, "created")
	return a, nil
}

// GetApplicant returns one applicant by id.
func (s *Service) GetApplicant(ctx context.Context, id int64) (*Applicant, error) {
	return s.store.GetApplicant(ctx, id)
}

// ListApplicants returns applicants matching the filter, oldest first.
func (s *Service) ListApplicants(ctx context.Context, f ListFilter) ([]Applicant, error) {
	return s.store.ListApplicants(ctx, f)
}

// UpdateApplicant replaces the stored record with a, optionally swapping one
// or both documents. A replaced document's old blob is removed only after the
// record update succeeds; a failed removal is logged, never fatal.
func (s *Service) UpdateApplicant(ctx context.Context, a *Applicant, cv, extra *DocumentUpload) (*Applicant, error) {
	if a.FirstName == "" || a.LastName == "" {
		return nil, &ValidationError{Msg: "firstName and lastName are required"}
	}
	if _, err := ParseRecordStatus(string(a.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	prev, err := s.store.GetApplicant(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.CVFilename = prev.CVFilename
	a.ExtraFilename = prev.ExtraFilename

	if cv != nil {
		name := cvBlobName(a)
		if err := s.docs.Store(ctx, name, cv.Data); err != nil {
			return nil, fmt.Errorf("%w: store cv: %v", ErrStorageUnavailable, err)
		}
		a.CVFilename = name
	}
	if extra != nil {
		name := extraBlobName(a, extra.Filename)
		if err := s.docs.Store(ctx, name, extra.Data); err != nil {
			return nil, fmt.Errorf("%w: store extra document: %v", ErrStorageUnavailable, err)
		}
		a.ExtraFilename = name
	}

	a.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateApplicant(ctx, a); err != nil {
		return nil, err
	}

	// The record now points at the new blobs; drop the superseded ones.
	// A CV keeps the same derived name unless the applicant was renamed.
	if cv != nil && prev.CVFilename != "" && prev.CVFilename != a.CVFilename {
		s.dropBlob(ctx, prev.CVFilename)
	}
	if extra != nil && prev.ExtraFilename != "" && prev.ExtraFilename != a.ExtraFilename {
		s.dropBlob(ctx, prev.ExtraFilename)
	}

	s.publishChange(ctx, KindApplicant, a.ID, "updated")
	return a, nil
}

// DeleteApplicant removes the applicant, its assignments, and its documents.
// Document removal is best-effort; the record delete always wins.
func (s *Service) DeleteApplicant(ctx context.Context, id int64) error {
	a, err := s.store.GetApplicant(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteApplicant(ctx, id); err != nil {
		return err
	}
	if a.CVFilename != "" {
		s.dropBlob(ctx, a.CVFilename)
	}
	if a.ExtraFilename != "" {
		s.dropBlob(ctx, a.ExtraFilename)
	}
	s.publishChange(ctx, KindApplicant, id, "deleted")
	return nil
}

// OpenDocument reads a stored document back for download.
func (s *Service) OpenDocument(ctx context.Context, name string) ([]byte, error) {
	data, err := s.docs.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: open document: %v", ErrStorageUnavailable, err)
	}
	return data, nil
}

// dropBlob deletes a document blob, logging failures (non-fatal).
func (s *Service) dropBlob(ctx context.Context, name string) {
	if err := s.docs.Delete(ctx, name); err != nil {
		slog.Warn("delete document failed", "name", name, "err", err)
	}
}
