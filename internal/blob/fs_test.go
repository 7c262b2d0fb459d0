package blob_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"recruitdesk/crm-service/internal/blob"
)

func newFSStore(t *testing.T) *blob.FilesystemStore {
	t.Helper()
	s, err := blob.NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	return s
}

// ── Round trip ─────────────────────────────────────────────────────────────

func TestFilesystemStore_RoundTrip(t *testing.T) {
	s := newFSStore(t)
	ctx := context.Background()

	if err := s.Store(ctx, "Jean-Petit-CV.pdf", []byte("cv bytes")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	data, err := s.Open(ctx, "Jean-Petit-CV.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(data, []byte("cv bytes")) {
		t.Errorf("Open = %q", data)
	}
}

func TestFilesystemStore_OverwritesExistingName(t *testing.T) {
	s := newFSStore(t)
	ctx := context.Background()

	if err := s.Store(ctx, "doc.pdf", []byte("v1")); err != nil {
		t.Fatalf("Store v1: %v", err)
	}
	if err := s.Store(ctx, "doc.pdf", []byte("v2")); err != nil {
		t.Fatalf("Store v2: %v", err)
	}
	data, err := s.Open(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(data, []byte("v2")) {
		t.Errorf("Open = %q, want v2", data)
	}
}

func TestFilesystemStore_OpenMissing(t *testing.T) {
	s := newFSStore(t)

	_, err := s.Open(context.Background(), "missing.pdf")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Open(missing): got %v, want ErrNotFound", err)
	}
}

// ── Delete ─────────────────────────────────────────────────────────────────

func TestFilesystemStore_DeleteIsIdempotent(t *testing.T) {
	s := newFSStore(t)
	ctx := context.Background()

	if err := s.Store(ctx, "doc.pdf", []byte("x")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Delete(ctx, "doc.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting a name that is already gone is not an error.
	if err := s.Delete(ctx, "doc.pdf"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := s.Open(ctx, "doc.pdf"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Open after delete: got %v, want ErrNotFound", err)
	}
}

// ── Name validation ────────────────────────────────────────────────────────

func TestFilesystemStore_RejectsUnsafeNames(t *testing.T) {
	s := newFSStore(t)
	ctx := context.Background()

	unsafe := []string{"", "   ", "../escape", "a/b.pdf", `a\b.pdf`, "..", "x/../y"}
	for _, name := range unsafe {
		if err := s.Store(ctx, name, []byte("x")); err == nil {
			t.Errorf("Store(%q) accepted an unsafe name", name)
		}
		if _, err := s.Open(ctx, name); err == nil {
			t.Errorf("Open(%q) accepted an unsafe name", name)
		}
	}
}

// ── Memory driver ──────────────────────────────────────────────────────────

func TestMemoryStore_RoundTripAndIsolation(t *testing.T) {
	s := blob.NewMemoryStore()
	ctx := context.Background()

	payload := []byte("cv bytes")
	if err := s.Store(ctx, "doc.pdf", payload); err != nil {
		t.Fatalf("Store: %v", err)
	}
	// Mutating the caller's slice must not change the stored copy.
	payload[0] = 'X'

	data, err := s.Open(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(data, []byte("cv bytes")) {
		t.Errorf("Open = %q, stored copy was aliased", data)
	}

	if err := s.Delete(ctx, "doc.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Open(ctx, "doc.pdf"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Open after delete: got %v, want ErrNotFound", err)
	}
}
