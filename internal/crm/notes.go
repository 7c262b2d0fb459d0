package crm

import (
	"context"
	"fmt"
	"strings"
)

// ─── Notes ───────────────────────────────────────────────────────────────────

// AttachNote trims and stores one note against an entity. Blank content (after
// trimming) is rejected with ErrEmptyContent.
func (s *Service) AttachNote(ctx context.Context, kind EntityKind, entityID int64, content string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	n := &Note{Content: content, EntityType: kind, EntityID: entityID}
	if err := s.store.InsertNote(ctx, n); err != nil {
		return nil, fmt.Errorf("attach note: %w", err)
	}
	return n, nil
}

// AttachNotes stores a batch of notes against an entity, silently dropping
// blank entries. An all-blank batch is a no-op, not an error.
func (s *Service) AttachNotes(ctx context.Context, kind EntityKind, entityID int64, contents []string) ([]Note, error) {
	notes := make([]Note, 0, len(contents))
	for _, c := range contents {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		notes = append(notes, Note{Content: c, EntityType: kind, EntityID: entityID})
	}
	if len(notes) == 0 {
		return nil, nil
	}
	if err := s.store.InsertNotes(ctx, notes); err != nil {
		return nil, fmt.Errorf("attach notes: %w", err)
	}
	return notes, nil
}

// Notes returns all notes for an entity, newest first.
func (s *Service) Notes(ctx context.Context, kind EntityKind, entityID int64) ([]Note, error) {
	return s.store.NotesFor(ctx, kind, entityID)
}

// DetachNote removes one note by id.
func (s *Service) DetachNote(ctx context.Context, id int64) error {
	return s.store.DeleteNote(ctx, id)
}
