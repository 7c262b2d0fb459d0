package postgres

import (
	"context"
	"fmt"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

func (s *Store) InsertNote(ctx context.Context, n *crm.Note) error {
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO notes (content, entity_type, entity_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		n.Content, n.EntityType, n.EntityID, now,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	n.CreatedAt = now
	return nil
}

// InsertNotes inserts a batch with a shared timestamp, backfilling each
// note's id. Callers filter blanks first.
func (s *Store) InsertNotes(ctx context.Context, notes []crm.Note) error {
	now := time.Now().UTC()
	for i := range notes {
		err := s.pool.QueryRow(ctx,
			`INSERT INTO notes (content, entity_type, entity_id, created_at)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			notes[i].Content, notes[i].EntityType, notes[i].EntityID, now,
		).Scan(&notes[i].ID)
		if err != nil {
			return fmt.Errorf("insert notes: %w", err)
		}
		notes[i].CreatedAt = now
	}
	return nil
}

func (s *Store) NotesFor(ctx context.Context, kind crm.EntityKind, entityID int64) ([]crm.Note, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, content, entity_type, entity_id, created_at
		 FROM notes
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC, id DESC`,
		kind, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]crm.Note, 0)
	for rows.Next() {
		var n crm.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.EntityType, &n.EntityID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crm.ErrNotFound
	}
	return nil
}
