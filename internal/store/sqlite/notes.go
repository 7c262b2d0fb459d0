package sqlite

import (
	"context"
	"fmt"
	"time"

	"recruitdesk/crm-service/internal/crm"
)

func (s *Store) InsertNote(ctx context.Context, n *crm.Note) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (content, entity_type, entity_id, created_at) VALUES (?, ?, ?, ?)`,
		n.Content, n.EntityType, n.EntityID, now,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert note id: %w", err)
	}
	n.ID = id
	n.CreatedAt = now
	return nil
}

// InsertNotes inserts a batch with a shared timestamp, backfilling each
// note's id. Callers filter blanks first.
func (s *Store) InsertNotes(ctx context.Context, notes []crm.Note) error {
	now := time.Now().UTC()
	for i := range notes {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO notes (content, entity_type, entity_id, created_at) VALUES (?, ?, ?, ?)`,
			notes[i].Content, notes[i].EntityType, notes[i].EntityID, now,
		)
		if err != nil {
			return fmt.Errorf("insert notes: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert notes id: %w", err)
		}
		notes[i].ID = id
		notes[i].CreatedAt = now
	}
	return nil
}

func (s *Store) NotesFor(ctx context.Context, kind crm.EntityKind, entityID int64) ([]crm.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, entity_type, entity_id, created_at
		 FROM notes
		 WHERE entity_type = ? AND entity_id = ?
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return crm.ErrNotFound
	}
	return nil
}
