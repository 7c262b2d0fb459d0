package crm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ─── Callbacks ───────────────────────────────────────────────────────────────
//
// A callback is either a free-standing manual entry or linked to exactly one
// applicant or contact. Linking copies the person's name, phone, and email
// into the callback at save time; later edits to the person never flow back.

// applyCallbackLink validates the link fields and fills the snapshot when a
// link is present.
func (s *Service) applyCallbackLink(ctx context.Context, cb *Callback) error {
	if cb.ApplicantID != nil && cb.ContactID != nil {
		return &ValidationError{Msg: "a callback links to an applicant or a contact, not both"}
	}
	switch {
	case cb.ApplicantID != nil:
		a, err := s.store.GetApplicant(ctx, *cb.ApplicantID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return &ValidationError{Msg: fmt.Sprintf("applicant %d does not exist", *cb.ApplicantID)}
			}
			return err
		}
		cb.Name = a.FirstName + " " + a.LastName
		cb.Phone = a.Phone
		cb.Email = a.Email
	case cb.ContactID != nil:
		c, err := s.store.GetContact(ctx, *cb.ContactID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return &ValidationError{Msg: fmt.Sprintf("contact %d does not exist", *cb.ContactID)}
			}
			return err
		}
		cb.Name = c.FirstName + " " + c.LastName
		cb.Phone = c.Phone
		cb.Email = c.Email
	}
	if cb.Name == "" {
		return &ValidationError{Msg: "name is required"}
	}
	return nil
}

// CreateCallback validates and persists a new callback reminder.
func (s *Service) CreateCallback(ctx context.Context, cb *Callback) (*Callback, error) {
	if cb.Status == "" {
		cb.Status = CallbackPending
	}
	if _, err := ParseCallbackStatus(string(cb.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := s.applyCallbackLink(ctx, cb); err != nil {
		return nil, err
	}
	if err := s.store.CreateCallback(ctx, cb); err != nil {
		return nil, fmt.Errorf("create callback: %w", err)
	}
	s.publishChange(ctx, KindCallback, cb.ID, "created")
	return cb, nil
}

// GetCallback returns one callback by id.
func (s *Service) GetCallback(ctx context.Context, id int64) (*Callback, error) {
	return s.store.GetCallback(ctx, id)
}

// ListCallbacks returns callbacks matching the filter, ordered by callback
// date.
func (s *Service) ListCallbacks(ctx context.Context, f ListFilter) ([]Callback, error) {
	return s.store.ListCallbacks(ctx, f)
}

// UpdateCallback replaces the stored record with cb, refreshing UpdatedAt.
// The snapshot is re-copied only when the save carries a link; a callback
// whose linked person was deleted keeps its snapshot.
func (s *Service) UpdateCallback(ctx context.Context, cb *Callback) (*Callback, error) {
	if _, err := ParseCallbackStatus(string(cb.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := s.applyCallbackLink(ctx, cb); err != nil {
		return nil, err
	}
	cb.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCallback(ctx, cb); err != nil {
		return nil, err
	}
	s.publishChange(ctx, KindCallback, cb.ID, "updated")
	return cb, nil
}

// DeleteCallback removes the callback.
func (s *Service) DeleteCallback(ctx context.Context, id int64) error {
	if err := s.store.DeleteCallback(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, KindCallback, id, "deleted")
	return nil
}

// MarkCallbackDone flips a callback to done.
func (s *Service) MarkCallbackDone(ctx context.Context, id int64) (*Callback, error) {
	cb, err := s.store.GetCallback(ctx, id)
	if err != nil {
		return nil, err
	}
	cb.Status = CallbackDone
	cb.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCallback(ctx, cb); err != nil {
		return nil, err
	}
	s.publishChange(ctx, KindCallback, id, "updated")
	return cb, nil
}

// ApplicantOptions returns active applicants for the callback form picker.
func (s *Service) ApplicantOptions(ctx context.Context) ([]PersonOption, error) {
	return s.store.ActiveApplicantOptions(ctx)
}

// ContactOptions returns active contacts for the callback form picker.
func (s *Service) ContactOptions(ctx context.Context) ([]PersonOption, error) {
	return s.store.ActiveContactOptions(ctx)
}

// DuePendingCallbacks returns pending callbacks due at or before asOf. The
// reminder sweep publishes an event per due callback.
func (s *Service) DuePendingCallbacks(ctx context.Context, asOf time.Time) ([]Callback, error) {
	return s.store.DuePendingCallbacks(ctx, asOf)
}
