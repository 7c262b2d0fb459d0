package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"recruitdesk/crm-service/internal/blob"
	"recruitdesk/crm-service/internal/events"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates all CRM business logic.
// It has no dependency on net/http, so any transport layer can use it.
type Service struct {
	store  Store
	docs   blob.Store
	events events.Publisher
}

// NewService returns a configured Service.
func NewService(store Store, docs blob.Store, pub events.Publisher) *Service {
	return &Service{store: store, docs: docs, events: pub}
}

// ChangeEvent is the payload published on EVENT_ENTITY_CHANGED.
type ChangeEvent struct {
	Kind   EntityKind `json:"kind"`
	ID     int64      `json:"id"`
	Action string     `json:"action"` // created | updated | deleted
}

// publishChange emits an EVENT_ENTITY_CHANGED event (non-fatal).
func (s *Service) publishChange(ctx context.Context, kind EntityKind, id int64, action string) {
	ev := ChangeEvent{Kind: kind, ID: id, Action: action}
	if err := s.events.Publish(ctx, events.ChannelEntityChanged, ev); err != nil {
		slog.Warn("publish EVENT_ENTITY_CHANGED failed", "kind", kind, "id", id, "err", err)
	}
}

// ─── Clients ─────────────────────────────────────────────────────────────────

// CreateClient validates and persists a new client record.
func (s *Service) CreateClient(ctx context.Context, c *Client) (*Client, error) {
	if c.CompanyName == "" {
		return nil, &ValidationError{Msg: "companyName is required"}
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if _, err := ParseRecordStatus(string(c.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.publishChange(ctx, KindClient, c.ID, "created")
	return c, nil
}

// GetClient returns one client by id.
func (s *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	return s.store.GetClient(ctx, id)
}

// ListClients returns clients matching the filter, oldest first.
func (s *Service) ListClients(ctx context.Context, f ListFilter) ([]Client, error) {
	return s.store.ListClients(ctx, f)
}

// UpdateClient replaces the stored record with c, refreshing UpdatedAt.
func (s *Service) UpdateClient(ctx context.Context, c *Client) (*Client, error) {
	if c.CompanyName == "" {
		return nil, &ValidationError{Msg: "companyName is required"}
	}
	if _, err := ParseRecordStatus(string(c.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, err
	}
	s.publishChange(ctx, KindClient, c.ID, "updated")
	return c, nil
}

// DeleteClient removes the client. Contacts and missions that referenced it
// keep existing with their client reference cleared.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, KindClient, id, "deleted")
	return nil
}

// ─── Contacts ────────────────────────────────────────────────────────────────

// CreateContact validates and persists a new contact record.
func (s *Service) CreateContact(ctx context.Context, c *Contact) (*Contact, error) {
	if c.FirstName == "" || c.LastName == "" {
		return nil, &ValidationError{Msg: "firstName and lastName are required"}
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if _, err := ParseRecordStatus(string(c.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := s.checkClientRef(ctx, c.ClientID); err != nil {
		return nil, err
	}
	if err := s.store.CreateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	s.publishChange(ctx, KindContact, c.ID, "created")
	return c, nil
}

// GetContact returns one contact by id.
func (s *Service) GetContact(ctx context.Context, id int64) (*Contact, error) {
	return s.store.GetContact(ctx, id)
}

// ListContacts returns contacts matching the filter, oldest first.
func (s *Service) ListContacts(ctx context.Context, f ListFilter) ([]Contact, error) {
	return s.store.ListContacts(ctx, f)
}

// UpdateContact replaces the stored record with c, refreshing UpdatedAt.
func (s *Service) UpdateContact(ctx context.Context, c *Contact) (*Contact, error) {
	if c.FirstName == "" || c.LastName == "" {
		return nil, &ValidationError{Msg: "firstName and lastName are required"}
	}
	if _, err := ParseRecordStatus(string(c.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := s.checkClientRef(ctx, c.ClientID); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateContact(ctx, c); err != nil {
		return nil, err
	}
	s.publishChange(ctx, KindContact, c.ID, "updated")
	return c, nil
}

// DeleteContact removes the contact. Callbacks linked to it keep their
// snapshot fields with the link cleared.
func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	if err := s.store.DeleteContact(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, KindContact, id, "deleted")
	return nil
}

// checkClientRef rejects a dangling client reference with a validation error.
func (s *Service) checkClientRef(ctx context.Context, clientID *int64) error {
	if clientID == nil {
		return nil
	}
	if _, err := s.store.GetClient(ctx, *clientID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ValidationError{Msg: fmt.Sprintf("client %d does not exist", *clientID)}
		}
		return err
	}
	return nil
}

// ─── Missions ────────────────────────────────────────────────────────────────

// CreateMission validates and persists a new mission record.
func (s *Service) CreateMission(ctx context.Context, m *Mission) (*Mission, error) {
	if m.Title == "" {
		return nil, &ValidationError{Msg: "title is required"}
	}
	if m.Status == "" {
		m.Status = MissionOpen
	}
	if _, err := ParseMissionStatus(string(m.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := validateDateRange(m.StartDate, m.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkClientRef(ctx, m.ClientID); err != nil {
		return nil, err
	}
	if err := s.store.CreateMission(ctx, m); err != nil {
		return nil, fmt.Errorf("create mission: %w", err)
	}
	s.publishChange(ctx, KindMission, m.ID, "created")
	return m, nil
}

// GetMission returns one mission by id.
func (s *Service) GetMission(ctx context.Context, id int64) (*Mission, error) {
	return s.store.GetMission(ctx, id)
}

// ListMissions returns missions matching the filter, oldest first.
func (s *Service) ListMissions(ctx context.Context, f ListFilter) ([]Mission, error) {
	return s.store.ListMissions(ctx, f)
}

// UpdateMission replaces the stored record with m, refreshing UpdatedAt.
func (s *Service) UpdateMission(ctx context.Context, m *Mission) (*Mission, error) {
	if m.Title == "" {
		return nil, &ValidationError{Msg: "title is required"}
	}
	if _, err := ParseMissionStatus(string(m.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := validateDateRange(m.StartDate, m.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkClientRef(ctx, m.ClientID); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateMission(ctx, m); err != nil {
		return nil, err
	}
	s.publishChange(ctx, KindMission, m.ID, "updated")
	return m, nil
}

// DeleteMission removes the mission and its assignments.
func (s *Service) DeleteMission(ctx context.Context, id int64) error {
	if err := s.store.DeleteMission(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, KindMission, id, "deleted")
	return nil
}

// validateDateRange checks optional YYYY-MM-DD mission dates.
func validateDateRange(start, end string) error {
	var startT, endT time.Time
	var err error
	if start != "" {
		if startT, err = time.Parse("2006-01-02", start); err != nil {
			return &ValidationError{Msg: fmt.Sprintf("invalid startDate %q", start)}
		}
	}
	if end != "" {
		if endT, err = time.Parse("2006-01-02", end); err != nil {
			return &ValidationError{Msg: fmt.Sprintf("invalid endDate %q", end)}
		}
	}
	if start != "" && end != "" && endT.Before(startT) {
		return &ValidationError{Msg: "endDate is before startDate"}
	}
	return nil
}
