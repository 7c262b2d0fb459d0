package crm

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Search runs one federated query across all five entity kinds. The per-kind
// queries run concurrently and each is capped at SearchLimit rows; the bundle
// is returned only once every kind has answered. A blank term short-circuits
// to an empty bundle without touching the store.
func (s *Service) Search(ctx context.Context, term string) (*SearchResults, error) {
	res := &SearchResults{
		Applicants: []ApplicantHit{},
		Clients:    []ClientHit{},
		Contacts:   []ContactHit{},
		Missions:   []MissionHit{},
		Callbacks:  []CallbackHit{},
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return res, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := s.store.SearchApplicants(ctx, term, SearchLimit)
		if err != nil {
			return err
		}
		res.Applicants = hits
		return nil
	})
	g.Go(func() error {
		hits, err := s.store.SearchClients(ctx, term, SearchLimit)
		if err != nil {
			return err
		}
		res.Clients = hits
		return nil
	})
	g.Go(func() error {
		hits, err := s.store.SearchContacts(ctx, term, SearchLimit)
		if err != nil {
			return err
		}
		res.Contacts = hits
		return nil
	})
	g.Go(func() error {
		hits, err := s.store.SearchMissions(ctx, term, SearchLimit)
		if err != nil {
			return err
		}
		res.Missions = hits
		return nil
	})
	g.Go(func() error {
		hits, err := s.store.SearchCallbacks(ctx, term, SearchLimit)
		if err != nil {
			return err
		}
		res.Callbacks = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
