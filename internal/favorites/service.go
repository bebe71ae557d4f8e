// Package favorites manages the viewer's favorite set with optimistic
// updates: membership flips immediately, the platform call follows, and a
// rejected call rolls the flip back.
package favorites

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mmarder/screener/internal/domain"
)

// persister snapshots favorite ids locally so the set renders instantly on
// the next start (consumer-defined interface).
type persister interface {
	SaveFavoriteIDs(ids []string) error
}

// Service owns the favorite set and the per-id in-flight discipline. Toggles
// on different ids proceed independently; a second toggle on an id that is
// already mid-flight is dropped.
type Service struct {
	client  domain.FavoritesClient
	persist persister
	logger  *slog.Logger

	mu      sync.Mutex
	ids     map[string]struct{}
	pending map[string]struct{}
}

// NewService creates a new favorites service. persist may be nil.
func NewService(client domain.FavoritesClient, persist persister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:  client,
		persist: persist,
		logger:  logger,
		ids:     make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
}

// Seed loads a previously cached favorite set, typically before the first
// round trip to the platform.
func (s *Service) Seed(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Refresh replaces the set with the platform's copy and persists it.
func (s *Service) Refresh(ctx context.Context) error {
	ids, err := s.client.ListFavorites(ctx)
	if err != nil {
		s.logger.Error("failed to fetch favorites", "error", err)
		return err
	}
	s.Seed(ids)
	s.snapshot()
	s.logger.Debug("refreshed favorites", "count", len(ids))
	return nil
}

// IsFavorite reports current (optimistic) membership.
func (s *Service) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the current favorite ids, sorted for stable persistence.
func (s *Service) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idsLocked()
}

func (s *Service) idsLocked() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Toggle flips membership for id. The flip is applied optimistically before
// the network call; a failed call reverts it and returns the error. A toggle
// for an id already in flight is dropped and reports current membership.
// The request issued matches the pre-flip state: remove when it was a
// favorite, add when it was not.
func (s *Service) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if _, inFlight := s.pending[id]; inFlight {
		_, member := s.ids[id]
		s.mu.Unlock()
		s.logger.Debug("favorite toggle dropped, already in flight", "mediaID", id)
		return member, nil
	}
	_, wasFavorite := s.ids[id]
	if wasFavorite {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.pending[id] = struct{}{}
	s.mu.Unlock()

	var err error
	if wasFavorite {
		err = s.client.RemoveFavorite(ctx, id)
	} else {
		err = s.client.AddFavorite(ctx, id)
	}

	s.mu.Lock()
	delete(s.pending, id)
	if err != nil {
		// Roll the optimistic flip back so the set never shows a state
		// the platform rejected.
		if wasFavorite {
			s.ids[id] = struct{}{}
		} else {
			delete(s.ids, id)
		}
		_, member := s.ids[id]
		s.mu.Unlock()
		s.logger.Error("favorite toggle failed, reverted", "mediaID", id, "error", err)
		return member, err
	}
	s.mu.Unlock()

	s.snapshot()
	return !wasFavorite, nil
}

// snapshot persists the current set, best effort.
func (s *Service) snapshot() {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveFavoriteIDs(s.IDs()); err != nil {
		s.logger.Error("failed to persist favorites", "error", err)
	}
}
