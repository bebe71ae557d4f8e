package favorites

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmarder/screener/internal/log"
)

type stubFavClient struct {
	addErr    error
	removeErr error

	mu      sync.Mutex
	listIDs []string
	added   []string
	removed []string

	addCalls atomic.Int32

	// When entered is non-nil, adding blockID blocks until release is
	// closed; entered is closed when that add arrives.
	blockID string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *stubFavClient) ListFavorites(ctx context.Context) ([]string, error) {
	return s.listIDs, nil
}

func (s *stubFavClient) AddFavorite(ctx context.Context, id string) error {
	s.addCalls.Add(1)
	if s.entered != nil && id == s.blockID {
		s.once.Do(func() { close(s.entered) })
		<-s.release
	}
	if s.addErr != nil {
		return s.addErr
	}
	s.mu.Lock()
	s.added = append(s.added, id)
	s.mu.Unlock()
	return nil
}

func (s *stubFavClient) RemoveFavorite(ctx context.Context, id string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	s.removed = append(s.removed, id)
	s.mu.Unlock()
	return nil
}

type memPersister struct {
	mu    sync.Mutex
	saved [][]string
}

func (p *memPersister) SaveFavoriteIDs(ids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, ids)
	return nil
}

func TestToggleAddsAndRemoves(t *testing.T) {
	client := &stubFavClient{}
	svc := NewService(client, nil, log.NullLogger())

	nowFav, err := svc.Toggle(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, nowFav)
	assert.True(t, svc.IsFavorite("m1"))
	assert.Equal(t, []string{"m1"}, client.added)

	nowFav, err = svc.Toggle(context.Background(), "m1")
	require.NoError(t, err)
	assert.False(t, nowFav)
	assert.False(t, svc.IsFavorite("m1"))
	assert.Equal(t, []string{"m1"}, client.removed)
}

func TestToggleOptimisticRollbackOnFailure(t *testing.T) {
	client := &stubFavClient{addErr: errors.New("rejected")}
	svc := NewService(client, nil, log.NullLogger())

	nowFav, err := svc.Toggle(context.Background(), "m1")
	require.Error(t, err)
	assert.False(t, nowFav, "membership reverts to its pre-toggle value")
	assert.False(t, svc.IsFavorite("m1"))

	// Pending flag cleared: the next toggle goes through.
	client.addErr = nil
	nowFav, err = svc.Toggle(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, nowFav)
}

func TestToggleRemoveRollback(t *testing.T) {
	client := &stubFavClient{removeErr: errors.New("rejected")}
	svc := NewService(client, nil, log.NullLogger())
	svc.Seed([]string{"m1"})

	nowFav, err := svc.Toggle(context.Background(), "m1")
	require.Error(t, err)
	assert.True(t, nowFav, "the failed removal leaves the item favorited")
	assert.True(t, svc.IsFavorite("m1"))
}

func TestTogglePerIDSingleFlight(t *testing.T) {
	client := &stubFavClient{
		blockID: "m1",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewService(client, nil, log.NullLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Toggle(context.Background(), "m1")
		assert.NoError(t, err)
	}()
	<-client.entered

	// Duplicate toggle on the same id while in flight: dropped, still
	// reporting the optimistic state.
	nowFav, err := svc.Toggle(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, nowFav)

	// A different id proceeds independently and in parallel.
	nowFav, err = svc.Toggle(context.Background(), "m2")
	require.NoError(t, err)
	assert.True(t, nowFav)

	close(client.release)
	<-done

	assert.Equal(t, int32(2), client.addCalls.Load(), "one add per id, none for the duplicate")
	assert.True(t, svc.IsFavorite("m1"))
	assert.True(t, svc.IsFavorite("m2"))
}

func TestRefreshReplacesAndPersists(t *testing.T) {
	client := &stubFavClient{listIDs: []string{"m3", "m1"}}
	persist := &memPersister{}
	svc := NewService(client, persist, log.NullLogger())
	svc.Seed([]string{"stale"})

	require.NoError(t, svc.Refresh(context.Background()))

	assert.False(t, svc.IsFavorite("stale"))
	assert.Equal(t, []string{"m1", "m3"}, svc.IDs())
	require.Len(t, persist.saved, 1)
	assert.Equal(t, []string{"m1", "m3"}, persist.saved[0])
}

func TestTogglePersistsOnSuccessOnly(t *testing.T) {
	client := &stubFavClient{addErr: errors.New("rejected")}
	persist := &memPersister{}
	svc := NewService(client, persist, log.NullLogger())

	_, err := svc.Toggle(context.Background(), "m1")
	require.Error(t, err)
	assert.Empty(t, persist.saved, "rejected toggles are not persisted")

	client.addErr = nil
	_, err = svc.Toggle(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, persist.saved, 1)
	assert.Equal(t, []string{"m1"}, persist.saved[0])
}
