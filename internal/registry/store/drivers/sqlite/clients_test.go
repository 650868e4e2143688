package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testClient(clientID string) domain.Client {
	return domain.Client{
		ClientID:             clientID,
		SecretHash:           "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Name:                 "test client",
		RedirectURIs:         []string{"https://app.example/callback"},
		Scopes:               []string{"read", "write"},
		GrantTypes:           []string{"authorization_code", "refresh_token"},
		AccessTokenValidity:  3600,
		RefreshTokenValidity: 86400,
		Status:               domain.StatusActive,
	}
}

func TestClientInsertAssignsIdentity(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Clients().Save(ctx, testClient("svc-orders")).Await(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.EqualValues(t, 1, saved.Version)
	require.False(t, saved.CreatedAt.IsZero())

	got, err := s.Clients().GetByID(ctx, saved.ID).Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "svc-orders", got.ClientID)
	require.Equal(t, []string{"read", "write"}, got.Scopes)
	require.Equal(t, []string{"authorization_code", "refresh_token"}, got.GrantTypes)
	require.Equal(t, []string{"https://app.example/callback"}, got.RedirectURIs)
}

func TestClientGetNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Clients().GetByID(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ").Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Clients().GetByClientID(ctx, "nope").Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientUniqueClientIDAmongLiveRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Clients().Save(ctx, testClient("svc-billing")).Await(ctx)
	require.NoError(t, err)

	_, err = s.Clients().Save(ctx, testClient("svc-billing")).Await(ctx)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Soft delete frees the natural key for re-registration.
	first.Deleted = true
	_, err = s.Clients().Save(ctx, first).Await(ctx)
	require.NoError(t, err)

	_, err = s.Clients().Save(ctx, testClient("svc-billing")).Await(ctx)
	require.NoError(t, err)
}

func TestClientVersionConflictOnStaleSave(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Clients().Save(ctx, testClient("svc-payments")).Await(ctx)
	require.NoError(t, err)

	// Two actors fetch the same version; the first save wins.
	a := saved
	b := saved

	a.Name = "renamed by a"
	updated, err := s.Clients().Save(ctx, a).Await(ctx)
	require.NoError(t, err)
	require.EqualValues(t, saved.Version+1, updated.Version)

	b.Name = "renamed by b"
	_, err = s.Clients().Save(ctx, b).Await(ctx)
	require.ErrorIs(t, err, store.ErrVersionConflict)

	// The loser retries from the current record and succeeds.
	current, err := s.Clients().GetByID(ctx, saved.ID).Await(ctx)
	require.NoError(t, err)
	current.Name = "renamed by b"
	_, err = s.Clients().Save(ctx, current).Await(ctx)
	require.NoError(t, err)
}

func TestClientSaveMissingRecord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	ghost := testClient("svc-ghost")
	ghost.ID = "01HZZZZZZZZZZZZZZZZZZZZZZZ"
	ghost.Version = 1

	_, err := s.Clients().Save(ctx, ghost).Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientActiveFiltering(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Clients().Save(ctx, testClient("svc-search")).Await(ctx)
	require.NoError(t, err)

	_, err = s.Clients().GetActiveByClientID(ctx, "svc-search").Await(ctx)
	require.NoError(t, err)

	saved.Status = domain.StatusDisabled
	saved, err = s.Clients().Save(ctx, saved).Await(ctx)
	require.NoError(t, err)

	_, err = s.Clients().GetActiveByClientID(ctx, "svc-search").Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Clients().GetActiveByID(ctx, saved.ID).Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Unfiltered fetch still sees the record.
	got, err := s.Clients().GetByID(ctx, saved.ID).Await(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDisabled, got.Status)
}

func TestClientListActivePagination(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for i := range 25 {
		_, err := s.Clients().Save(ctx, testClient(fmt.Sprintf("svc-active-%02d", i))).Await(ctx)
		require.NoError(t, err)
	}
	for i := range 5 {
		saved, err := s.Clients().Save(ctx, testClient(fmt.Sprintf("svc-deleted-%02d", i))).Await(ctx)
		require.NoError(t, err)
		saved.Deleted = true
		_, err = s.Clients().Save(ctx, saved).Await(ctx)
		require.NoError(t, err)
	}

	total, err := s.Clients().CountActive(ctx).Await(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 25, total)

	page1, err := s.Clients().ListActive(ctx, 1, 10).Await(ctx)
	require.NoError(t, err)
	require.Len(t, page1, 10)

	page3, err := s.Clients().ListActive(ctx, 3, 10).Await(ctx)
	require.NoError(t, err)
	require.Len(t, page3, 5)

	page4, err := s.Clients().ListActive(ctx, 4, 10).Await(ctx)
	require.NoError(t, err)
	require.Empty(t, page4)
}

func TestStoreClosedRejectsNewWork(t *testing.T) {
	t.Parallel()

	s, err := NewStore(":memory:", 1)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Close())

	ctx := context.Background()
	_, err = s.Clients().GetByID(ctx, "any").Await(ctx)
	require.ErrorIs(t, err, store.ErrClosed)
}

func TestCloseConcurrentWithSubmitsResolvesEveryPromise(t *testing.T) {
	t.Parallel()

	// Submits racing Close must each end in a real outcome: the record
	// result, or ErrClosed. A promise stranded past its deadline means a
	// job slipped into the queue after the workers exited.
	for iter := 0; iter < 20; iter++ {
		s, err := NewStore(":memory:", 2)
		require.NoError(t, err)
		require.NoError(t, s.ApplyMigrations())

		start := make(chan struct{})
		results := make(chan error, 8)
		for range 8 {
			go func() {
				<-start
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_, err := s.Clients().GetByID(ctx, "missing").Await(ctx)
				results <- err
			}()
		}

		close(start)
		require.NoError(t, s.Close())

		for range 8 {
			err := <-results
			if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrClosed) {
				t.Fatalf("iteration %d: promise did not complete cleanly: %v", iter, err)
			}
		}
	}
}
