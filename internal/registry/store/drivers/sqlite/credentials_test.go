package sqlite

import (
	"context"
	"testing"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/stretchr/testify/require"
)

func testCredential(subjectID, username string) domain.Credential {
	return domain.Credential{
		SubjectID:    subjectID,
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         "user",
		Status:       domain.StatusActive,
	}
}

func TestCredentialInsertAndLookup(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Credentials().Save(ctx, testCredential("subj-1", "alice")).Await(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.EqualValues(t, 1, saved.Version)

	bySubject, err := s.Credentials().GetBySubject(ctx, "subj-1").Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", bySubject.Username)

	byUsername, err := s.Credentials().GetActiveByUsername(ctx, "alice").Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "subj-1", byUsername.SubjectID)
}

func TestCredentialActiveLookupFiltersStatusAndDeleted(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Credentials().Save(ctx, testCredential("subj-2", "bob")).Await(ctx)
	require.NoError(t, err)

	saved.Status = domain.StatusDisabled
	saved, err = s.Credentials().Save(ctx, saved).Await(ctx)
	require.NoError(t, err)

	_, err = s.Credentials().GetActiveByUsername(ctx, "bob").Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Subject lookup is unconditional: disabled records stay visible.
	got, err := s.Credentials().GetBySubject(ctx, "subj-2").Await(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDisabled, got.Status)

	saved = got
	saved.Status = domain.StatusActive
	saved.Deleted = true
	_, err = s.Credentials().Save(ctx, saved).Await(ctx)
	require.NoError(t, err)

	_, err = s.Credentials().GetActiveByUsername(ctx, "bob").Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialUniqueAmongLiveRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Credentials().Save(ctx, testCredential("subj-5", "dave")).Await(ctx)
	require.NoError(t, err)

	// Both natural keys are unique among live records.
	_, err = s.Credentials().Save(ctx, testCredential("subj-5", "other")).Await(ctx)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	_, err = s.Credentials().Save(ctx, testCredential("subj-other", "dave")).Await(ctx)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Soft delete frees them for re-registration.
	first.Deleted = true
	_, err = s.Credentials().Save(ctx, first).Await(ctx)
	require.NoError(t, err)

	_, err = s.Credentials().Save(ctx, testCredential("subj-5", "dave")).Await(ctx)
	require.NoError(t, err)
}

func TestCredentialVersionConflict(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Credentials().Save(ctx, testCredential("subj-3", "carol")).Await(ctx)
	require.NoError(t, err)

	stale := saved
	fresh := saved

	fresh.Status = domain.StatusDisabled
	_, err = s.Credentials().Save(ctx, fresh).Await(ctx)
	require.NoError(t, err)

	stale.Role = "admin"
	_, err = s.Credentials().Save(ctx, stale).Await(ctx)
	require.ErrorIs(t, err, store.ErrVersionConflict)
}
