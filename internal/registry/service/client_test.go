package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/internal/registry/store/drivers/sqlite"
	"github.com/cloudfleet/clientregistry/pkg/cryptox"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newClientService(t *testing.T) *ClientService {
	t.Helper()
	return &ClientService{
		Store:  newTestStore(t),
		Hasher: cryptox.Argon2Hasher{},
	}
}

func testDraft(clientID string) ClientDraft {
	return ClientDraft{
		ClientID:             clientID,
		Secret:               "s3cret",
		Name:                 "test client",
		RedirectURIs:         []string{"https://app.example/callback"},
		Scopes:               []string{"read"},
		GrantTypes:           []string{"client_credentials"},
		AccessTokenValidity:  3600,
		RefreshTokenValidity: 86400,
	}
}

func TestClientCreateHashesSecret(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testDraft("svc-orders"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, domain.StatusActive, created.Status)
	require.False(t, created.Deleted)

	// The stored value is a PHC hash that verifies against the plaintext.
	require.NotEqual(t, "s3cret", created.SecretHash)
	require.NoError(t, svc.Hasher.Verify("s3cret", created.SecretHash))
	require.ErrorIs(t, svc.Hasher.Verify("wrong", created.SecretHash), cryptox.ErrMismatch)
}

func TestClientCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	d := testDraft("svc-a")
	d.ClientID = ""
	_, err := svc.Create(ctx, d)
	require.ErrorIs(t, err, ErrValidation)

	d = testDraft("svc-b")
	d.Secret = ""
	_, err = svc.Create(ctx, d)
	require.ErrorIs(t, err, ErrValidation)

	d = testDraft("svc-c")
	d.RedirectURIs = nil
	_, err = svc.Create(ctx, d)
	require.ErrorIs(t, err, ErrValidation)
}

func TestClientUpdatePreservesLifecycleFields(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testDraft("svc-billing"))
	require.NoError(t, err)

	update := testDraft("svc-billing")
	update.ID = created.ID
	update.Secret = "" // keep the stored hash
	update.Name = "billing service"
	update.Scopes = []string{"read", "write"}

	updated, err := svc.Update(ctx, update)
	require.NoError(t, err)
	require.Equal(t, "billing service", updated.Name)
	require.Equal(t, []string{"read", "write"}, updated.Scopes)
	require.Equal(t, created.SecretHash, updated.SecretHash)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.EqualValues(t, created.Version+1, updated.Version)
}

func TestClientUpdateRotatesSecretWhenSupplied(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testDraft("svc-payments"))
	require.NoError(t, err)

	update := testDraft("svc-payments")
	update.ID = created.ID
	update.Secret = "s3cret" // same plaintext still re-hashes

	updated, err := svc.Update(ctx, update)
	require.NoError(t, err)
	require.NotEqual(t, created.SecretHash, updated.SecretHash)
	require.NoError(t, svc.Hasher.Verify("s3cret", updated.SecretHash))
}

func TestClientUpdateMissing(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	update := testDraft("svc-ghost")
	update.ID = "01HZZZZZZZZZZZZZZZZZZZZZZZ"
	_, err := svc.Update(ctx, update)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientDeleteIsSoft(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testDraft("svc-search"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	// Gone from functional lookups, still visible to the audit fetch.
	_, err = svc.Store.Clients().GetActiveByID(ctx, created.ID).Await(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := svc.Store.Clients().GetByID(ctx, created.ID).Await(ctx)
	require.NoError(t, err)
	require.True(t, got.Deleted)

	require.ErrorIs(t, svc.Delete(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ"), ErrClientNotFound)
}

func TestClientListActive(t *testing.T) {
	t.Parallel()

	svc := newClientService(t)
	ctx := context.Background()

	var deleteID string
	for i := range 7 {
		created, err := svc.Create(ctx, testDraft(fmt.Sprintf("svc-%02d", i)))
		require.NoError(t, err)
		if i == 0 {
			deleteID = created.ID
		}
	}
	require.NoError(t, svc.Delete(ctx, deleteID))

	page, err := svc.ListActive(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Clients, 5)
	require.EqualValues(t, 6, page.Total)

	page, err = svc.ListActive(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Clients, 1)

	_, err = svc.ListActive(ctx, 0, 5)
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.ListActive(ctx, 1, 0)
	require.ErrorIs(t, err, ErrValidation)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 6, total)
}
