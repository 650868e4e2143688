// Package bridge serves the authorization runtime's synchronous client
// lookup contract on top of the asynchronous record store. Every lookup is
// bounded by a timeout so a stalled store degrades a single token request
// instead of wedging the runtime.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/codec"
	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/asyncx"
	"github.com/cloudfleet/clientregistry/pkg/slogx"
)

// DefaultTimeout bounds a single lookup when the caller's context carries no
// earlier deadline.
const DefaultTimeout = 3 * time.Second

var (
	// ErrUnavailable wraps store failures and timeouts. Distinct from the
	// absent case, which is (zero, false, nil).
	ErrUnavailable = errors.New("client registry unavailable")

	// ErrRegistrationNotSupported is returned by Register; writes go
	// through the mutation service, never through the lookup contract.
	ErrRegistrationNotSupported = errors.New("registration is not supported by the registry bridge")

	// ErrReentrantLookup reports a lookup issued from inside the store's
	// own worker pool, which would deadlock the pool under load.
	ErrReentrantLookup = errors.New("reentrant lookup from store worker")
)

// ClientRegistry is the synchronous lookup facade handed to the
// authorization runtime. Lookups only surface ACTIVE, non-deleted records.
type ClientRegistry struct {
	Store   store.Store
	Timeout time.Duration // zero means DefaultTimeout
}

// LookupByID resolves a record by surrogate id. Absent, deleted or disabled
// records report ok=false with a nil error.
func (r *ClientRegistry) LookupByID(ctx context.Context, id string) (domain.ClientDescriptor, bool, error) {
	return r.lookup(ctx, "id", id, func(ctx context.Context) *asyncx.Promise[domain.Client] {
		return r.Store.Clients().GetActiveByID(ctx, id)
	})
}

// LookupByClientID resolves a record by its natural key.
func (r *ClientRegistry) LookupByClientID(ctx context.Context, clientID string) (domain.ClientDescriptor, bool, error) {
	return r.lookup(ctx, "client_id", clientID, func(ctx context.Context) *asyncx.Promise[domain.Client] {
		return r.Store.Clients().GetActiveByClientID(ctx, clientID)
	})
}

// Register always fails. The runtime-facing contract includes a save hook,
// but registration is owned by the admin mutation surface.
func (r *ClientRegistry) Register(ctx context.Context, _ domain.ClientDescriptor) error {
	return ErrRegistrationNotSupported
}

func (r *ClientRegistry) lookup(
	ctx context.Context,
	keyKind, key string,
	fetch func(context.Context) *asyncx.Promise[domain.Client],
) (domain.ClientDescriptor, bool, error) {
	if asyncx.OnWorker(ctx) {
		return domain.ClientDescriptor{}, false, ErrReentrantLookup
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := fetch(ctx).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ClientDescriptor{}, false, nil
		}
		slogx.FromContext(ctx).Error("client lookup failed",
			"error", err, keyKind, key)
		return domain.ClientDescriptor{}, false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return Descriptor(client), true, nil
}

// Descriptor projects a stored record into the runtime's typed view.
// Unknown grant tokens are dropped by the codec; a record whose tokens are
// all unknown yields a descriptor with no grants, which the runtime rejects
// on its own.
func Descriptor(c domain.Client) domain.ClientDescriptor {
	return domain.ClientDescriptor{
		ID:           c.ID,
		ClientID:     c.ClientID,
		SecretHash:   c.SecretHash,
		Name:         c.Name,
		GrantTypes:   codec.GrantTypes(c.GrantTypes),
		Scopes:       c.Scopes,
		RedirectURIs: c.RedirectURIs,
		AuthMethod:   domain.AuthMethodClientSecretBasic,

		AccessTokenValidity:  c.AccessTokenValidity,
		RefreshTokenValidity: c.RefreshTokenValidity,
		AutoApprove:          c.AutoApprove,
	}
}
