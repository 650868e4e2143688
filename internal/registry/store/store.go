// Package store defines the asynchronous record-store contract. Every
// read/write returns a promise that resolves once the driver's worker pool
// has completed the operation; nothing here blocks the caller.
package store

import (
	"context"
	"errors"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/pkg/asyncx"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists reports a client_id collision among non-deleted
	// records.
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrVersionConflict reports a save that presented a stale version. The
	// loser of a concurrent update must re-fetch and retry; the store never
	// silently overwrites.
	ErrVersionConflict = errors.New("store: version conflict")

	// ErrClosed reports an operation submitted after the store shut down.
	ErrClosed = errors.New("store: closed")
)

// Store is the root data access interface. Concrete drivers implement it;
// sub-repositories keep the two record kinds tidy and separately mockable.
type Store interface {
	Clients() Clients
	Credentials() Credentials

	ApplyMigrations() error

	// Close stops the worker pool after in-flight operations finish and
	// releases the underlying database.
	Close() error

	// Ping verifies the backing database is reachable, through the same
	// asynchronous path as every other operation.
	Ping(ctx context.Context) *asyncx.Promise[struct{}]
}

// Clients is the client-record repository.
//
// Save is insert-or-update: an empty record ID inserts (assigning id,
// version 1 and timestamps), a non-empty ID performs a version-checked
// update that bumps the version by exactly one. Stale versions resolve to
// ErrVersionConflict.
type Clients interface {
	// GetByID fetches by surrogate id with no status or deleted filtering.
	// This is the audit/read-modify-write path; soft-deleted rows remain
	// reachable here.
	GetByID(ctx context.Context, id string) *asyncx.Promise[domain.Client]

	// GetActiveByID fetches by surrogate id, restricted to ACTIVE,
	// non-deleted records.
	GetActiveByID(ctx context.Context, id string) *asyncx.Promise[domain.Client]

	// GetByClientID fetches by natural key among non-deleted records.
	GetByClientID(ctx context.Context, clientID string) *asyncx.Promise[domain.Client]

	// GetActiveByClientID fetches by natural key, restricted to ACTIVE,
	// non-deleted records.
	GetActiveByClientID(ctx context.Context, clientID string) *asyncx.Promise[domain.Client]

	Save(ctx context.Context, c domain.Client) *asyncx.Promise[domain.Client]

	// ListActive returns non-deleted records ordered by creation, for the
	// given 1-based page.
	ListActive(ctx context.Context, page, size int64) *asyncx.Promise[[]domain.Client]

	// CountActive counts non-deleted records.
	CountActive(ctx context.Context) *asyncx.Promise[int64]
}

// Credentials is the user-credential repository. Save follows the same
// insert-or-update contract as Clients.Save.
type Credentials interface {
	// GetBySubject fetches by external subject reference with no status or
	// deleted filtering.
	GetBySubject(ctx context.Context, subjectID string) *asyncx.Promise[domain.Credential]

	// GetActiveByUsername fetches by username, restricted to ACTIVE,
	// non-deleted records.
	GetActiveByUsername(ctx context.Context, username string) *asyncx.Promise[domain.Credential]

	Save(ctx context.Context, c domain.Credential) *asyncx.Promise[domain.Credential]
}
