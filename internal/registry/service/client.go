package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/cryptox"
	"github.com/cloudfleet/clientregistry/pkg/slogx"
)

// ClientDraft is the admin-supplied input for creating or updating a client
// record. Secret is plaintext and is hashed before anything is persisted; on
// update an empty Secret keeps the stored hash.
type ClientDraft struct {
	ID       string // empty on create
	ClientID string
	Secret   string
	Name     string

	RedirectURIs []string
	Scopes       []string
	GrantTypes   []string

	AccessTokenValidity  int
	RefreshTokenValidity int
	AutoApprove          bool
}

// ClientService owns all client-record mutations. Lifecycle fields (status,
// deleted, creation time, version) are never taken from the caller; they are
// forced on create and preserved from the stored record on update.
type ClientService struct {
	Store  store.Store
	Hasher cryptox.Hasher
}

func (s *ClientService) validateDraft(d ClientDraft) error {
	if d.ClientID == "" {
		return fmt.Errorf("%w: client_id is required", ErrValidation)
	}
	if len(d.RedirectURIs) == 0 {
		return fmt.Errorf("%w: at least one redirect uri is required", ErrValidation)
	}
	return nil
}

// Create hashes the secret and persists a new ACTIVE, non-deleted record,
// returning it with its assigned id and version.
func (s *ClientService) Create(ctx context.Context, draft ClientDraft) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	if err := s.validateDraft(draft); err != nil {
		return domain.Client{}, err
	}
	if draft.Name == "" {
		return domain.Client{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if draft.Secret == "" {
		return domain.Client{}, fmt.Errorf("%w: secret is required", ErrValidation)
	}

	secretHash, err := s.Hasher.Hash(draft.Secret)
	if err != nil {
		l.Error("failed to hash client secret", "error", err)
		return domain.Client{}, err
	}

	record := domain.Client{
		ClientID:             draft.ClientID,
		SecretHash:           secretHash,
		Name:                 draft.Name,
		RedirectURIs:         draft.RedirectURIs,
		Scopes:               draft.Scopes,
		GrantTypes:           draft.GrantTypes,
		AccessTokenValidity:  draft.AccessTokenValidity,
		RefreshTokenValidity: draft.RefreshTokenValidity,
		AutoApprove:          draft.AutoApprove,
		Status:               domain.StatusActive,
		Deleted:              false,
	}

	saved, err := s.Store.Clients().Save(ctx, record).Await(ctx)
	if err != nil {
		l.Error("failed to create client", "error", err, "client_id", draft.ClientID)
		return domain.Client{}, err
	}

	l.Info("client created", "id", saved.ID, "client_id", saved.ClientID)
	return saved, nil
}

// Update re-fetches the stored record and applies the draft on top of it.
// A non-empty Secret always re-hashes; comparing plaintext against the
// stored hash can never match, so rotation is keyed on presence instead.
func (s *ClientService) Update(ctx context.Context, draft ClientDraft) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	if draft.ID == "" {
		return domain.Client{}, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.validateDraft(draft); err != nil {
		return domain.Client{}, err
	}

	existing, err := s.Store.Clients().GetByID(ctx, draft.ID).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}

	record := existing
	record.ClientID = draft.ClientID
	record.Name = draft.Name
	record.RedirectURIs = draft.RedirectURIs
	record.Scopes = draft.Scopes
	record.GrantTypes = draft.GrantTypes
	record.AccessTokenValidity = draft.AccessTokenValidity
	record.RefreshTokenValidity = draft.RefreshTokenValidity
	record.AutoApprove = draft.AutoApprove

	if draft.Secret != "" {
		hash, err := s.Hasher.Hash(draft.Secret)
		if err != nil {
			l.Error("failed to hash client secret", "error", err)
			return domain.Client{}, err
		}
		record.SecretHash = hash
	}

	saved, err := s.Store.Clients().Save(ctx, record).Await(ctx)
	if err != nil {
		l.Error("failed to update client", "error", err, "id", draft.ID)
		return domain.Client{}, err
	}

	l.Info("client updated", "id", saved.ID, "version", saved.Version)
	return saved, nil
}

// Get fetches a record by surrogate id with no filtering; disabled and
// soft-deleted records remain visible for audit.
func (s *ClientService) Get(ctx context.Context, id string) (domain.Client, error) {
	client, err := s.Store.Clients().GetByID(ctx, id).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return client, nil
}

// Delete soft-deletes the record. The row stays in the store for audit but
// disappears from every functional lookup.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	l := slogx.FromContext(ctx)

	existing, err := s.Store.Clients().GetByID(ctx, id).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	existing.Deleted = true
	if _, err := s.Store.Clients().Save(ctx, existing).Await(ctx); err != nil {
		l.Error("failed to delete client", "error", err, "id", id)
		return err
	}

	l.Info("client deleted", "id", id)
	return nil
}

// ListActive returns the requested 1-based page of non-deleted clients
// together with the total active count. List and count run concurrently on
// the store pool.
func (s *ClientService) ListActive(ctx context.Context, page, size int64) (domain.ClientPage, error) {
	if page < 1 {
		return domain.ClientPage{}, fmt.Errorf("%w: page must be >= 1", ErrValidation)
	}
	if size < 1 {
		return domain.ClientPage{}, fmt.Errorf("%w: size must be >= 1", ErrValidation)
	}

	listP := s.Store.Clients().ListActive(ctx, page, size)
	countP := s.Store.Clients().CountActive(ctx)

	clients, err := listP.Await(ctx)
	if err != nil {
		return domain.ClientPage{}, err
	}
	total, err := countP.Await(ctx)
	if err != nil {
		return domain.ClientPage{}, err
	}

	return domain.ClientPage{
		Clients: clients,
		Total:   total,
		Page:    page,
		Size:    size,
	}, nil
}

// Count returns the number of non-deleted clients.
func (s *ClientService) Count(ctx context.Context) (int64, error) {
	return s.Store.Clients().CountActive(ctx).Await(ctx)
}
