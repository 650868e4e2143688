package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/slogx"
)

// CredentialService exposes subject credential records to callers that
// authenticate resource owners. Lookups never return raw records to the
// login path; they project into CredentialDescriptor.
type CredentialService struct {
	Store store.Store
}

// FindActive resolves a username to its login view. An absent, disabled or
// deleted credential reports ok=false with a nil error so callers can treat
// "no such user" uniformly; a store failure is returned as an error.
func (s *CredentialService) FindActive(ctx context.Context, username string) (domain.CredentialDescriptor, bool, error) {
	cred, err := s.Store.Credentials().GetActiveByUsername(ctx, username).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.CredentialDescriptor{}, false, nil
		}
		return domain.CredentialDescriptor{}, false, err
	}

	return domain.CredentialDescriptor{
		Username:     cred.Username,
		PasswordHash: cred.PasswordHash,
		Roles:        []string{cred.Role},
	}, true, nil
}

// FindBySubject returns the full record for admin and audit use, regardless
// of status or deletion.
func (s *CredentialService) FindBySubject(ctx context.Context, subjectID string) (domain.Credential, error) {
	cred, err := s.Store.Credentials().GetBySubject(ctx, subjectID).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, ErrCredentialNotFound
		}
		return domain.Credential{}, err
	}
	return cred, nil
}

// Create persists a new ACTIVE credential. The password hash is produced
// upstream by the identity provider; this service never sees plaintext
// passwords. Role defaults to "user" when empty.
func (s *CredentialService) Create(ctx context.Context, subjectID, username, passwordHash, role string) (domain.Credential, error) {
	l := slogx.FromContext(ctx)

	if subjectID == "" {
		return domain.Credential{}, fmt.Errorf("%w: subject_id is required", ErrValidation)
	}
	if username == "" {
		return domain.Credential{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if passwordHash == "" {
		return domain.Credential{}, fmt.Errorf("%w: password_hash is required", ErrValidation)
	}
	if role == "" {
		role = "user"
	}

	record := domain.Credential{
		SubjectID:    subjectID,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       domain.StatusActive,
		Deleted:      false,
	}

	saved, err := s.Store.Credentials().Save(ctx, record).Await(ctx)
	if err != nil {
		l.Error("failed to create credential", "error", err, "username", username)
		return domain.Credential{}, err
	}

	l.Info("credential created", "id", saved.ID, "subject_id", saved.SubjectID)
	return saved, nil
}

// UpdateStatus flips a credential between ACTIVE and DISABLED without
// touching anything else on the record.
func (s *CredentialService) UpdateStatus(ctx context.Context, subjectID string, status domain.Status) (domain.Credential, error) {
	l := slogx.FromContext(ctx)

	if !status.Valid() {
		return domain.Credential{}, fmt.Errorf("%w: unknown status %d", ErrValidation, status)
	}

	cred, err := s.Store.Credentials().GetBySubject(ctx, subjectID).Await(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, ErrCredentialNotFound
		}
		return domain.Credential{}, err
	}

	cred.Status = status
	saved, err := s.Store.Credentials().Save(ctx, cred).Await(ctx)
	if err != nil {
		l.Error("failed to update credential status", "error", err, "subject_id", subjectID)
		return domain.Credential{}, err
	}

	l.Info("credential status updated", "subject_id", subjectID, "status", status.String())
	return saved, nil
}
