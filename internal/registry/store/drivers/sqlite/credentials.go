package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/asyncx"
	"github.com/cloudfleet/clientregistry/pkg/idx"
)

type credentialsRepo struct {
	s *Store
}

const credentialColumns = `id, subject_id, username, password_hash, role, status, deleted,
	created_at, updated_at, version`

func scanCredential(row rowScanner) (domain.Credential, error) {
	var c domain.Credential
	err := row.Scan(
		&c.ID, &c.SubjectID, &c.Username, &c.PasswordHash, &c.Role,
		&c.Status, &c.Deleted,
		&c.CreatedAt, &c.UpdatedAt, &c.Version,
	)
	if err != nil {
		return domain.Credential{}, err
	}
	return c, nil
}

func (r *credentialsRepo) GetBySubject(ctx context.Context, subjectID string) *asyncx.Promise[domain.Credential] {
	return submit(r.s, ctx, func(ctx context.Context) (domain.Credential, error) {
		c, err := scanCredential(r.s.db.QueryRowContext(ctx,
			`SELECT `+credentialColumns+` FROM credentials WHERE subject_id = ?`, subjectID))
		if err != nil {
			return domain.Credential{}, mapNotFound(err)
		}
		return c, nil
	})
}

func (r *credentialsRepo) GetActiveByUsername(ctx context.Context, username string) *asyncx.Promise[domain.Credential] {
	return submit(r.s, ctx, func(ctx context.Context) (domain.Credential, error) {
		c, err := scanCredential(r.s.db.QueryRowContext(ctx, `
			SELECT `+credentialColumns+` FROM credentials
			WHERE username = ? AND status = 1 AND deleted = 0`, username))
		if err != nil {
			return domain.Credential{}, mapNotFound(err)
		}
		return c, nil
	})
}

func (r *credentialsRepo) Save(ctx context.Context, c domain.Credential) *asyncx.Promise[domain.Credential] {
	return submit(r.s, ctx, func(ctx context.Context) (domain.Credential, error) {
		now := time.Now().UTC()

		if c.ID == "" {
			c.ID = idx.New().String()
			c.Version = 1
			c.CreatedAt = now
			c.UpdatedAt = now

			_, err := r.s.db.ExecContext(ctx, `
				INSERT INTO credentials (`+credentialColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ID, c.SubjectID, c.Username, c.PasswordHash, c.Role,
				c.Status, c.Deleted, c.CreatedAt, c.UpdatedAt, c.Version,
			)
			if err != nil {
				return domain.Credential{}, mapConstraint(err)
			}
			return c, nil
		}

		res, err := r.s.db.ExecContext(ctx, `
			UPDATE credentials SET
				subject_id = ?, username = ?, password_hash = ?, role = ?,
				status = ?, deleted = ?, updated_at = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			c.SubjectID, c.Username, c.PasswordHash, c.Role,
			c.Status, c.Deleted, now,
			c.ID, c.Version,
		)
		if err != nil {
			return domain.Credential{}, mapConstraint(err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return domain.Credential{}, err
		}
		if affected == 0 {
			var one int
			err := r.s.db.QueryRowContext(ctx, `SELECT 1 FROM credentials WHERE id = ?`, c.ID).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Credential{}, store.ErrNotFound
			}
			if err != nil {
				return domain.Credential{}, err
			}
			return domain.Credential{}, store.ErrVersionConflict
		}

		c.Version++
		c.UpdatedAt = now
		return c, nil
	})
}
