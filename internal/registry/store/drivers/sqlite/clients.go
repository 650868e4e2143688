package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/codec"
	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/asyncx"
	"github.com/cloudfleet/clientregistry/pkg/idx"
)

type clientsRepo struct {
	s *Store
}

const clientColumns = `id, client_id, secret_hash, name, redirect_uris, scopes, grant_types,
	access_token_validity, refresh_token_validity, auto_approve, status, deleted,
	created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c            domain.Client
		redirectURIs string
		scopes       string
		grantTypes   string
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.SecretHash, &c.Name,
		&redirectURIs, &scopes, &grantTypes,
		&c.AccessTokenValidity, &c.RefreshTokenValidity, &c.AutoApprove,
		&c.Status, &c.Deleted,
		&c.CreatedAt, &c.UpdatedAt, &c.Version,
	)
	if err != nil {
		return domain.Client{}, err
	}

	c.RedirectURIs = codec.DecodeList(redirectURIs)
	c.Scopes = codec.DecodeSet(scopes)
	c.GrantTypes = codec.DecodeSet(grantTypes)
	return c, nil
}

func (r *clientsRepo) getOne(ctx context.Context, query, arg string) *asyncx.Promise[domain.Client] {
	return submit(r.s, ctx, func(ctx context.Context) (domain.Client, error) {
		c, err := scanClient(r.s.db.QueryRowContext(ctx, query, arg))
		if err != nil {
			return domain.Client{}, mapNotFound(err)
		}
		return c, nil
	})
}

func (r *clientsRepo) GetByID(ctx context.Context, id string) *asyncx.Promise[domain.Client] {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
}

func (r *clientsRepo) GetActiveByID(ctx context.Context, id string) *asyncx.Promise[domain.Client] {
	return r.getOne(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ? AND status = 1 AND deleted = 0`, id)
}

func (r *clientsRepo) GetByClientID(ctx context.Context, clientID string) *asyncx.Promise[domain.Client] {
	return r.getOne(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = ? AND deleted = 0`, clientID)
}

func (r *clientsRepo) GetActiveByClientID(ctx context.Context, clientID string) *asyncx.Promise[domain.Client] {
	return r.getOne(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = ? AND status = 1 AND deleted = 0`,
		clientID)
}

func (r *clientsRepo) Save(ctx context.Context, c domain.Client) *asyncx.Promise[domain.Client] {
	return submit(r.s, ctx, func(ctx context.Context) (domain.Client, error) {
		now := time.Now().UTC()

		if c.ID == "" {
			c.ID = idx.New().String()
			c.Version = 1
			c.CreatedAt = now
			c.UpdatedAt = now

			_, err := r.s.db.ExecContext(ctx, `
				INSERT INTO clients (`+clientColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ID, c.ClientID, c.SecretHash, c.Name,
				codec.EncodeSet(c.RedirectURIs), codec.EncodeSet(c.Scopes), codec.EncodeSet(c.GrantTypes),
				c.AccessTokenValidity, c.RefreshTokenValidity, c.AutoApprove,
				c.Status, c.Deleted, c.CreatedAt, c.UpdatedAt, c.Version,
			)
			if err != nil {
				return domain.Client{}, mapConstraint(err)
			}
			return c, nil
		}

		res, err := r.s.db.ExecContext(ctx, `
			UPDATE clients SET
				client_id = ?, secret_hash = ?, name = ?,
				redirect_uris = ?, scopes = ?, grant_types = ?,
				access_token_validity = ?, refresh_token_validity = ?, auto_approve = ?,
				status = ?, deleted = ?, updated_at = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			c.ClientID, c.SecretHash, c.Name,
			codec.EncodeSet(c.RedirectURIs), codec.EncodeSet(c.Scopes), codec.EncodeSet(c.GrantTypes),
			c.AccessTokenValidity, c.RefreshTokenValidity, c.AutoApprove,
			c.Status, c.Deleted, now,
			c.ID, c.Version,
		)
		if err != nil {
			return domain.Client{}, mapConstraint(err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return domain.Client{}, err
		}
		if affected == 0 {
			var one int
			err := r.s.db.QueryRowContext(ctx, `SELECT 1 FROM clients WHERE id = ?`, c.ID).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Client{}, store.ErrNotFound
			}
			if err != nil {
				return domain.Client{}, err
			}
			return domain.Client{}, store.ErrVersionConflict
		}

		c.Version++
		c.UpdatedAt = now
		return c, nil
	})
}

func (r *clientsRepo) ListActive(ctx context.Context, page, size int64) *asyncx.Promise[[]domain.Client] {
	return submit(r.s, ctx, func(ctx context.Context) ([]domain.Client, error) {
		offset := (page - 1) * size
		rows, err := r.s.db.QueryContext(ctx, `
			SELECT `+clientColumns+` FROM clients
			WHERE deleted = 0
			ORDER BY created_at, id
			LIMIT ? OFFSET ?`, size, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var clients []domain.Client
		for rows.Next() {
			c, err := scanClient(rows)
			if err != nil {
				return nil, err
			}
			clients = append(clients, c)
		}
		return clients, rows.Err()
	})
}

func (r *clientsRepo) CountActive(ctx context.Context) *asyncx.Promise[int64] {
	return submit(r.s, ctx, func(ctx context.Context) (int64, error) {
		var count int64
		err := r.s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM clients WHERE deleted = 0`).Scan(&count)
		return count, err
	})
}
