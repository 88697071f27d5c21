package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/suseche/inventory-api/internal/model"
)

// TokenRepo persists refresh tokens, one live row per user. Rows hold only
// the SHA-256 digest of the opaque value handed to the client.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Upsert stores a refresh token hash keyed by user id. The unique key on
// user_id turns the insert into a replace, which implicitly invalidates any
// previously issued token for that user. Two concurrent logins resolve via
// last-writer-wins, which satisfies "at most one live token per user".
func (r *TokenRepo) Upsert(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE token_hash=VALUES(token_hash), expires_at=VALUES(expires_at), created_at=CURRENT_TIMESTAMP`,
		userID, tokenHash, expiresAt)
	return err
}

// FindByHash looks up a refresh token by digest, eagerly joined with the
// owning user and role. Expiry is checked lazily here: a stale row is
// deleted as a side effect and reported as ErrTokenExpired, distinct from
// ErrNotFound. There is no background sweeper.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	var s model.RefreshSession
	err := r.DB.QueryRowContext(ctx,
		`SELECT t.id, t.user_id, t.token_hash, t.expires_at, t.created_at,
		        u.id, u.name, u.email, u.password_hash, u.status, u.role_id, r.name, u.created_at, u.updated_at
		 FROM refresh_tokens t
		 JOIN users u ON u.id = t.user_id
		 JOIN roles r ON r.id = u.role_id
		 WHERE t.token_hash=? LIMIT 1`,
		tokenHash).Scan(
		&s.Token.ID, &s.Token.UserID, &s.Token.TokenHash, &s.Token.ExpiresAt, &s.Token.CreatedAt,
		&s.User.ID, &s.User.Name, &s.User.Email, &s.User.PasswordHash, &s.User.Status,
		&s.User.RoleID, &s.User.RoleName, &s.User.CreatedAt, &s.User.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshSession{}, ErrNotFound
	}
	if err != nil {
		return model.RefreshSession{}, err
	}
	if time.Now().UTC().After(s.Token.ExpiresAt) {
		// Lazy reclaim: the expired row dies on first read.
		_, _ = r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token_hash=?", tokenHash)
		return model.RefreshSession{}, ErrTokenExpired
	}
	return s, nil
}

// DeleteByHash removes a refresh token row. ErrNotFound when nothing
// matched, so a second logout with the same token reports the truth.
func (r *TokenRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token_hash=?", tokenHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
