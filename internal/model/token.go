package model

import "time"

// RefreshToken models a row in the `refresh_tokens` table. The raw token is
// never stored; only its SHA-256 hex digest. The unique key on UserID means
// each user holds at most one live token and a new login overwrites it.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	TokenHash string    // refresh_tokens.token_hash
	ExpiresAt time.Time // refresh_tokens.expires_at
	CreatedAt time.Time // refresh_tokens.created_at
}

// RefreshSession is a refresh token eagerly joined with its owning user and
// role, so a single lookup gives the session manager everything it needs to
// mint a new access token.
type RefreshSession struct {
	Token RefreshToken
	User  User
}
