package utils // package utils provides helpers for token creation, verification and hashing

import (
	"crypto/rand"   // secure random generation for refresh tokens
	"crypto/sha256" // SHA-256 hashing of refresh tokens at rest
	"encoding/hex"  // hex encoding of random bytes and digests
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Claims is the identity encoded into an access token: everything a request
// needs to establish its principal without touching the store.
type Claims struct {
	UserID uint64
	Name   string
	Email  string
	Role   string
}

// AccessToken is a signed HS256 JWT along with its expiry. Access tokens are
// short-lived and carried in the Authorization header on protected routes.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque token used to obtain new access tokens.
// Raw goes back to the client; the database only ever sees its SHA-256 hash.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// ErrInvalidToken is returned by VerifyAccessToken for any token that cannot
// be fully trusted: bad signature, malformed payload, wrong algorithm or
// past expiry. Verification fails closed; there are no partial successes.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for the given claims with a
// TTL in minutes. Standard claims: sub, exp, iat; identity claims: name,
// email, role.
func NewAccessToken(secret string, cl Claims, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   cl.UserID,
		"name":  cl.Name,
		"email": cl.Email,
		"role":  cl.Role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks signature and expiry and returns the embedded
// claims. Any failure yields ErrInvalidToken: a tampered or stale token is
// never partially trusted.
func VerifyAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; an attacker must not
		// be able to pick the verification algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	cl := Claims{
		Name:  asString(mc["name"]),
		Email: asString(mc["email"]),
		Role:  asString(mc["role"]),
	}
	// JSON numbers decode as float64; older issuers encoded sub as a string.
	switch sub := mc["sub"].(type) {
	case float64:
		cl.UserID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrInvalidToken
		}
		cl.UserID = n
	default:
		return Claims{}, ErrInvalidToken
	}
	if cl.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return cl, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// NewRefreshToken returns a cryptographically random opaque token and its
// expiration. 64 random bytes hex encoded gives 512 bits of entropy, well
// past the point where guessing is a concern.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(64)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string. Storing only the hash keeps stolen database rows from being
// replayed as live sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
