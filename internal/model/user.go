package model

import "time"

// User statuses. Deletion is logical: a removed account flips to inactive
// and the row is never physically deleted.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User represents a row in the `users` table joined with its role name.
// PasswordHash never leaves the repository/service layers; handlers build
// redacted projections for responses.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (stored lowercased)
	PasswordHash string    // users.password_hash (bcrypt)
	Status       string    // users.status: active | inactive
	RoleID       uint64    // users.role_id
	RoleName     string    // roles.name, filled by joined reads
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role is immutable reference data seeded once (admin, seller, client).
type Role struct {
	ID          uint64 // roles.id
	Name        string // roles.name
	Description string // roles.description
}
