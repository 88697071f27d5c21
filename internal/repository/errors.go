// Package repository implements store access over database/sql. Sentinel
// errors below let the service layer distinguish failure shapes without
// inspecting driver-specific errors; handlers never see these directly, the
// services translate them into typed HTTP failures.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateName is returned when a category or product name collides.
var ErrDuplicateName = errors.New("name already exists")

// ErrDuplicateSKU is returned when a variant SKU collides.
var ErrDuplicateSKU = errors.New("sku already exists")

// ErrTokenExpired is returned by refresh-token lookups whose row existed but
// had passed its expiry. The row is deleted as a side effect of the lookup;
// this is distinct from ErrNotFound so callers can tell a stale session from
// an unknown one.
var ErrTokenExpired = errors.New("refresh token expired")

// ErrInsufficientStock is returned when an outbound movement would drive a
// variant's stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")
