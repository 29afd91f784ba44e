// Package repository defines the data access layer over MySQL. Sentinel
// errors declared here are reused across repositories so handlers can map
// failures to HTTP statuses without string matching.
package repository

import "errors"

// ErrNotFound is returned when a lookup target does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert would violate the unique email
// index on users.
var ErrEmailExists = errors.New("email already exists")

// ErrSlugExists is returned when an insert or update would violate a
// unique slug index.
var ErrSlugExists = errors.New("slug already exists")

// ErrAlreadyBootstrapped is returned when the one-time first-admin
// bootstrap has already been performed.
var ErrAlreadyBootstrapped = errors.New("already bootstrapped")

// ErrExpiryInPast is returned when a session would be created with a
// non-future expiry.
var ErrExpiryInPast = errors.New("session expiry not in the future")

// ErrConflict is returned when a delete or update cannot proceed because
// of conflicting state. Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
