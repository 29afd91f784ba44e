package model

import "time"

// Role is the closed set of roles recognized by the application. Role
// checks are flat allow-list membership; there is no hierarchy, so an
// endpoint that admits editors must list RoleEditor explicitly.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// ParseRole maps a stored string onto a Role. The boolean is false for
// anything outside the three known variants.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Status is the account status stored in users.status.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// ParseStatus maps a stored string onto a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusBlocked:
		return Status(s), true
	}
	return "", false
}

// User mirrors the `users` table. PasswordHash never leaves the
// repository/handler boundary; response types carry SessionUser instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lowercased email used as the login handle.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of admin/editor/user.
//  Status       – active or blocked.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	Status       Status    // users.status
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// SessionUser is the identity snapshot handed to handlers once a session
// has been resolved. It deliberately excludes the password hash.
type SessionUser struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
}

// Snapshot strips a full User down to the fields safe to expose.
func (u User) Snapshot() SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status}
}
