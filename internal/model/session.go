package model

import "time"

// Session models an entry in the `sessions` table. The raw bearer token is
// never stored; only its keyed hash. A session is valid while now is
// strictly before ExpiresAt, and many sessions may coexist per user
// (one per device/browser).
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – HMAC-SHA256 hex digest of the raw token.
//  ExpiresAt – absolute expiry timestamp (UTC).
//  UserAgent – client user agent recorded at login, for audit.
//  IP        – client source address recorded at login, for audit.
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	UserAgent string    // sessions.user_agent (may be empty)
	IP        string    // sessions.ip (may be empty)
	CreatedAt time.Time // sessions.created_at
}

// SessionMeta carries the optional client metadata captured at login.
type SessionMeta struct {
	UserAgent string
	IP        string
}
