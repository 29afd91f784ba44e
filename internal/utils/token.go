package utils // utils provides helpers for session token creation and hashing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SessionToken is the opaque bearer credential handed to the client in the
// session cookie. Raw is returned to the client exactly once; only its
// keyed hash (see HashSessionToken) is ever persisted.
type SessionToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewSessionToken generates a session token from 32 bytes (256 bits) of
// cryptographically secure random data, hex encoded, expiring ttlDays from
// now.
func NewSessionToken(ttlDays int) (SessionToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashSessionToken returns the hex HMAC-SHA256 digest of the raw token
// keyed by the session secret. Storing only the keyed hash means a leaked
// sessions table discloses nothing usable as a bearer credential, and
// rotating the secret invalidates every outstanding session at once.
func HashSessionToken(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
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
