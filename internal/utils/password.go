package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadPassword is returned by HashPassword for inputs bcrypt cannot
// process: empty strings and anything above bcrypt's 72-byte limit.
var ErrBadPassword = errors.New("password empty or too long")

// HashPassword returns the bcrypt hash of plain using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" || len(plain) > 72 {
		return "", ErrBadPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password. A
// mismatch is reported as false, never as an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
