package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadDownloadToken is returned when a download token is malformed,
// expired, signed with the wrong key, or names a different document.
var ErrBadDownloadToken = errors.New("invalid download token")

// NewDownloadToken builds and signs a short-lived HS256 JWT authorizing a
// single document download. The subject carries the document ID so a token
// minted for one document cannot fetch another.
func NewDownloadToken(secret string, documentID uint64, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(documentID, 10),
		"scope": "download",
		"exp":   now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyDownloadToken parses a download token and checks that it is valid,
// carries the download scope, and was minted for the given document.
func VerifyDownloadToken(secret, token string, documentID uint64) error {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadDownloadToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ErrBadDownloadToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ErrBadDownloadToken
	}
	if scope, _ := claims["scope"].(string); scope != "download" {
		return ErrBadDownloadToken
	}
	sub, _ := claims["sub"].(string)
	if sub != strconv.FormatUint(documentID, 10) {
		return ErrBadDownloadToken
	}
	return nil
}
