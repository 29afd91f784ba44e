package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadTokenRoundTrip(t *testing.T) {
	tok, err := NewDownloadToken("doc-secret", 42, 15)
	require.NoError(t, err)

	assert.NoError(t, VerifyDownloadToken("doc-secret", tok, 42))
}

func TestDownloadTokenWrongDocument(t *testing.T) {
	tok, err := NewDownloadToken("doc-secret", 42, 15)
	require.NoError(t, err)

	assert.ErrorIs(t, VerifyDownloadToken("doc-secret", tok, 43), ErrBadDownloadToken)
}

func TestDownloadTokenWrongKey(t *testing.T) {
	tok, err := NewDownloadToken("doc-secret", 42, 15)
	require.NoError(t, err)

	assert.ErrorIs(t, VerifyDownloadToken("other-secret", tok, 42), ErrBadDownloadToken)
}

func TestDownloadTokenExpired(t *testing.T) {
	tok, err := NewDownloadToken("doc-secret", 42, -1)
	require.NoError(t, err)

	assert.ErrorIs(t, VerifyDownloadToken("doc-secret", tok, 42), ErrBadDownloadToken)
}

func TestDownloadTokenGarbage(t *testing.T) {
	assert.ErrorIs(t, VerifyDownloadToken("doc-secret", "not.a.jwt", 42), ErrBadDownloadToken)
	assert.ErrorIs(t, VerifyDownloadToken("doc-secret", "", 42), ErrBadDownloadToken)
}
