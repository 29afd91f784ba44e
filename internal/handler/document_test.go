package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshetlaw/keshet-cms/internal/utils"
)

// Download links are signed with their own secret: a token minted under
// the download secret must not verify under the session secret, so
// rotating either one leaves the other's credentials intact.
func TestDownloadLinkSecretIsIndependent(t *testing.T) {
	cfg := testConfig()
	require.NotEqual(t, cfg.SessionSecret, cfg.DownloadSecret)

	tok, err := utils.NewDownloadToken(cfg.DownloadSecret, 7, cfg.DownloadTokenTTL)
	require.NoError(t, err)

	assert.NoError(t, utils.VerifyDownloadToken(cfg.DownloadSecret, tok, 7))
	assert.ErrorIs(t, utils.VerifyDownloadToken(cfg.SessionSecret, tok, 7), utils.ErrBadDownloadToken)
}
