package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// The expiry guard must fire before any statement reaches the pool, so a
// repo with no DB handle is enough to exercise it.
func TestSessionCreateRejectsNonFutureExpiry(t *testing.T) {
	r := &SessionRepo{}
	for _, exp := range []time.Time{
		{},
		time.Now().UTC().Add(-time.Hour),
		time.Now().UTC().Add(-time.Nanosecond),
		time.Now().UTC(),
	} {
		err := r.Create(context.Background(), 1, "some-hash", exp, model.SessionMeta{})
		assert.ErrorIs(t, err, ErrExpiryInPast, "expiry %v", exp)
	}
}
