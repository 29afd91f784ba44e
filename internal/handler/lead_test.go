package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

func TestNewLeadEvent(t *testing.T) {
	l := model.Lead{
		Name:   "Dana Levi",
		Email:  "dana@example.com",
		Phone:  "050-0000000",
		Topic:  "labor",
		Source: "website",
	}
	ev := newLeadEvent(42, l)

	assert.Equal(t, uint64(42), ev.LeadID)
	assert.Equal(t, l.Name, ev.Name)
	assert.Equal(t, l.Email, ev.Email)
	assert.Equal(t, l.Phone, ev.Phone)
	assert.Equal(t, l.Topic, ev.Topic)
	assert.Equal(t, l.Source, ev.Source)

	ts, err := time.Parse(time.RFC3339, ev.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}
