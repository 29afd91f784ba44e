package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "editor", "user"} {
		r, ok := ParseRole(s)
		assert.True(t, ok)
		assert.Equal(t, Role(s), r)
	}
	for _, s := range []string{"", "Admin", "superuser", "ADMIN"} {
		_, ok := ParseRole(s)
		assert.False(t, ok, s)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"active", "blocked"} {
		st, ok := ParseStatus(s)
		assert.True(t, ok)
		assert.Equal(t, Status(s), st)
	}
	for _, s := range []string{"", "Active", "disabled"} {
		_, ok := ParseStatus(s)
		assert.False(t, ok, s)
	}
}

func TestSnapshotOmitsPasswordHash(t *testing.T) {
	u := User{ID: 4, Name: "Dana", Email: "dana@example.com", PasswordHash: "$2a$hash", Role: RoleEditor, Status: StatusActive}
	s := u.Snapshot()
	assert.Equal(t, SessionUser{ID: 4, Name: "Dana", Email: "dana@example.com", Role: RoleEditor, Status: StatusActive}, s)
}
