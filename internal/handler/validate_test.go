package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "dana.levi@example.com", "x+tag@sub.domain.org"}
	for _, s := range valid {
		assert.True(t, validEmail(s), s)
	}
	invalid := []string{"", "plain", "a b@c.co", "a@b", "@b.co", "a@.b.", strings.Repeat("x", 250) + "@e.com"}
	for _, s := range invalid {
		assert.False(t, validEmail(s), s)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "dana@example.com", normalizeEmail("  Dana@Example.COM  "))
}

func TestValidName(t *testing.T) {
	assert.True(t, validName("Da"))
	assert.True(t, validName(strings.Repeat("x", 100)))
	assert.False(t, validName("D"))
	assert.False(t, validName("  D  "))
	assert.False(t, validName(strings.Repeat("x", 101)))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, validPassword("abcdef"))
	assert.False(t, validPassword("abcde"))
	assert.False(t, validPassword(strings.Repeat("x", 101)))
}

func TestPaging(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=10&offset=30", nil), httptest.NewRecorder())
	limit, offset := paging(c, 20, 100)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 30, offset)

	// defaults and clamping
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	limit, offset = paging(c, 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=9999&offset=-5", nil), httptest.NewRecorder())
	limit, offset = paging(c, 20, 100)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 0, offset)
}
