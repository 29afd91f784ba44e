package handler // handler implements the HTTP endpoints of the API

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// emailRx matches the permissive shape "something@something.tld" used for
// login handles; real validation happens when mail is actually sent.
var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(s string) bool { return len(s) <= 255 && emailRx.MatchString(s) }

// normalizeEmail lowercases and trims an email so lookups and the unique
// index agree on a canonical form.
func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func validName(s string) bool {
	n := len(strings.TrimSpace(s))
	return n >= 2 && n <= 100
}

func validPassword(s string) bool { return len(s) >= 6 && len(s) <= 100 }

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// paging reads limit/offset query parameters with sane bounds.
func paging(c echo.Context, defLimit, maxLimit int) (limit, offset int) {
	limit = defLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
