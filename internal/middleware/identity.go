package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string for use
// in rate-limit keys, or "anon" for unauthenticated requests.
func currentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(uint64); ok {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
