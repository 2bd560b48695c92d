// Package handler defines the HTTP handlers for the reservation API.
// Handlers bind and validate request DTOs, delegate to the store layer
// and translate sentinel errors into stable JSON error bodies.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's id placed in the context
// by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
