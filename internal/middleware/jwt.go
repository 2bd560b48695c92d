// Package middleware contains reusable HTTP middleware for the Echo
// server: JWT authentication, role gates, Redis response caching and a
// Redis token-bucket rate limiter.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token signed with the given secret
// and injects the authenticated user into the request context.  After
// this middleware runs, handlers can read c.Get("user_id") (uint64) and
// c.Get("role") (string).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			uid, ok := subjectID(claims["sub"])
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			role, _ := claims["role"].(string)

			c.Set("user_id", uid)
			c.Set("role", role)
			return next(c)
		}
	}
}

// subjectID coerces the "sub" claim into a uint64.  JSON numbers decode
// as float64, so both numeric and string encodings are accepted.
func subjectID(v interface{}) (uint64, bool) {
	switch s := v.(type) {
	case float64:
		if s < 0 {
			return 0, false
		}
		return uint64(s), true
	case string:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
