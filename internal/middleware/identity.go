package middleware

// identity.go defines helpers shared across middleware and handlers for
// reading the identity JWTAuth stored in the Echo context.

import "github.com/labstack/echo/v4"

// Username returns the authenticated username, or "" and false when the
// request did not pass through JWTAuth.
func Username(c echo.Context) (string, bool) {
	v, ok := c.Get(ContextKeyUsername).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
