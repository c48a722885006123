package middleware

// identity.go defines helpers shared across middleware files.  The JWT
// middleware stores the verified username in the Echo context; the
// cache and rate-limit key builders read it back here so per-user
// responses are never served to another user.

import "github.com/labstack/echo/v4"

// currentUsername returns the authenticated username from context, or
// "anon" when the request carries no verified identity.
func currentUsername(c echo.Context) string {
	if v := c.Get("username"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
