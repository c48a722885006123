package handler // handler defines the HTTP handlers for the reservation API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUsername extracts the authenticated username placed in the context
// by the JWT middleware.  Every ledger write and derived-state read
// threads this value explicitly; handlers never fall back to an ambient
// default actor.
func getUsername(c echo.Context) (string, error) {
	if v, ok := c.Get("username").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("missing username in context")
}

// getUserID extracts the numeric user id from the JWT subject claim.
// JSON decoding of claims yields float64, so several representations
// are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
