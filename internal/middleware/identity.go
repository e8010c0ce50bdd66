package middleware

// identity.go defines helpers shared across middleware files.  The
// service has no user accounts; the closest thing to an identity is the
// client-generated session id used to scope seat holds.  Clients send it
// in the X-Session-Id header on every request so the rate limiter can
// bucket per session even behind a shared NAT.

import (
	"github.com/labstack/echo/v4"
)

// SessionIDHeader carries the caller's opaque session identifier.
const SessionIDHeader = "X-Session-Id"

// sessionID extracts the caller's session id from the request header.
// It returns "anon" when the header is absent.
func sessionID(c echo.Context) string {
	if v := c.Request().Header.Get(SessionIDHeader); v != "" {
		return v
	}
	return "anon"
}
