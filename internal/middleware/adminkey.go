package middleware

// adminkey.go guards the /v1/admin route group with a single shared
// secret.  The plaintext key travels in the X-Admin-Key header and is
// verified against a bcrypt hash from configuration, so the secret never
// sits in the environment in clear text.  There are no user accounts or
// roles; this is the whole authentication surface of the service.

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the shared admin secret.
const AdminKeyHeader = "X-Admin-Key"

// AdminKey returns middleware that rejects requests whose X-Admin-Key
// header does not match the configured bcrypt hash.  An empty hash
// disables the admin surface entirely (every request is rejected),
// which is the safe default for a misconfigured deployment.
func AdminKey(keyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(AdminKeyHeader)
			if keyHash == "" || key == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
