package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func runAdminKey(t *testing.T, keyHash, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/bookings", nil)
	if header != "" {
		req.Header.Set(AdminKeyHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	if err := AdminKey(keyHash)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func TestAdminKey_ValidKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	rec := runAdminKey(t, string(hash), "letmein")
	if rec.Code != http.StatusOK {
		t.Fatalf("valid key rejected: %d", rec.Code)
	}
}

func TestAdminKey_WrongKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	rec := runAdminKey(t, string(hash), "guess")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key accepted: %d", rec.Code)
	}
}

func TestAdminKey_MissingHeader(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	rec := runAdminKey(t, string(hash), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header accepted: %d", rec.Code)
	}
}

func TestAdminKey_EmptyHashRejectsEverything(t *testing.T) {
	rec := runAdminKey(t, "", "anything")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("empty hash should reject all requests, got %d", rec.Code)
	}
}
