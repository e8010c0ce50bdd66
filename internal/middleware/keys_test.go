package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking/internal/config"
)

func rateCtx(sessionHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/seats/hold", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	if sessionHeader != "" {
		req.Header.Set(SessionIDHeader, sessionHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/seats/hold")
	return c
}

func TestBuildRateKey_DefaultStrategy(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_session_route"}
	key := buildRateKey(cfg, rateCtx("sess-1"))
	want := "rl:ip:10.0.0.5:session:sess-1:route:POST /v1/seats/hold"
	if key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}
}

func TestBuildRateKey_AnonSession(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "session"}
	key := buildRateKey(cfg, rateCtx(""))
	if key != "rl:session:anon" {
		t.Fatalf("key = %q, want rl:session:anon", key)
	}
}

func TestBuildRateKey_SessionsAreIsolated(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_session"}
	a := buildRateKey(cfg, rateCtx("sess-a"))
	b := buildRateKey(cfg, rateCtx("sess-b"))
	if a == b {
		t.Fatalf("different sessions behind the same IP must not share a bucket: %q", a)
	}
}

func TestCacheKeyFrom_StablePerRouteAndQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	mk := func(target, path string) string {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return cacheKeyFrom(cfg, c)
	}

	k1 := mk("/v1/movies?page=1", "/v1/movies")
	k2 := mk("/v1/movies?page=1", "/v1/movies")
	k3 := mk("/v1/movies?page=2", "/v1/movies")

	if k1 != k2 {
		t.Fatalf("same route and query produced different keys: %q vs %q", k1, k2)
	}
	if k1 == k3 {
		t.Fatalf("different queries must not share a key: %q", k1)
	}
}

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatalf("decode rejected its own encoding")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("header lost in round trip: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body lost in round trip: %q", gotBody)
	}
}

func TestDecodePayload_Garbage(t *testing.T) {
	if _, _, _, ok := decodePayload([]byte("short")); ok {
		t.Fatalf("truncated payload should be rejected")
	}
	if _, _, _, ok := decodePayload([]byte{0, 0, 0, 200, 255, 255, 255, 255}); ok {
		t.Fatalf("oversized header length should be rejected")
	}
}
