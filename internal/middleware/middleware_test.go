package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/forwarding-portal/internal/config"
	"github.com/iliyamo/forwarding-portal/internal/utils"
)

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/api/contacts", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"subject": c.Get("admin_subject")})
	}, mw)
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin_OpenPolicy(t *testing.T) {
	rec := serve(t, RequireAdmin(OpenPolicy{}), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_JWTRolePolicy(t *testing.T) {
	policy := NewJWTRolePolicy("secret", "ADMIN", "STAFF")

	rec := serve(t, RequireAdmin(policy), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"authentication required"}`, rec.Body.String())

	rec = serve(t, RequireAdmin(policy), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	customer, err := utils.NewAdminToken("secret", "ana@example.com", "CUSTOMER", time.Minute)
	require.NoError(t, err)
	rec = serve(t, RequireAdmin(policy), "Bearer "+customer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	staff, err := utils.NewAdminToken("secret", "ops@example.com", "STAFF", time.Minute)
	require.NoError(t, err)
	rec = serve(t, RequireAdmin(policy), "Bearer "+staff.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subject":"ops@example.com"}`, rec.Body.String())
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/auth/login")

	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /api/auth/login", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
	assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:route:POST /api/auth/login", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
}

func TestTokenBucket_PassThroughWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop())
	rec := serve(t, mw, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestResponseCache_DisabledPassesThrough(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Prefix: "cache"}, nil)
	rec := serve(t, rc.Middleware("track", func(echo.Context) string { return "x" }), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Invalidate(context.Background(), "x", "track"))
}

func TestResponseCache_Key(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Prefix: "cache"}, nil)
	a := rc.Key("track", "#EV20261017-007")
	assert.Regexp(t, `^cache:track:[0-9a-f]{40}$`, a)
	assert.NotEqual(t, a, rc.Key("progress", "#EV20261017-007"))
	assert.Equal(t, a, rc.Key("track", "#EV20261017-007"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(6), cw.size)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/boom", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "x"})
	})
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for _, p := range []string{"/ok", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "/boom", entries[1].ContextMap()["uri"])
}

func TestTokenBucket_BlocksWhenEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            5 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e := echo.New()
	e.POST("/api/contact", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		NewTokenBucket(cfg, rdb, zap.NewNop()))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))
	assert.True(t, mr.Exists("rl:ip:203.0.113.9"))

	second := send()
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	retry, err := strconv.Atoi(second.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retry, 0)
	assert.LessOrEqual(t, retry, 60)

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["message"])
	assert.Equal(t, float64(retry), body["retryAfter"])
}

func TestTokenBucket_RedisDownPassesThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := echo.New()
	e.GET("/api/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1, Prefix: "rl"}, rdb, zap.NewNop()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
