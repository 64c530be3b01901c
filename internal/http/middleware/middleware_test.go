package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/platform/ctxutil"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/platform/redis"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyAccessToken(token string) (string, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return "", errors.New("Invalid or expired token.")
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.NewNop(), staticVerifier{"good": "user-1"})

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()))
	})

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, "missing or invalid token"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "missing or invalid token"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, "Invalid or expired token."},
		{"good token", "bearer good", http.StatusOK, "user-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

type fakeLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (redis.Decision, error) {
	if f.err != nil {
		return redis.Decision{}, f.err
	}
	f.hits[key]++
	remaining := f.limit - f.hits[key]
	if remaining < 0 {
		remaining = 0
	}
	return redis.Decision{Allowed: f.hits[key] <= f.limit, Remaining: remaining, ResetIn: 1500 * time.Millisecond}, nil
}

func (f *fakeLimiter) Limit() int { return f.limit }

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim := &fakeLimiter{limit: 2, hits: map[string]int{}}
	r := gin.New()
	r.Use(RateLimit(logger.NewNop(), lim))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(last, req)
		if i < 2 && last.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, last.Code)
		}
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status=%d", last.Code)
	}
	if got := last.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After=%q", got)
	}
	if got := last.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("X-RateLimit-Remaining=%q", got)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(logger.NewNop(), &fakeLimiter{err: errors.New("redis down")}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-42" || seen.TraceID == "" {
		t.Fatalf("trace data=%+v", seen)
	}
	if rec.Header().Get("X-Request-Id") != "req-42" || rec.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatalf("headers=%v", rec.Header())
	}
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", rec.Code)
	}
}
