package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{"default localhost", nil, "http://localhost:5173", true},
		{"default loopback", nil, "http://127.0.0.1:5173", true},
		{"default rejects others", nil, "https://evil.example", false},
		{"configured origin", []string{"https://app.kanoon.ai"}, "https://app.kanoon.ai", true},
		{"configured replaces defaults", []string{"https://app.kanoon.ai"}, "http://localhost:5173", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(tc.origins))
			r.OPTIONS("/api/auth/login", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed && got != tc.origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, tc.origin)
			}
			if !tc.allowed && got != "" {
				t.Fatalf("origin %q should be rejected, got allow-origin=%q", tc.origin, got)
			}
		})
	}
}
