package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRedactingLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	// Simulate the upstream RequestID middleware.
	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-1")
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-API-Key"}}))
	r.POST("/publications/:id/publish", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Credentials and identifiers in the query must never reach the log.
	q := "access_token=THR-secret-token&email=someone@example.com&id=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodPost, "/publications/abc/publish?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-API-Key", "shhh")
	req.Header.Set("X-Custom", "contact someone@example.com")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	if strings.Contains(logs, "THR-secret-token") || strings.Contains(logs, "someone@example.com") {
		t.Fatalf("sensitive values leaked: %s", logs)
	}
	if !strings.Contains(logs, "access_token=[REDACTED:token]") {
		t.Fatalf("token not redacted: %s", logs)
	}
	if !strings.Contains(logs, "[REDACTED:email]") || !strings.Contains(logs, "[REDACTED:id]") {
		t.Fatalf("email/id not redacted: %s", logs)
	}
	if !strings.Contains(logs, `"Authorization":"[REDACTED]"`) || !strings.Contains(logs, `"X-Api-Key":"[REDACTED]"`) {
		t.Fatalf("headers not masked: %s", logs)
	}
	// Route pattern, not the raw path with the id in it.
	if !strings.Contains(logs, `"path":"/publications/:id/publish"`) {
		t.Fatalf("path not the route pattern: %s", logs)
	}
	if !strings.Contains(logs, `"request_id":"rid-1"`) {
		t.Fatalf("request id missing: %s", logs)
	}
}

func TestRedactingLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/missing", "/boom"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) {
		t.Fatalf("4xx not logged at warn: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) {
		t.Fatalf("5xx not logged at error: %s", logs)
	}
}
