package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	// Effectively zero refill: only the burst is spendable during the test.
	r := newLimitedRouter(NewRateLimiter(0.0001, 2, KeyByUserOrIP()))

	for i := 0; i < 2; i++ {
		if w := get(r, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := get(r, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}
}

func TestRateLimiter_KeysAreIsolated(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByUserOrIP())
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Upstream auth stamps the user identity used for bucketing.
	r.Use(func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-User-ID"))
	})
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	asUser := func(u string) *httptest.ResponseRecorder {
		return get(r, func(req *http.Request) { req.Header.Set("X-User-ID", u) })
	}

	if w := asUser("a"); w.Code != http.StatusOK {
		t.Fatalf("first a: %d", w.Code)
	}
	if w := asUser("a"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second a: %d", w.Code)
	}
	// A different user has a fresh bucket.
	if w := asUser("b"); w.Code != http.StatusOK {
		t.Fatalf("first b: %d", w.Code)
	}
}

func TestRateLimiter_BypassFlag(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByUserOrIP())
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxKeyRateBypass, true) })
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Flagged requests never consume tokens, so they always pass.
	for i := 0; i < 5; i++ {
		if w := get(r, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}
