package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newIdemRouter(lookup IdempotencyLookup) (*gin.Engine, *bool) {
	gin.SetMode(gin.TestMode)
	replay := new(bool)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/publications/:id/publish", func(c *gin.Context) {
		*replay = IsReplay(c)
		c.Status(http.StatusAccepted)
	})
	return r, replay
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/publications/pub-1/publish", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_NoHeaderIsNoop(t *testing.T) {
	r, replay := newIdemRouter(func(context.Context, string, string, string, time.Time) (bool, error) {
		t.Fatal("lookup called without a key")
		return false, nil
	})
	if w := postWithKey(r, ""); w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	if *replay {
		t.Fatal("replay flagged without a key")
	}
}

func TestIdempotency_MalformedKeyRejected(t *testing.T) {
	r, _ := newIdemRouter(nil)
	for _, key := range []string{"bad key", "key\n", "käy"} {
		if w := postWithKey(r, key); w.Code != http.StatusBadRequest {
			t.Errorf("key %q: status = %d", key, w.Code)
		}
	}
}

func TestIdempotency_ReplayFlagged(t *testing.T) {
	var gotUser, gotPub, gotKey string
	r, replay := newIdemRouter(func(_ context.Context, userID, pubID, key string, _ time.Time) (bool, error) {
		gotUser, gotPub, gotKey = userID, pubID, key
		return true, nil
	})

	if w := postWithKey(r, "retry-1"); w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	if !*replay {
		t.Fatal("replay not flagged")
	}
	if gotUser != "demo-user" || gotPub != "pub-1" || gotKey != "retry-1" {
		t.Fatalf("lookup args = %q/%q/%q", gotUser, gotPub, gotKey)
	}
}

func TestIdempotency_FreshKeyPassesThrough(t *testing.T) {
	r, replay := newIdemRouter(func(context.Context, string, string, string, time.Time) (bool, error) {
		return false, nil
	})
	if w := postWithKey(r, "fresh-1"); w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	if *replay {
		t.Fatal("fresh key flagged as replay")
	}
}
