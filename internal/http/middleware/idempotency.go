// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for the asynchronous publish
// trigger. Publishing is fire-and-forget and clients retry on timeouts, so a
// retried POST /publications/:id/publish must not spin up a second attempt
// sequence. The middleware validates an Idempotency-Key header, and when the
// supplied lookup reports that the publication already reached a terminal
// published state, flags the request as a replay so handlers can short-circuit
// and the rate limiter can skip it.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for unsafe operations. The value should be stable per
// semantic operation so retries deduplicate safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: prior completed trigger exists
	ctxKeyRateBypass = "rate.bypass" // bool: skip edge rate limiting
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context. Handlers should prefer this over reading the header directly.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether this request replays a previously completed
// publish trigger. Handlers may then return the persisted outcome instead of
// starting new work.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation. TTL enforcement belongs in
// the lookup, not here.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative
	// RFC7230-like token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a completed result already exists for
// (userID, publicationID, key) at the given time. Errors mean lookup failure
// only and must not block normal processing.
type IdempotencyLookup func(ctx context.Context, userID, publicationID, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header (when present),
// stashes it in the context, and consults the lookup for a prior completed
// trigger. On replay it sets the replay and rate-bypass flags; on a malformed
// key it responds 400. Absent headers make it a no-op.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			uid := userIDFromCtx(c)
			pubID := c.Param("id")
			now := time.Now().UTC()

			if exists, _ := lookup(c.Request.Context(), uid, pubID, key, now); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}

// userIDFromCtx extracts the user identifier set by upstream auth middleware,
// falling back to the development identity.
func userIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "demo-user"
}
