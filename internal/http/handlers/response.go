// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope with stable machine-readable codes,
// plus small helpers so success and failure responses keep one shape across
// handlers.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error formatting and logs 5xx responses with the
//     request-scoped logger.
//   - `ok()`, `accepted()` and `noContent()` write success responses in a
//     consistent shape.
//
// Example error response:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "quota_exceeded",
//	  "message": "monthly quota exceeded",
//	  "usage": 50,
//	  "limit": 50
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyhuang/go-repurpose-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// RequestID correlates server logs with client-side errors. Code is a stable
// machine-readable string (see errors.go). Usage and Limit are populated only
// on quota errors so clients can render the exact counts.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"quota_exceeded"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"monthly quota exceeded"`
	// Current monthly usage; set on quota errors only
	Usage *int `json:"usage,omitempty" example:"50"`
	// Monthly limit; set on quota errors only
	Limit *int `json:"limit,omitempty" example:"50"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, ErrorResponse{Code: code, Message: msg})
}

// failWith is fail with a caller-built envelope, for errors that carry extra
// fields (quota usage/limit). RequestID is filled in here.
func failWith(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", resp.Code).
			Str("message", resp.Message).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// accepted writes an HTTP 202 with a small status body, used by the
// asynchronous publish trigger.
func accepted(c *gin.Context, body any) {
	c.JSON(http.StatusAccepted, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
