// Package handlers defines the HTTP-layer error codes used across all API
// endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them
// programmatically, the message field is for humans. Generic codes mirror
// common HTTP status semantics; domain-specific codes cover business errors
// a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeQuotaExceeded    = "quota_exceeded"
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeInvalidTemplates = "invalid_templates"
	ErrCodeNotConnected     = "not_connected"
	ErrCodeTokenExpired     = "token_expired"
	ErrCodePublishFailed    = "publish_failed"
	ErrCodeSyncFailed       = "sync_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
