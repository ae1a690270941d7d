// Package services defines the business logic for generation, scheduled
// posts, publishing, and metrics sync. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Generation and quota errors.
var (
	// ErrEmptyArticle is returned when a generation request carries no
	// article text.
	ErrEmptyArticle = errors.New("article is empty")

	// ErrArticleTooLong is returned when the article exceeds the configured
	// maximum length.
	ErrArticleTooLong = errors.New("article too long")

	// ErrNoTemplates is returned when a generation request names no
	// templates.
	ErrNoTemplates = errors.New("no template ids given")

	// ErrInvalidTemplate is returned when a template is created without a
	// name or prompt.
	ErrInvalidTemplate = errors.New("template name and prompt are required")

	// ErrInvalidTemplates indicates that at least one requested template does
	// not exist or does not belong to the caller. Checked strictly before any
	// quota state is touched.
	ErrInvalidTemplates = errors.New("invalid template ids")

	// ErrQuotaNotFound indicates that the caller has no quota row at all, a
	// provisioning defect that is fatal to the request.
	ErrQuotaNotFound = errors.New("usage quota not found")

	// ErrQuotaExceeded is returned when the monthly usage has reached the
	// limit. The generation result carries current usage and limit so the
	// caller can render a precise message.
	ErrQuotaExceeded = errors.New("monthly quota exceeded")

	// ErrRateLimited is returned when the per-user fixed request window is
	// full.
	ErrRateLimited = errors.New("too many requests in window")
)

// Scheduled post and publication errors.
var (
	// ErrPostNotFound indicates that the requested scheduled post does not
	// exist or is not accessible to the current user.
	ErrPostNotFound = errors.New("scheduled post not found")

	// ErrNoOutputs is returned when a batch create request carries no
	// outputs to persist.
	ErrNoOutputs = errors.New("no outputs given")

	// ErrPublicationNotFound indicates that the requested publication does
	// not exist or is not accessible to the current user.
	ErrPublicationNotFound = errors.New("publication not found")

	// ErrPlatformUnsupported is returned when a publication targets a
	// platform this deployment cannot publish to.
	ErrPlatformUnsupported = errors.New("platform not supported")

	// ErrNotConnected is returned when the user has no platform credential
	// on file.
	ErrNotConnected = errors.New("threads account not connected")

	// ErrTokenExpired is returned when the stored platform token is past its
	// expiry; the user must reconnect before publishing.
	ErrTokenExpired = errors.New("threads token expired, please reconnect")

	// ErrAlreadyPublished rejects a publish trigger against a publication in
	// the terminal published state.
	ErrAlreadyPublished = errors.New("publication already published")

	// ErrPublishInProgress rejects a publish trigger that lost the claim
	// race: another retry loop already owns the record.
	ErrPublishInProgress = errors.New("publish already in progress")

	// ErrNotPublished is the metrics-sync precondition failure for
	// publications that have not reached the published state.
	ErrNotPublished = errors.New("publication is not published yet")

	// ErrMissingPlatformPostID indicates a published record without a
	// platform post id; metrics cannot be fetched for it.
	ErrMissingPlatformPostID = errors.New("missing platform post id")
)
