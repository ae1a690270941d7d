// Publication HTTP handlers.
//
// This file exposes REST endpoints for the publication lifecycle:
//   - PUT  /publications/{id}/hashtags      (replace hashtag list, any state)
//   - POST /publications/{id}/publish       (async trigger, returns 202)
//   - POST /publications/{id}/sync-metrics  (pull engagement counters)
//
// The publish endpoint is fire-and-forget: 202 means the retry loop is
// running; clients poll the publication (via the posts list) for the outcome.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wyhuang/go-repurpose-backend/internal/http/middleware"
	"github.com/wyhuang/go-repurpose-backend/internal/services"
)

//
// DTOs
//

// UpdateHashtagsRequest is the JSON payload for replacing a publication's
// hashtags. Tags are normalized server-side to a leading '#'.
type UpdateHashtagsRequest struct {
	Hashtags []string `json:"hashtags" binding:"required" example:"ai,#golang"`
}

// PublishAccepted is the 202 body of the publish trigger.
type PublishAccepted struct {
	PublicationID string `json:"publication_id"`
	Status        string `json:"status" example:"publishing"`
}

//
// Handlers
//

// UpdateHashtags godoc
// @ID          updateHashtags
// @Summary     Replace a publication's hashtags
// @Description Normalizes each tag to a leading '#' and replaces the stored list. Allowed in any lifecycle state.
// @Tags        Publications
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       id         path    string  true  "Publication ID (UUID)" format(uuid)
// @Param       body       body    handlers.UpdateHashtagsRequest  true  "New hashtag list"
//
// @Success     200  {object} domain.Publication
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Publication not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /publications/{id}/hashtags [put]
func (h *Handlers) UpdateHashtags(c *gin.Context) {
	pubID := c.Param("id")
	if _, err := uuid.Parse(pubID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "publication id must be a UUID")
		return
	}

	var req UpdateHashtagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	pub, err := h.postSvc.UpdateHashtags(c.Request.Context(), userID(c), pubID, req.Hashtags)
	if err != nil {
		if errors.Is(err, services.ErrPublicationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "publication not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, pub)
}

// Publish godoc
// @ID          publishPublication
// @Summary     Trigger publishing to the platform
// @Description Validates preconditions, claims the publication, and starts the background publish loop. Returns 202 immediately; the outcome lands in the publication record.
// @Tags        Publications
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)" example(user123)
// @Param       Idempotency-Key  header  string  false "Deduplicates retried triggers"
// @Param       id               path    string  true  "Publication ID (UUID)" format(uuid)
//
// @Success     202  {object} handlers.PublishAccepted
// @Failure     400  {object} handlers.ErrorResponse "Precondition failed (platform, credential, token)"
// @Failure     404  {object} handlers.ErrorResponse "Publication not found"
// @Failure     409  {object} handlers.ErrorResponse "Already published or in flight"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /publications/{id}/publish [post]
func (h *Handlers) Publish(c *gin.Context) {
	pubID := c.Param("id")
	if _, err := uuid.Parse(pubID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "publication id must be a UUID")
		return
	}

	// A replayed trigger already completed; acknowledge without starting a
	// second loop.
	if middleware.IsReplay(c) {
		key, _ := middleware.GetIdempotencyKey(c)
		log.Info().
			Str("publication_id", pubID).
			Str("idempotency_key", key).
			Msg("publish trigger replayed")
		accepted(c, PublishAccepted{PublicationID: pubID, Status: "published"})
		return
	}

	err := h.publishSvc.Publish(c.Request.Context(), userID(c), pubID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPublicationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "publication not found")
		case errors.Is(err, services.ErrPlatformUnsupported):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrNotConnected):
			fail(c, http.StatusBadRequest, ErrCodeNotConnected, err.Error())
		case errors.Is(err, services.ErrTokenExpired):
			fail(c, http.StatusBadRequest, ErrCodeTokenExpired, err.Error())
		case errors.Is(err, services.ErrAlreadyPublished),
			errors.Is(err, services.ErrPublishInProgress):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodePublishFailed, err.Error())
		}
		return
	}

	accepted(c, PublishAccepted{PublicationID: pubID, Status: "publishing"})
}

// SyncMetrics godoc
// @ID          syncMetrics
// @Summary     Sync engagement metrics from the platform
// @Description Fetches likes, comments, shares and views for a published publication and overwrites the stored counters. Idempotent; repeat at will.
// @Tags        Publications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       id         path    string  true  "Publication ID (UUID)" format(uuid)
//
// @Success     200  {object} domain.Publication
// @Failure     400  {object} handlers.ErrorResponse "No platform credential"
// @Failure     404  {object} handlers.ErrorResponse "Publication not found"
// @Failure     409  {object} handlers.ErrorResponse "Not published yet"
// @Failure     500  {object} handlers.ErrorResponse "Sync failed"
// @Router      /publications/{id}/sync-metrics [post]
func (h *Handlers) SyncMetrics(c *gin.Context) {
	pubID := c.Param("id")
	if _, err := uuid.Parse(pubID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "publication id must be a UUID")
		return
	}

	pub, err := h.metricsSvc.Sync(c.Request.Context(), userID(c), pubID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPublicationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "publication not found")
		case errors.Is(err, services.ErrNotPublished),
			errors.Is(err, services.ErrMissingPlatformPostID):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		case errors.Is(err, services.ErrNotConnected):
			fail(c, http.StatusBadRequest, ErrCodeNotConnected, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSyncFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, pub)
}
