// Scheduled post HTTP handlers.
//
// This file exposes REST endpoints for scheduled posts:
//   - POST   /posts       (batch create from generation outputs)
//   - GET    /posts       (list, paginated, publications preloaded)
//   - DELETE /posts/{id}  (delete, cascades to publications)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/services"
	"github.com/wyhuang/go-repurpose-backend/internal/utils"
)

//
// DTOs
//

// CreatePostsRequest is the JSON payload for scheduling a batch of outputs.
type CreatePostsRequest struct {
	// Outputs are the generated texts to schedule, one post each.
	Outputs []services.SaveOutput `json:"outputs" binding:"required,min=1"`
}

// CreatePostsResponse reports the created posts and how many outputs were
// skipped (blank content or storage failure).
type CreatePostsResponse struct {
	Posts   []domain.ScheduledPost `json:"posts"`
	Skipped int                    `json:"skipped"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListPostsResponse wraps a page of posts and pagination information.
type ListPostsResponse struct {
	Posts      []domain.ScheduledPost `json:"posts"`
	Pagination Pagination             `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreatePosts godoc
// @ID          createPosts
// @Summary     Schedule generated outputs as posts
// @Description Persists each output as a scheduled post with a pending publication. An output may name its target platform; unsupported platforms reject the batch. Items are otherwise independent; failures are skipped and reported in the count.
// @Tags        Posts
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       body       body    handlers.CreatePostsRequest  true  "Outputs to schedule"
//
// @Success     201  {object}  handlers.CreatePostsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [post]
func (h *Handlers) CreatePosts(c *gin.Context) {
	var req CreatePostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	posts, skipped, err := h.postSvc.CreateBatch(c.Request.Context(), userID(c), req.Outputs)
	if err != nil {
		if errors.Is(err, services.ErrPlatformUnsupported) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, CreatePostsResponse{Posts: posts, Skipped: skipped})
}

// ListPosts godoc
// @ID          listPosts
// @Summary     List scheduled posts (paginated)
// @Description Returns a page of the user's scheduled posts, newest first, with their publications preloaded.
// @Tags        Posts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       page       query   int     false "Page number"    minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListPostsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	page, pageSize := clampPagination(c)

	pg, err := h.postSvc.List(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((pg.Total + int64(pg.PageSize) - 1) / int64(pg.PageSize))
	ok(c, http.StatusOK, ListPostsResponse{
		Posts: pg.Posts,
		Pagination: Pagination{
			Page:       pg.Page,
			PageSize:   pg.PageSize,
			Total:      pg.Total,
			TotalPages: totalPages,
			HasNext:    pg.Page < totalPages,
		},
	})
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a scheduled post
// @Description Removes a post owned by the current user. Its publications are removed with it, whatever state they are in.
// @Tags        Posts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       id         path    string  true  "Post ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "post id must be a UUID")
		return
	}

	if err := h.postSvc.Delete(c.Request.Context(), userID(c), postID); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	noContent(c)
}
