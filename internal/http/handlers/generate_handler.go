// Generation HTTP handlers.
//
// This file exposes the REST endpoints for the generation orchestrator and
// its read surfaces:
//   - POST /generate  (fan an article across templates on one engine)
//   - GET  /history   (paginated generation records)
//   - GET  /quota     (monthly allowance status)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate service outcomes (including sentinel errors) into
// HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyhuang/go-repurpose-backend/internal/domain"
	"github.com/wyhuang/go-repurpose-backend/internal/generation"
	"github.com/wyhuang/go-repurpose-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// GenerateService defines the generation batch operation consumed by HTTP
// handlers. Implementations should be safe for concurrent use and must honor
// the provided context.
type GenerateService interface {
	// Generate runs article × templateIDs on the named engine under the
	// caller's quota and rate gate.
	Generate(ctx context.Context, userID, article string, templateIDs []string, engine string) (*services.GenerateResult, error)
	// History returns a page of the caller's past generation batches.
	History(ctx context.Context, userID string, page, pageSize int) (*services.HistoryPage, error)
}

// TemplatesService defines rewrite-template management.
type TemplatesService interface {
	// Create stores a new rewrite template for the user.
	Create(ctx context.Context, userID, name, prompt string) (*domain.Template, error)
	// List returns the user's templates, newest first.
	List(ctx context.Context, userID string) ([]domain.Template, error)
}

// QuotaStatusService exposes the read side of the monthly quota.
type QuotaStatusService interface {
	// Status reports current month, usage, limit, and remaining allowance.
	Status(ctx context.Context, userID string, now time.Time) (*services.QuotaStatus, error)
}

// PostsService defines scheduled-post lifecycle operations consumed by HTTP
// handlers.
type PostsService interface {
	// CreateBatch persists outputs as scheduled posts with pending
	// publications; returns created posts and the skipped count.
	CreateBatch(ctx context.Context, userID string, outputs []services.SaveOutput) ([]domain.ScheduledPost, int, error)
	// List returns a page of the user's posts, publications preloaded.
	List(ctx context.Context, userID string, page, pageSize int) (*services.PostPage, error)
	// Delete removes a post and cascades to its publications.
	Delete(ctx context.Context, userID, postID string) error
	// UpdateHashtags replaces a publication's hashtag list.
	UpdateHashtags(ctx context.Context, userID, publicationID string, tags []string) (*domain.Publication, error)
}

// PublishService defines the asynchronous publish trigger.
type PublishService interface {
	// Publish claims the publication and starts the background retry loop.
	Publish(ctx context.Context, userID, publicationID string) error
}

// MetricsSyncService defines the on-demand engagement metrics sync.
type MetricsSyncService interface {
	// Sync fetches platform metrics and overwrites the stored counters.
	Sync(ctx context.Context, userID, publicationID string) (*domain.Publication, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for generation, scheduled posts,
// publications, and metrics sync. It depends on abstract service interfaces
// to keep transport concerns separate from business logic.
type Handlers struct {
	genSvc     GenerateService
	tplSvc     TemplatesService
	quotaSvc   QuotaStatusService
	postSvc    PostsService
	publishSvc PublishService
	metricsSvc MetricsSyncService
}

// New constructs a Handlers instance bound to the given services.
func New(genSvc GenerateService, tplSvc TemplatesService, quotaSvc QuotaStatusService, postSvc PostsService, publishSvc PublishService, metricsSvc MetricsSyncService) *Handlers {
	return &Handlers{
		genSvc:     genSvc,
		tplSvc:     tplSvc,
		quotaSvc:   quotaSvc,
		postSvc:    postSvc,
		publishSvc: publishSvc,
		metricsSvc: metricsSvc,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// GenerateRequest is the JSON payload for a generation batch.
type GenerateRequest struct {
	// Article is the source text to repurpose.
	Article string `json:"article" binding:"required" example:"Today we shipped..."`
	// TemplateIDs selects the rewrite templates; each must belong to the caller.
	TemplateIDs []string `json:"template_ids" binding:"required,min=1" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Engine selects the text engine; defaults to "gemini" when empty.
	Engine string `json:"engine" example:"gemini"`
}

//
// Handlers
//

// Generate godoc
// @ID          generate
// @Summary     Repurpose an article across templates
// @Description Runs the article through every selected template on the chosen engine. Per-template failures are isolated into error-status outputs; the batch succeeds with whatever completed.
// @Tags        Generation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       body       body    handlers.GenerateRequest  true  "Generation payload"
//
// @Success     200  {object}  services.GenerateResult
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload or engine"
// @Failure     403  {object}  handlers.ErrorResponse  "Invalid template ids"
// @Failure     429  {object}  handlers.ErrorResponse  "Quota or rate window exhausted"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /generate [post]
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	engine := strings.TrimSpace(req.Engine)
	if engine == "" {
		engine = generation.EngineGemini
	}

	res, err := h.genSvc.Generate(c.Request.Context(), userID(c), req.Article, req.TemplateIDs, engine)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyArticle),
			errors.Is(err, services.ErrArticleTooLong),
			errors.Is(err, services.ErrNoTemplates),
			errors.Is(err, generation.ErrUnknownEngine),
			errors.Is(err, generation.ErrEngineNotConfigured):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidTemplates):
			fail(c, http.StatusForbidden, ErrCodeInvalidTemplates, "one or more template ids are invalid")
		case errors.Is(err, services.ErrQuotaNotFound):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "no usage quota provisioned")
		case errors.Is(err, services.ErrRateLimited):
			c.Header("Retry-After", "60")
			fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "too many generation requests, slow down")
		case errors.Is(err, services.ErrQuotaExceeded):
			usage, limit := 0, 0
			if res != nil {
				usage, limit = res.Usage, res.Limit
			}
			failWith(c, http.StatusTooManyRequests, ErrorResponse{
				Code:    ErrCodeQuotaExceeded,
				Message: "monthly quota exceeded",
				Usage:   &usage,
				Limit:   &limit,
			})
		default:
			fail(c, http.StatusInternalServerError, ErrCodeGenerationFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, res)
}

// ListHistoryResponse wraps a page of generation history records.
type ListHistoryResponse struct {
	Records    []domain.GenerationRecord `json:"records"`
	Pagination Pagination                `json:"pagination"`
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List generation history (paginated)
// @Description Returns past generation batches with their per-template outputs, newest first.
// @Tags        Generation
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       page       query   int     false "Page number"    minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListHistoryResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	page, pageSize := clampPagination(c)

	pg, err := h.genSvc.History(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((pg.Total + int64(pg.PageSize) - 1) / int64(pg.PageSize))
	ok(c, http.StatusOK, ListHistoryResponse{
		Records: pg.Records,
		Pagination: Pagination{
			Page:       pg.Page,
			PageSize:   pg.PageSize,
			Total:      pg.Total,
			TotalPages: totalPages,
			HasNext:    pg.Page < totalPages,
		},
	})
}

// GetQuota godoc
// @ID          getQuota
// @Summary     Show the current month's quota standing
// @Description Reports usage, limit, and remaining allowance for the current month. A stale month marker is rolled first, so the numbers always describe the current month.
// @Tags        Generation
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
//
// @Success     200  {object}  services.QuotaStatus
// @Failure     403  {object}  handlers.ErrorResponse  "No quota provisioned"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /quota [get]
func (h *Handlers) GetQuota(c *gin.Context) {
	st, err := h.quotaSvc.Status(c.Request.Context(), userID(c), time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrQuotaNotFound) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "no usage quota provisioned")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}
