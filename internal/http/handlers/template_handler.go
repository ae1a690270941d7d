// Rewrite template HTTP handlers.
//
// This file exposes REST endpoints for rewrite templates:
//   - POST /templates  (create)
//   - GET  /templates  (list, newest first)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyhuang/go-repurpose-backend/internal/services"
)

// CreateTemplateRequest is the JSON payload for creating a rewrite template.
type CreateTemplateRequest struct {
	// Name labels the template in lists and generation outputs.
	Name string `json:"name" binding:"required" example:"Twitter thread"`
	// Prompt carries the rewrite instructions prepended to the article.
	Prompt string `json:"prompt" binding:"required" example:"Rewrite as a punchy thread of at most 5 posts."`
}

// CreateTemplate godoc
// @ID          createTemplate
// @Summary     Create a rewrite template
// @Description Stores a named prompt owned by the current user, usable in generation requests.
// @Tags        Templates
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
// @Param       body       body    handlers.CreateTemplateRequest  true  "Template payload"
//
// @Success     201  {object}  domain.Template
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /templates [post]
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	tpl, err := h.tplSvc.Create(c.Request.Context(), userID(c), req.Name, req.Prompt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTemplate) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, tpl)
}

// ListTemplates godoc
// @ID          listTemplates
// @Summary     List rewrite templates
// @Description Returns all of the user's templates, newest first.
// @Tags        Templates
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)" example(user123)
//
// @Success     200  {array}   domain.Template
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /templates [get]
func (h *Handlers) ListTemplates(c *gin.Context) {
	tpls, err := h.tplSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, tpls)
}
