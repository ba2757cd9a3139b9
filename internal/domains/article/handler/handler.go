package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/domains/article/service"
	"newsroom-backend/internal/shared/middleware"
	"newsroom-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =====================================================
// ARTICLE HANDLER
// =====================================================

type ArticleHandler struct {
	articleService service.ServiceInterface
}

func NewArticleHandler(articleService service.ServiceInterface) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// =====================================================
// READ ENDPOINTS
// =====================================================

// ListArticles lists documents visible to the caller
// GET /api/v1/articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	// Step 1: Bind query
	var req model.ListArticlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 2: Call service (validation happens there, defaults included)
	result, err := h.articleService.ListArticles(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetCredentials(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Step 3: Return success
	respondSuccess(c, http.StatusOK, result)
}

// GetArticle gets document by ID
// GET /api/v1/articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	// Step 1: Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Call service
	view, err := h.articleService.GetArticle(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetCredentials(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Step 3: Return the caller's projection
	respondSuccess(c, http.StatusOK, view.Render())
}

// GetArticleBySlug gets document by slug (frontend path)
// GET /api/v1/articles/slug/:slug
func (h *ArticleHandler) GetArticleBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		respondError(c, http.StatusBadRequest, "INVALID_SLUG", "Slug is required")
		return
	}

	view, err := h.articleService.GetArticleBySlug(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetCredentials(c), slug)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, view.Render())
}

// =====================================================
// MUTATION ENDPOINTS
// =====================================================

// CreateArticle creates a document
// POST /api/v1/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 2: Call service (policy, validation, workflow, moderation)
	article, err := h.articleService.CreateArticle(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Step 3: Return success
	respondSuccess(c, http.StatusCreated, article)
}

// UpdateArticle applies a partial update
// PATCH /api/v1/articles/:id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	// Step 1: Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Bind request body
	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 3: Call service
	article, err := h.articleService.UpdateArticle(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Step 4: Return success
	respondSuccess(c, http.StatusOK, article)
}

// DeleteArticle deletes a document
// DELETE /api/v1/articles/:id
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// =====================================================
// HISTORY ENDPOINTS
// =====================================================

// ListVersions lists version snapshots, newest first
// GET /api/v1/articles/:id/versions
func (h *ArticleHandler) ListVersions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	versions, err := h.articleService.ListVersions(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, versions)
}

// Rollback re-applies a historical version
// POST /api/v1/articles/:id/rollback
func (h *ArticleHandler) Rollback(c *gin.Context) {
	// Step 1: Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Bind request body
	var req model.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 3: Call service
	article, err := h.articleService.Rollback(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, article)
}

// ExportAudit streams the workflow and moderation logs as xlsx
// GET /api/v1/articles/:id/audit.xlsx
func (h *ArticleHandler) ExportAudit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	f, err := h.articleService.ExportAudit(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="audit-%s.xlsx"`, id))
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Str("article_id", id.String()).Msg("write audit workbook")
	}
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// SweepScheduled publishes due scheduled documents now
// POST /api/v1/admin/articles/sweep?limit=
func (h *ArticleHandler) SweepScheduled(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	result, err := h.articleService.SweepScheduled(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, result)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID")
		return uuid.Nil, false
	}
	return id, true
}

func handleServiceError(c *gin.Context, err error) {
	statusCode, errCode := mapArticleError(err)
	message := errorMessage(err)
	if statusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Str("path", c.Request.URL.Path).Msg("article request failed")
		message = err.Error()
	}
	respondError(c, statusCode, errCode, message)
}

// mapArticleError maps domain errors to HTTP status codes
func mapArticleError(err error) (int, string) {
	code := model.ErrCodeInternal
	var artErr *model.ArticleError
	if errors.As(err, &artErr) {
		code = artErr.Code
	}

	switch {
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, code
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, code
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrMissingData):
		return http.StatusUnprocessableEntity, code
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, code
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, code
	default:
		return http.StatusInternalServerError, code
	}
}

// errorMessage keeps the coded message without the wrapped sentinel text
func errorMessage(err error) string {
	var artErr *model.ArticleError
	if errors.As(err, &artErr) {
		return artErr.Message
	}
	return err.Error()
}

func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	response.Success(c, statusCode, data)
}

func respondError(c *gin.Context, statusCode int, code, message string) {
	response.ErrorResponse(c, statusCode, code, message)
}
