package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/service"
	"github.com/inventory-api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleHandler handles the article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// articleID parses the :id path parameter, replying 400 when it is not a positive integer
func articleID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeValidationError(c, []validation.FieldError{{
			Field:   "id",
			Message: "id must be a positive integer",
			Value:   raw,
		}})
		return 0, false
	}
	return id, true
}

// Create handles POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, validation.Translate(err))
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	query, errs := validation.ParseListQuery(c.Request.URL.Query())
	if len(errs) > 0 {
		writeValidationError(c, errs)
		return
	}

	page, err := h.services.Article.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListLowStock handles GET /api/articles/lowAmount
func (h *ArticleHandler) ListLowStock(c *gin.Context) {
	articles, err := h.services.Article.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// Get handles GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// Update handles PUT /api/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, validation.Translate(err))
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// IncreaseAmount handles PATCH /api/articles/:id/changeAmount/add
func (h *ArticleHandler) IncreaseAmount(c *gin.Context) {
	h.adjustAmount(c, h.services.Article.IncreaseAmount)
}

// DecreaseAmount handles PATCH /api/articles/:id/changeAmount/subtract
func (h *ArticleHandler) DecreaseAmount(c *gin.Context) {
	h.adjustAmount(c, h.services.Article.DecreaseAmount)
}

type adjustFunc func(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error)

func (h *ArticleHandler) adjustAmount(c *gin.Context, adjust adjustFunc) {
	id, ok := articleID(c)
	if !ok {
		return
	}

	var req models.AdjustAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, validation.Translate(err))
		return
	}

	article, err := adjust(c.Request.Context(), id, *req.Amount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}
