package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/repository"
	"github.com/inventory-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo repository.ArticleRepository
	log  zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		repo: repo,
		log:  log.With().Str("service", "article").Logger(),
	}
}

// Create stores a new article
func (s *articleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.ArticleResponse, error) {
	if err := newValidationError(validation.Struct(req)); err != nil {
		return nil, err
	}

	// the validator has already accepted both tokens
	unit, _ := models.ParseUnit(string(req.Unit))
	category, _ := models.ParseCategory(string(req.Category))

	article := &models.Article{
		Name:          strings.TrimSpace(req.Name),
		Amount:        *req.Amount,
		MinimumAmount: *req.MinimumAmount,
		Unit:          unit,
		Category:      category,
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, translateRepoError(err, 0)
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Str("name", article.Name).
		Int("amount", article.Amount).
		Msg("Article created")

	resp := models.NewArticleResponse(article)
	return &resp, nil
}

// Get returns a single article
func (s *articleService) Get(ctx context.Context, id int64) (*models.ArticleResponse, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}
	resp := models.NewArticleResponse(article)
	return &resp, nil
}

// List returns one filtered, sorted page of articles
func (s *articleService) List(ctx context.Context, q models.ArticleQuery) (*models.ArticlePage, error) {
	if err := newValidationError(validation.ListQuery(q)); err != nil {
		return nil, err
	}

	sortField, _ := models.ParseSortField(q.SortBy)
	direction, _ := models.ParseSortDirection(q.SortDir)

	criteria := repository.ArticleCriteria{
		Search:       strings.TrimSpace(q.Search),
		Category:     categoryFilter(q.Category),
		OnlyLowStock: q.OnlyLowStock,
		Sort:         sortField,
		Direction:    direction,
		Page:         q.Page,
		Size:         q.Size,
	}

	articles, total, err := s.repo.FindFiltered(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return models.NewArticlePage(articles, q.Page, q.Size, total), nil
}

// categoryFilter resolves the list filter token. Blank, "ALL" and unknown
// tokens all mean no category constraint.
func categoryFilter(token string) *models.Category {
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, models.CategoryAll) {
		return nil
	}
	category, ok := models.ParseCategory(token)
	if !ok {
		return nil
	}
	return &category
}

// ListLowStock returns every article at or below its minimum amount
func (s *articleService) ListLowStock(ctx context.Context) ([]models.ArticleResponse, error) {
	articles, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, models.NewArticleResponse(a))
	}
	return out, nil
}

// Update overwrites the fields present in req and leaves the rest untouched
func (s *articleService) Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.ArticleResponse, error) {
	if err := newValidationError(validation.Struct(req)); err != nil {
		return nil, err
	}

	article, err := s.repo.Update(ctx, id, func(a *models.Article) error {
		applyUpdate(a, req)
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err, id)
	}

	s.log.Info().Int64("article_id", id).Msg("Article updated")

	resp := models.NewArticleResponse(article)
	return &resp, nil
}

func applyUpdate(a *models.Article, req *models.UpdateArticleRequest) {
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		a.Amount = *req.Amount
	}
	if req.MinimumAmount != nil {
		a.MinimumAmount = *req.MinimumAmount
	}
	if req.Unit != nil {
		a.Unit, _ = models.ParseUnit(string(*req.Unit))
	}
	if req.Category != nil {
		a.Category, _ = models.ParseCategory(string(*req.Category))
	}
}

// IncreaseAmount adds delta to the stored amount
func (s *articleService) IncreaseAmount(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error) {
	return s.adjust(ctx, id, delta, delta)
}

// DecreaseAmount subtracts delta, refusing to go below zero
func (s *articleService) DecreaseAmount(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error) {
	return s.adjust(ctx, id, delta, -delta)
}

func (s *articleService) adjust(ctx context.Context, id int64, delta, signed int) (*models.ArticleResponse, error) {
	if err := newValidationError(validation.Struct(&models.AdjustAmountRequest{Amount: &delta})); err != nil {
		return nil, err
	}

	article, err := s.repo.AdjustAmount(ctx, id, signed)
	if err != nil {
		return nil, translateRepoError(err, id)
	}

	s.log.Info().
		Int64("article_id", id).
		Int("delta", signed).
		Int("amount", article.Amount).
		Bool("low_stock", article.IsLowStock()).
		Msg("Article amount adjusted")

	resp := models.NewArticleResponse(article)
	return &resp, nil
}

// Delete permanently removes an article
func (s *articleService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w with id %d", ErrNotFound, id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return translateRepoError(err, id)
	}

	s.log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// Stats counts all articles and those with low stock
func (s *articleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting articles: %w", err)
	}
	low, err := s.repo.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting low stock articles: %w", err)
	}
	return &models.ArticleStats{Total: total, LowStock: low}, nil
}
