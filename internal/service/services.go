package service

import (
	"context"
	"net/http"

	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the article business operations
type ArticleService interface {
	Create(ctx context.Context, req *models.CreateArticleRequest) (*models.ArticleResponse, error)
	Get(ctx context.Context, id int64) (*models.ArticleResponse, error)
	List(ctx context.Context, q models.ArticleQuery) (*models.ArticlePage, error)
	ListLowStock(ctx context.Context) ([]models.ArticleResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.ArticleResponse, error)
	IncreaseAmount(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error)
	DecreaseAmount(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.ArticleStats, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Export  ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Article: newArticleService(repos.Article, log),
		Export:  newExportService(repos.Article, log),
	}
}
