package repository

import (
	"context"
	"errors"

	"github.com/inventory-api/internal/database"
	"github.com/inventory-api/internal/models"
)

// Errors returned by the article store
var (
	ErrNotFound          = errors.New("article not found")
	ErrDuplicateName     = errors.New("article name already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	// Create inserts the article and fills in ID and timestamps
	Create(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id int64) (*models.Article, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Update locks the row, applies fn and persists the result in one transaction
	Update(ctx context.Context, id int64, fn func(*models.Article) error) (*models.Article, error)
	DeleteByID(ctx context.Context, id int64) error
	FindFiltered(ctx context.Context, criteria ArticleCriteria) ([]*models.Article, int, error)
	FindLowStock(ctx context.Context) ([]*models.Article, error)
	// AdjustAmount adds delta (which may be negative) unless the result would drop below zero
	AdjustAmount(ctx context.Context, id int64, delta int) (*models.Article, error)
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
	}
}
