package mocks

import (
	"context"
	"errors"
	"net/http"

	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/service"
)

// ErrNotConfigured is returned by mock service methods without a stub
var ErrNotConfigured = errors.New("mock: method not configured")

// MockArticleService is a stub implementation of ArticleService.
// Each method delegates to the matching func field.
type MockArticleService struct {
	CreateFunc         func(ctx context.Context, req *models.CreateArticleRequest) (*models.ArticleResponse, error)
	GetFunc            func(ctx context.Context, id int64) (*models.ArticleResponse, error)
	ListFunc           func(ctx context.Context, q models.ArticleQuery) (*models.ArticlePage, error)
	ListLowStockFunc   func(ctx context.Context) ([]models.ArticleResponse, error)
	UpdateFunc         func(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.ArticleResponse, error)
	IncreaseAmountFunc func(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error)
	DecreaseAmountFunc func(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error)
	DeleteFunc         func(ctx context.Context, id int64) error
	StatsFunc          func(ctx context.Context) (*models.ArticleStats, error)

	// LastQuery records the query passed to List
	LastQuery *models.ArticleQuery
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func (m *MockArticleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.ArticleResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) Get(ctx context.Context, id int64) (*models.ArticleResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) List(ctx context.Context, q models.ArticleQuery) (*models.ArticlePage, error) {
	m.LastQuery = &q
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) ListLowStock(ctx context.Context) ([]models.ArticleResponse, error) {
	if m.ListLowStockFunc != nil {
		return m.ListLowStockFunc(ctx)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.ArticleResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) IncreaseAmount(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error) {
	if m.IncreaseAmountFunc != nil {
		return m.IncreaseAmountFunc(ctx, id, delta)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) DecreaseAmount(ctx context.Context, id int64, delta int) (*models.ArticleResponse, error) {
	if m.DecreaseAmountFunc != nil {
		return m.DecreaseAmountFunc(ctx, id, delta)
	}
	return nil, ErrNotConfigured
}

func (m *MockArticleService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return ErrNotConfigured
}

func (m *MockArticleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return nil, ErrNotConfigured
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Formats            []string
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{Formats: make([]string, 0)}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	m.Formats = append(m.Formats, format)
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	return nil
}
