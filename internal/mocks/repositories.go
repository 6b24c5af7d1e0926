package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/repository"
)

// MockArticleRepository is an in-memory implementation of ArticleRepository.
// It mirrors the SQL store closely enough for service and handler tests:
// unique names, guarded adjustments, filtering, sorting and paging.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[int64]*models.Article
	nextID   int64

	// Err is returned by every operation when set
	Err error

	// Clock returns the timestamp used for writes
	Clock func() time.Time

	CreateCalls int
	AdjustCalls int
	DeleteCalls int
}

// Verify interface compliance
var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[int64]*models.Article),
		Clock: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (m *MockArticleRepository) nameTaken(name string, except int64) bool {
	for id, a := range m.Articles {
		if id != except && a.Name == name {
			return true
		}
	}
	return false
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.Err != nil {
		return m.Err
	}
	if m.nameTaken(article.Name, 0) {
		return fmt.Errorf("creating article %q: %w", article.Name, repository.ErrDuplicateName)
	}

	m.nextID++
	ts := m.Clock()
	article.ID = m.nextID
	article.CreatedAt = ts
	article.UpdatedAt = ts

	stored := *article
	m.Articles[article.ID] = &stored
	return nil
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, repository.ErrNotFound)
	}
	out := *a
	return &out, nil
}

func (m *MockArticleRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Articles[id]
	return ok, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, id int64, fn func(*models.Article) error) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	current, ok := m.Articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, repository.ErrNotFound)
	}

	working := *current
	if err := fn(&working); err != nil {
		return nil, err
	}
	if m.nameTaken(working.Name, id) {
		return nil, fmt.Errorf("updating article %d: %w", id, repository.ErrDuplicateName)
	}

	working.ID = id
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = m.Clock()
	m.Articles[id] = &working

	out := working
	return &out, nil
}

func (m *MockArticleRepository) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Articles[id]; !ok {
		return fmt.Errorf("article %d: %w", id, repository.ErrNotFound)
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) FindFiltered(ctx context.Context, c repository.ArticleCriteria) ([]*models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}

	search := strings.ToLower(strings.TrimSpace(c.Search))
	matched := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		if search != "" && !strings.Contains(strings.ToLower(a.Name), search) {
			continue
		}
		if c.Category != nil && a.Category != *c.Category {
			continue
		}
		if c.OnlyLowStock && !a.IsLowStock() {
			continue
		}
		out := *a
		matched = append(matched, &out)
	}

	sortArticles(matched, c.Sort, c.Direction)

	total := len(matched)
	start := c.Offset()
	if start > total {
		start = total
	}
	end := start + c.Size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MockArticleRepository) FindLowStock(ctx context.Context) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if a.IsLowStock() {
			cp := *a
			out = append(out, &cp)
		}
	}
	sortArticles(out, models.SortByName, models.SortAsc)
	return out, nil
}

func (m *MockArticleRepository) AdjustAmount(ctx context.Context, id int64, delta int) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdjustCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, repository.ErrNotFound)
	}
	if a.Amount+delta < 0 {
		return nil, fmt.Errorf("article %d: %w", id, repository.ErrInsufficientStock)
	}
	a.Amount += delta
	a.UpdatedAt = m.Clock()
	out := *a
	return &out, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Articles), nil
}

func (m *MockArticleRepository) CountLowStock(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	n := 0
	for _, a := range m.Articles {
		if a.IsLowStock() {
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return m.Err
	}
	all := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		cp := *a
		all = append(all, &cp)
	}
	m.mu.Unlock()

	sortArticles(all, models.SortByName, models.SortAsc)
	for _, a := range all {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

// sortArticles orders by field in the given direction, then by ascending id
func sortArticles(articles []*models.Article, field models.SortField, dir models.SortDirection) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		c := compareBy(a, b, field)
		if dir == models.SortDesc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareBy(a, b *models.Article, field models.SortField) int {
	switch field {
	case models.SortByID:
		return compareInt64(a.ID, b.ID)
	case models.SortByAmount:
		return compareInt64(int64(a.Amount), int64(b.Amount))
	case models.SortByMinimumAmount:
		return compareInt64(int64(a.MinimumAmount), int64(b.MinimumAmount))
	case models.SortByUnit:
		return strings.Compare(string(a.Unit), string(b.Unit))
	case models.SortByCategory:
		return strings.Compare(string(a.Category), string(b.Category))
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
