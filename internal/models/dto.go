package models

import "time"

// CreateArticleRequest is the body of POST /api/articles.
// Quantities are pointers so that a missing field fails "required" while 0 stays valid.
type CreateArticleRequest struct {
	Name          string   `json:"name" binding:"required,notblank,trimmax=50"`
	Amount        *int     `json:"amount" binding:"required,min=0,max=100000000"`
	MinimumAmount *int     `json:"minimumAmount" binding:"required,min=0,max=100000000"`
	Unit          Unit     `json:"unit" binding:"required,unit"`
	Category      Category `json:"category" binding:"required,category"`
}

// UpdateArticleRequest is the body of PUT /api/articles/:id.
// A nil field was not sent and leaves the stored value untouched.
type UpdateArticleRequest struct {
	Name          *string   `json:"name" binding:"omitempty,notblank,trimmax=50"`
	Amount        *int      `json:"amount" binding:"omitempty,min=0,max=100000000"`
	MinimumAmount *int      `json:"minimumAmount" binding:"omitempty,min=0,max=100000000"`
	Unit          *Unit     `json:"unit" binding:"omitempty,unit"`
	Category      *Category `json:"category" binding:"omitempty,category"`
}

// AdjustAmountRequest is the body of the changeAmount endpoints
type AdjustAmountRequest struct {
	Amount *int `json:"amount" binding:"required,min=0,max=100000000"`
}

// ArticleQuery holds the list parameters as received from the client
type ArticleQuery struct {
	Page         int
	Size         int
	Search       string
	Category     string
	OnlyLowStock bool
	SortBy       string
	SortDir      string
}

// Default list parameters
const (
	DefaultPage     = 0
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DefaultArticleQuery returns the parameters used when the client sends none
func DefaultArticleQuery() ArticleQuery {
	return ArticleQuery{
		Page:    DefaultPage,
		Size:    DefaultPageSize,
		SortBy:  string(SortByName),
		SortDir: string(SortAsc),
	}
}

// ArticleResponse is the rendered article including derived fields
type ArticleResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Amount        int       `json:"amount"`
	MinimumAmount int       `json:"minimumAmount"`
	Unit          Unit      `json:"unit"`
	Category      Category  `json:"category"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	LowStock      bool      `json:"lowStock"`
}

// NewArticleResponse renders an article, computing lowStock
func NewArticleResponse(a *Article) ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		Name:          a.Name,
		Amount:        a.Amount,
		MinimumAmount: a.MinimumAmount,
		Unit:          a.Unit,
		Category:      a.Category,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		LowStock:      a.IsLowStock(),
	}
}

// ArticlePage is the page envelope returned by the list endpoint
type ArticlePage struct {
	Content     []ArticleResponse `json:"content"`
	CurrentPage int               `json:"currentPage"`
	TotalItems  int               `json:"totalItems"`
	TotalPages  int               `json:"totalPages"`
	PageSize    int               `json:"pageSize"`
	HasNext     bool              `json:"hasNext"`
	HasPrevious bool              `json:"hasPrevious"`
}

// NewArticlePage builds the envelope for one page of a result of total items
func NewArticlePage(items []*Article, page, size, total int) *ArticlePage {
	content := make([]ArticleResponse, 0, len(items))
	for _, a := range items {
		content = append(content, NewArticleResponse(a))
	}

	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}

	return &ArticlePage{
		Content:     content,
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  totalPages,
		PageSize:    size,
		HasNext:     page < totalPages-1,
		HasPrevious: page > 0,
	}
}

// ArticleStats is reported by the metrics endpoint
type ArticleStats struct {
	Total    int `json:"total"`
	LowStock int `json:"lowStock"`
}
