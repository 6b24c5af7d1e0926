package validation

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/inventory-api/internal/models"
)

// ParseListQuery reads the list endpoint's query string. Unparseable
// values and out-of-range values are all reported together.
func ParseListQuery(values url.Values) (models.ArticleQuery, []FieldError) {
	q := models.DefaultArticleQuery()
	var errs []FieldError

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: "page", Message: "page must be an integer", Value: raw})
		} else {
			q.Page = page
		}
	}

	if raw := strings.TrimSpace(values.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: "size", Message: "size must be an integer", Value: raw})
		} else {
			q.Size = size
		}
	}

	lowStock := values.Get("onlyLowStockArticles")
	if lowStock == "" {
		lowStock = values.Get("onlyLowStock")
	}
	if raw := strings.TrimSpace(lowStock); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: "onlyLowStockArticles", Message: "onlyLowStockArticles must be true or false", Value: raw})
		} else {
			q.OnlyLowStock = only
		}
	}

	q.Search = values.Get("search")
	q.Category = values.Get("category")
	if v := values.Get("sortBy"); v != "" {
		q.SortBy = v
	}
	if v := values.Get("sortDir"); v != "" {
		q.SortDir = v
	}

	errs = append(errs, ListQuery(q)...)
	return q, errs
}

// ListQuery checks the semantic rules of list parameters
func ListQuery(q models.ArticleQuery) []FieldError {
	var errs []FieldError

	if q.Page < 0 {
		errs = append(errs, FieldError{Field: "page", Message: "page cannot be negative", Value: q.Page})
	}
	if q.Size < 1 || q.Size > models.MaxPageSize {
		errs = append(errs, FieldError{
			Field:   "size",
			Message: fmt.Sprintf("size must be between 1 and %d", models.MaxPageSize),
			Value:   q.Size,
		})
	} else if q.Page > math.MaxInt/q.Size {
		// page*size must fit the row offset
		errs = append(errs, FieldError{Field: "page", Message: "page is too large", Value: q.Page})
	}
	if _, ok := models.ParseSortField(q.SortBy); !ok {
		errs = append(errs, FieldError{
			Field:   "sortBy",
			Message: fmt.Sprintf("sortBy must be one of: %s", models.SortFieldNames()),
			Value:   q.SortBy,
		})
	}
	if _, ok := models.ParseSortDirection(q.SortDir); !ok {
		errs = append(errs, FieldError{Field: "sortDir", Message: "sortDir must be asc or desc", Value: q.SortDir})
	}

	return errs
}
