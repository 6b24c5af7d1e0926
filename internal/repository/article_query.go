package repository

import (
	"fmt"
	"strings"

	"github.com/inventory-api/internal/models"
)

// ArticleCriteria selects, orders and pages articles
type ArticleCriteria struct {
	Search       string           // case-insensitive substring of name; blank means none
	Category     *models.Category // nil means any category
	OnlyLowStock bool
	Sort         models.SortField
	Direction    models.SortDirection
	Page         int // zero-based
	Size         int
}

// Offset returns the number of rows skipped before the page
func (c ArticleCriteria) Offset() int {
	return c.Page * c.Size
}

const lowStockPredicate = "amount <= minimum_amount"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns user text into a LIKE pattern matching it literally anywhere
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

// where builds the WHERE clause and its positional arguments
func (c ArticleCriteria) where() (string, []any) {
	var conds []string
	var args []any

	if search := strings.TrimSpace(c.Search); search != "" {
		args = append(args, likePattern(search))
		conds = append(conds, fmt.Sprintf(`LOWER(name) LIKE $%d ESCAPE '\'`, len(args)))
	}
	if c.Category != nil {
		args = append(args, string(*c.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if c.OnlyLowStock {
		conds = append(conds, lowStockPredicate)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy only ever emits allow-listed column names. Ties are broken by id
// so that consecutive pages neither repeat nor skip rows.
func (c ArticleCriteria) orderBy() string {
	column := c.Sort.Column()
	if column == "id" {
		return " ORDER BY id " + c.Direction.SQL()
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, c.Direction.SQL())
}

// buildFilteredQueries returns the page query, the count query and their arguments.
// The count query uses a prefix of the page query's arguments.
func buildFilteredQueries(c ArticleCriteria) (pageSQL, countSQL string, pageArgs, countArgs []any) {
	where, args := c.where()

	countSQL = "SELECT COUNT(*) FROM articles" + where
	countArgs = args

	pageArgs = append(append([]any{}, args...), c.Size, c.Offset())
	pageSQL = fmt.Sprintf("SELECT %s FROM articles%s%s LIMIT $%d OFFSET $%d",
		articleColumns, where, c.orderBy(), len(args)+1, len(args)+2)

	return pageSQL, countSQL, pageArgs, countArgs
}
