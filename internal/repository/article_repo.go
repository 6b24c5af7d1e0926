package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inventory-api/internal/database"
	"github.com/inventory-api/internal/models"
)

const articleColumns = "id, name, amount, minimum_amount, unit, category, created_at, updated_at"

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var unit, category string
	err := row.Scan(&a.ID, &a.Name, &a.Amount, &a.MinimumAmount, &unit, &category, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Unit = models.Unit(unit)
	a.Category = models.Category(category)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

// now is truncated to the precision PostgreSQL stores
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	ts := now()

	query := `
		INSERT INTO articles (name, amount, minimum_amount, unit, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		article.Name, article.Amount, article.MinimumAmount,
		string(article.Unit), string(article.Category), ts, ts,
	).Scan(&article.ID)
	if r.db.IsUniqueViolation(err) {
		return fmt.Errorf("creating article %q: %w", article.Name, ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("creating article: %w", err)
	}

	article.CreatedAt = ts
	article.UpdatedAt = ts
	return nil
}

// FindByID retrieves an article by ID
func (r *articleRepo) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	return r.findByID(ctx, r.db, id, "")
}

func (r *articleRepo) findByID(ctx context.Context, q queryer, id int64, lock string) (*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE id = $1" + lock

	article, err := scanArticle(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting article: %w", err)
	}
	return article, nil
}

// ExistsByID checks if an article with the given ID exists
func (r *articleRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, id)
}

func existsByID(ctx context.Context, q queryer, id int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking article: %w", err)
	}
	return exists, nil
}

// Update applies fn to the locked row and writes every column back
func (r *articleRepo) Update(ctx context.Context, id int64, fn func(*models.Article) error) (*models.Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	article, err := r.findByID(ctx, tx, id, r.db.RowLock())
	if err != nil {
		return nil, err
	}

	if err := fn(article); err != nil {
		return nil, err
	}
	article.ID = id
	article.UpdatedAt = now()

	query := `
		UPDATE articles SET name = $1, amount = $2, minimum_amount = $3, unit = $4, category = $5, updated_at = $6
		WHERE id = $7
	`
	_, err = tx.ExecContext(ctx, query,
		article.Name, article.Amount, article.MinimumAmount,
		string(article.Unit), string(article.Category), article.UpdatedAt, id,
	)
	if r.db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("renaming article %d to %q: %w", id, article.Name, ErrDuplicateName)
	}
	if err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing article update: %w", err)
	}
	return article, nil
}

// DeleteByID permanently removes an article
func (r *articleRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// FindFiltered returns one page of matching articles and the total match count
func (r *articleRepo) FindFiltered(ctx context.Context, criteria ArticleCriteria) ([]*models.Article, int, error) {
	pageSQL, countSQL, pageArgs, countArgs := buildFilteredQueries(criteria)

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting articles: %w", err)
	}

	articles, err := r.query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing articles: %w", err)
	}
	return articles, total, nil
}

// FindLowStock returns every article at or below its minimum amount
func (r *articleRepo) FindLowStock(ctx context.Context) ([]*models.Article, error) {
	articles, err := r.query(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE "+lowStockPredicate+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing low stock articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepo) query(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// AdjustAmount changes the amount with a single guarded UPDATE so concurrent
// adjustments of the same article never lose each other's writes.
func (r *articleRepo) AdjustAmount(ctx context.Context, id int64, delta int) (*models.Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE articles SET amount = amount + $1, updated_at = $2 WHERE id = $3 AND amount + $1 >= 0`,
		delta, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting amount: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("adjusting amount: %w", err)
	}

	if n == 0 {
		exists, err := existsByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("article %d cannot give %d: %w", id, -delta, ErrInsufficientStock)
	}

	article, err := r.findByID(ctx, tx, id, "")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing adjustment: %w", err)
	}
	return article, nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// CountLowStock returns the number of articles at or below their minimum
func (r *articleRepo) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE "+lowStockPredicate).Scan(&count)
	return count, err
}

// StreamAll streams all articles ordered by name for export
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryContext(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY name")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}

	return rows.Err()
}
