package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/inventory-api/internal/database/databasetest"
	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/repository"
)

func newTestRepo(t *testing.T) repository.ArticleRepository {
	t.Helper()
	return repository.New(databasetest.New(t)).Article
}

func mustCreate(t *testing.T, repo repository.ArticleRepository, name string, amount, minimum int, category models.Category) *models.Article {
	t.Helper()
	a := &models.Article{
		Name:          name,
		Amount:        amount,
		MinimumAmount: minimum,
		Unit:          models.UnitPieces,
		Category:      category,
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return a
}

func TestArticleRepo_CreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "Gauze", 100, 10, models.CategoryMedical)
	if created.ID <= 0 {
		t.Fatalf("Expected an assigned id, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("Expected equal creation timestamps, got %v and %v", created.CreatedAt, created.UpdatedAt)
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "Gauze" || found.Amount != 100 || found.MinimumAmount != 10 {
		t.Errorf("Unexpected article: %+v", found)
	}
	if found.Unit != models.UnitPieces || found.Category != models.CategoryMedical {
		t.Errorf("Unexpected enums: %s %s", found.Unit, found.Category)
	}
	if !found.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("Expected createdAt %v, got %v", created.CreatedAt, found.CreatedAt)
	}

	exists, err := repo.ExistsByID(ctx, created.ID)
	if err != nil || !exists {
		t.Errorf("Expected article to exist, got %v (err %v)", exists, err)
	}
}

func TestArticleRepo_FindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), 999)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	exists, err := repo.ExistsByID(context.Background(), 999)
	if err != nil || exists {
		t.Errorf("Expected no article, got %v (err %v)", exists, err)
	}
}

func TestArticleRepo_DuplicateName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, "Gauze", 1, 1, models.CategoryMedical)
	other := mustCreate(t, repo, "Tape", 1, 1, models.CategoryMedical)

	err := repo.Create(ctx, &models.Article{Name: "Gauze", Unit: models.UnitPieces, Category: models.CategoryOther})
	if !errors.Is(err, repository.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName on create, got %v", err)
	}

	_, err = repo.Update(ctx, other.ID, func(a *models.Article) error {
		a.Name = "Gauze"
		return nil
	})
	if !errors.Is(err, repository.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName on rename, got %v", err)
	}

	count, _ := repo.Count(ctx)
	if count != 2 {
		t.Errorf("Expected 2 articles, got %d", count)
	}
}

func TestArticleRepo_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "Gloves", 40, 5, models.CategoryHygiene)

	updated, err := repo.Update(ctx, created.ID, func(a *models.Article) error {
		a.Amount = 3
		a.Category = models.CategoryMedical
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Amount != 3 || updated.Category != models.CategoryMedical || updated.Name != "Gloves" {
		t.Errorf("Unexpected updated article: %+v", updated)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("updatedAt went backwards: %v < %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v != %v", updated.CreatedAt, created.CreatedAt)
	}

	stored, _ := repo.FindByID(ctx, created.ID)
	if stored.Amount != 3 || stored.MinimumAmount != 5 {
		t.Errorf("Update not persisted: %+v", stored)
	}
}

func TestArticleRepo_UpdateAbortsOnCallbackError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := mustCreate(t, repo, "Gloves", 40, 5, models.CategoryHygiene)

	boom := errors.New("boom")
	_, err := repo.Update(ctx, created.ID, func(a *models.Article) error {
		a.Amount = 0
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected callback error, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, created.ID)
	if stored.Amount != 40 {
		t.Errorf("Expected amount 40 after aborted update, got %d", stored.Amount)
	}

	_, err = repo.Update(ctx, 12345, func(a *models.Article) error { return nil })
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestArticleRepo_DeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := mustCreate(t, repo, "Toner", 2, 1, models.CategoryOffice)

	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteByID(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestArticleRepo_AdjustAmount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := mustCreate(t, repo, "Gauze", 100, 10, models.CategoryMedical)

	a, err := repo.AdjustAmount(ctx, created.ID, -95)
	if err != nil {
		t.Fatalf("AdjustAmount failed: %v", err)
	}
	if a.Amount != 5 || !a.IsLowStock() {
		t.Errorf("Expected amount 5 with low stock, got %+v", a)
	}

	_, err = repo.AdjustAmount(ctx, created.ID, -10)
	if !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}
	stored, _ := repo.FindByID(ctx, created.ID)
	if stored.Amount != 5 {
		t.Errorf("Expected amount to remain 5, got %d", stored.Amount)
	}

	a, err = repo.AdjustAmount(ctx, created.ID, -5)
	if err != nil || a.Amount != 0 {
		t.Errorf("Expected draining to zero to succeed, got %+v (err %v)", a, err)
	}

	_, err = repo.AdjustAmount(ctx, 4242, 1)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestArticleRepo_ConcurrentAdjustments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := mustCreate(t, repo, "Masks", 50, 0, models.CategoryMedical)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)

	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustAmount(ctx, created.ID, 3); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustAmount(ctx, created.ID, -2); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected adjustment error: %v", err)
	}

	stored, _ := repo.FindByID(ctx, created.ID)
	if want := 50 + workers*3 - workers*2; stored.Amount != want {
		t.Errorf("Expected amount %d, got %d", want, stored.Amount)
	}
}

func seedCatalogue(t *testing.T, repo repository.ArticleRepository) {
	t.Helper()
	mustCreate(t, repo, "Gauze", 100, 10, models.CategoryMedical)
	mustCreate(t, repo, "Bandage", 3, 10, models.CategoryMedical)
	mustCreate(t, repo, "Printer Paper", 20, 20, models.CategoryOffice)
	mustCreate(t, repo, "Stapler", 7, 2, models.CategoryOffice)
	mustCreate(t, repo, "Soap", 0, 5, models.CategoryHygiene)
	mustCreate(t, repo, "100% Cotton Pads", 8, 1, models.CategoryHygiene)
}

func names(articles []*models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestArticleRepo_FindFiltered(t *testing.T) {
	repo := newTestRepo(t)
	seedCatalogue(t, repo)

	medical := models.CategoryMedical

	tests := []struct {
		name      string
		criteria  repository.ArticleCriteria
		wantNames []string
		wantTotal int
	}{
		{
			name:      "default sort by name",
			criteria:  repository.ArticleCriteria{Sort: models.SortByName, Direction: models.SortAsc, Size: 10},
			wantNames: []string{"100% Cotton Pads", "Bandage", "Gauze", "Printer Paper", "Soap", "Stapler"},
			wantTotal: 6,
		},
		{
			name:      "search is case insensitive",
			criteria:  repository.ArticleCriteria{Search: "PAPER", Sort: models.SortByName, Direction: models.SortAsc, Size: 10},
			wantNames: []string{"Printer Paper"},
			wantTotal: 1,
		},
		{
			name:      "percent sign matches literally",
			criteria:  repository.ArticleCriteria{Search: "%", Sort: models.SortByName, Direction: models.SortAsc, Size: 10},
			wantNames: []string{"100% Cotton Pads"},
			wantTotal: 1,
		},
		{
			name:      "category filter",
			criteria:  repository.ArticleCriteria{Category: &medical, Sort: models.SortByAmount, Direction: models.SortDesc, Size: 10},
			wantNames: []string{"Gauze", "Bandage"},
			wantTotal: 2,
		},
		{
			name:      "low stock is inclusive",
			criteria:  repository.ArticleCriteria{OnlyLowStock: true, Sort: models.SortByName, Direction: models.SortAsc, Size: 10},
			wantNames: []string{"Bandage", "Printer Paper", "Soap"},
			wantTotal: 3,
		},
		{
			name:      "second page",
			criteria:  repository.ArticleCriteria{Sort: models.SortByAmount, Direction: models.SortAsc, Page: 1, Size: 4},
			wantNames: []string{"Printer Paper", "Gauze"},
			wantTotal: 6,
		},
		{
			name:      "page past the end",
			criteria:  repository.ArticleCriteria{Sort: models.SortByName, Direction: models.SortAsc, Page: 5, Size: 4},
			wantNames: []string{},
			wantTotal: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles, total, err := repo.FindFiltered(context.Background(), tt.criteria)
			if err != nil {
				t.Fatalf("FindFiltered failed: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("Expected total %d, got %d", tt.wantTotal, total)
			}
			if got := names(articles); !equalNames(got, tt.wantNames) {
				t.Errorf("Expected %v, got %v", tt.wantNames, got)
			}
		})
	}
}

func TestArticleRepo_PagesCoverEveryRowOnce(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		// equal amounts force the id tie-breaker to keep pages stable
		mustCreate(t, repo, fmt.Sprintf("Item %02d", i), 5, 1, models.CategoryOther)
	}

	seen := make(map[int64]bool)
	for page := 0; page < 5; page++ {
		articles, total, err := repo.FindFiltered(ctx, repository.ArticleCriteria{
			Sort: models.SortByAmount, Direction: models.SortAsc, Page: page, Size: 5,
		})
		if err != nil {
			t.Fatalf("FindFiltered failed: %v", err)
		}
		if total != 23 {
			t.Fatalf("Expected total 23, got %d", total)
		}
		for _, a := range articles {
			if seen[a.ID] {
				t.Errorf("Article %d appeared on more than one page", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if len(seen) != 23 {
		t.Errorf("Expected 23 distinct articles across pages, got %d", len(seen))
	}
}

func TestArticleRepo_LowStockAndCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCatalogue(t, repo)

	low, err := repo.FindLowStock(ctx)
	if err != nil {
		t.Fatalf("FindLowStock failed: %v", err)
	}
	if want := []string{"Bandage", "Printer Paper", "Soap"}; !equalNames(names(low), want) {
		t.Errorf("Expected %v, got %v", want, names(low))
	}

	total, err := repo.Count(ctx)
	if err != nil || total != 6 {
		t.Errorf("Expected 6 articles, got %d (err %v)", total, err)
	}
	lowCount, err := repo.CountLowStock(ctx)
	if err != nil || lowCount != 3 {
		t.Errorf("Expected 3 low stock articles, got %d (err %v)", lowCount, err)
	}
}

func TestArticleRepo_StreamAll(t *testing.T) {
	repo := newTestRepo(t)
	seedCatalogue(t, repo)

	var streamed []string
	err := repo.StreamAll(context.Background(), func(a *models.Article) error {
		streamed = append(streamed, a.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamAll failed: %v", err)
	}
	if len(streamed) != 6 || streamed[0] != "100% Cotton Pads" {
		t.Errorf("Unexpected stream order: %v", streamed)
	}

	stop := errors.New("stop")
	calls := 0
	err = repo.StreamAll(context.Background(), func(a *models.Article) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Expected streaming to stop after first callback error, got %v after %d calls", err, calls)
	}
}

func TestArticleRepo_SearchFoldsNonASCII(t *testing.T) {
	repo := newTestRepo(t)
	mustCreate(t, repo, "Ögonsalva", 4, 5, models.CategoryMedical)
	mustCreate(t, repo, "Gauze", 100, 10, models.CategoryMedical)

	for _, search := range []string{"ögon", "ÖGON", "Ögon", "SALVA"} {
		articles, total, err := repo.FindFiltered(context.Background(), repository.ArticleCriteria{
			Search:    search,
			Sort:      models.SortByName,
			Direction: models.SortAsc,
			Size:      10,
		})
		if err != nil {
			t.Fatalf("FindFiltered(%q) failed: %v", search, err)
		}
		if total != 1 || len(articles) != 1 || articles[0].Name != "Ögonsalva" {
			t.Errorf("Search %q: expected [Ögonsalva], got %v (total %d)", search, names(articles), total)
		}
	}
}
