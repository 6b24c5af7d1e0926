package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/inventory-api/internal/models"
	"github.com/inventory-api/internal/repository"
	"github.com/inventory-api/internal/validation"
	"github.com/rs/zerolog"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// ExportFormats lists the supported export formats
var ExportFormats = []string{FormatNDJSON, FormatJSON, FormatCSV}

var csvHeader = []string{"id", "name", "amount", "minimum_amount", "unit", "category", "low_stock", "created_at", "updated_at"}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repo repository.ArticleRepository
	log  zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repo repository.ArticleRepository, log zerolog.Logger) *exportService {
	return &exportService{
		repo: repo,
		log:  log.With().Str("service", "export").Logger(),
	}
}

// IsExportFormat reports whether format is supported
func IsExportFormat(format string) bool {
	for _, f := range ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// StreamArticles streams every article in the specified format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	if !IsExportFormat(format) {
		return &ValidationError{Fields: []validation.FieldError{{
			Field:   "format",
			Message: "format must be one of: ndjson, json, csv",
			Value:   format,
		}}}
	}

	s.log.Info().Str("format", format).Msg("Starting articles export")

	var count int
	var err error
	switch format {
	case FormatNDJSON:
		count, err = s.streamNDJSON(ctx, w)
	case FormatJSON:
		count, err = s.streamJSON(ctx, w)
	case FormatCSV:
		count, err = s.streamCSV(ctx, w)
	}

	s.log.Info().Str("format", format).Int("count", count).Msg("Articles export completed")
	return err
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repo.StreamAll(ctx, func(article *models.Article) error {
		data, err := json.Marshal(models.NewArticleResponse(article))
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	return count, err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.json")

	w.Write([]byte("["))
	count := 0

	err := s.repo.StreamAll(ctx, func(article *models.Article) error {
		if count > 0 {
			w.Write([]byte(","))
		}

		data, err := json.Marshal(models.NewArticleResponse(article))
		if err != nil {
			return err
		}
		count++
		_, err = w.Write(data)
		return err
	})

	w.Write([]byte("]"))
	return count, err
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}

	count := 0
	err := s.repo.StreamAll(ctx, func(article *models.Article) error {
		count++
		return writer.Write([]string{
			strconv.FormatInt(article.ID, 10),
			article.Name,
			strconv.Itoa(article.Amount),
			strconv.Itoa(article.MinimumAmount),
			string(article.Unit),
			string(article.Category),
			strconv.FormatBool(article.IsLowStock()),
			article.CreatedAt.Format(time.RFC3339),
			article.UpdatedAt.Format(time.RFC3339),
		})
	})
	return count, err
}
