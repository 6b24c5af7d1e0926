package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inventory-api/internal/service"
	"github.com/inventory-api/internal/validation"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /api/articles/export?format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		format = service.FormatNDJSON
	}
	if !service.IsExportFormat(format) {
		writeValidationError(c, []validation.FieldError{{
			Field:   "format",
			Message: "format must be one of: " + strings.Join(service.ExportFormats, ", "),
			Value:   format,
		}})
		return
	}

	if err := h.services.Export.StreamArticles(c.Request.Context(), c.Writer, format); err != nil {
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			respondError(c, h.log, err)
			return
		}
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).
			Str("format", format).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Export failed")
	}
}
