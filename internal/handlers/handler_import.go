package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/core/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/ingestion"
	"github.com/hostbooks/host_books_app/internal/middleware"
)

// importHandler handles HTTP requests that feed external reports into the
// reconciliation pipeline.
type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(is portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{
		importService: is,
	}
}

// registerImportRoutes registers routes related to report imports.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvcFacade) {
	h := newImportHandler(importService)

	imports := rg.Group("/imports")
	{
		imports.POST("", h.importReport)
	}
}

// importReport godoc
// @Summary Import an external payout report
// @Description Parses a payout report, distributes payouts across properties and replaces the covered date range
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   report body dto.ImportReportRequest true "Report content"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} map[string]string "Invalid input or unparseable report"
// @Failure 500 {object} map[string]string "Import failed"
// @Router /owners/{ownerID}/imports [post]
func (h *importHandler) importReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var req dto.ImportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.importService.ImportReport(c.Request.Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ingestion.ErrEmptyInput),
			errors.Is(err, ingestion.ErrInvalidEncoding),
			errors.Is(err, ingestion.ErrUnknownFormat),
			errors.Is(err, ingestion.ErrNoDataRows),
			errors.Is(err, services.ErrNoPayouts),
			errors.Is(err, services.ErrNothingAttributed):
			logger.Warn("Rejected unparseable report", slog.String("file_name", req.FileName), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to import report", slog.String("file_name", req.FileName), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import report"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
