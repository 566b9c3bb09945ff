package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbooks/host_books_app/internal/apperrors"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/core/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for ledger listings and corrections.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers routes related to ledger entries.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := rg.Group("/entries")
	{
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.correctEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves a paginated ledger listing filtered by source tag and date range
// @Tags entries
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   sourceTag query string false "Source tag filter"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Listing failed"
// @Router /owners/{ownerID}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), ownerID, params)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags entries
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} domain.LedgerEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /owners/{ownerID}/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")
	entryID := c.Param("entryID")

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), ownerID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, services.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to get ledger entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ledger entry"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// correctEntry godoc
// @Summary Correct a ledger entry
// @Description Updates an entry's amount, description or notes
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   entryID path string true "Entry ID"
// @Param   correction body dto.CorrectEntryRequest true "Fields to correct"
// @Success 200 {object} domain.LedgerEntry
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /owners/{ownerID}/entries/{entryID} [patch]
func (h *ledgerHandler) correctEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")
	entryID := c.Param("entryID")

	var req dto.CorrectEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CorrectEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.CorrectEntry(c.Request.Context(), ownerID, entryID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, services.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		case errors.Is(err, services.ErrNegativeCorrected),
			errors.Is(err, services.ErrCorrectChild),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Rejected invalid correction", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to correct ledger entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to correct ledger entry"})
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Removes an entry, cascading to its distributed children
// @Tags entries
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /owners/{ownerID}/entries/{entryID} [delete]
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")
	entryID := c.Param("entryID")

	deleted, err := h.ledgerService.DeleteEntry(c.Request.Context(), ownerID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, services.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to delete ledger entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ledger entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
