package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/core/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/middleware"
)

// allocationHandler handles HTTP requests for pro-rata lump sum allocations.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{
		allocationService: as,
	}
}

// registerAllocationRoutes registers routes related to lump sum allocations.
func registerAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	allocations := rg.Group("/allocations")
	{
		allocations.POST("", h.allocateLumpSum)
	}
}

// allocateLumpSum godoc
// @Summary Allocate a lump sum across properties
// @Description Splits a single expense or tax liability across properties by percentage or revenue share
// @Tags allocations
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   allocation body dto.AllocateLumpSumRequest true "Allocation details"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Allocation failed"
// @Router /owners/{ownerID}/allocations [post]
func (h *allocationHandler) allocateLumpSum(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var req dto.AllocateLumpSumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateLumpSum", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.allocationService.AllocateLumpSum(c.Request.Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoTargets),
			errors.Is(err, services.ErrDuplicateTarget),
			errors.Is(err, services.ErrInvalidBasis),
			errors.Is(err, services.ErrNegativeAmount),
			errors.Is(err, services.ErrNoRevenueInRange):
			logger.Warn("Rejected invalid allocation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to allocate lump sum", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate lump sum"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}
