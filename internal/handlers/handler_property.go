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

// propertyHandler handles HTTP requests for properties and label mappings.
type propertyHandler struct {
	propertyService portssvc.PropertySvcFacade
	resolverService portssvc.ResolverSvcFacade
}

func newPropertyHandler(ps portssvc.PropertySvcFacade, rs portssvc.ResolverSvcFacade) *propertyHandler {
	return &propertyHandler{
		propertyService: ps,
		resolverService: rs,
	}
}

// registerPropertyRoutes registers routes related to properties and mapping
// confirmations.
func registerPropertyRoutes(rg *gin.RouterGroup, propertyService portssvc.PropertySvcFacade, resolverService portssvc.ResolverSvcFacade) {
	h := newPropertyHandler(propertyService, resolverService)

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("", h.listProperties)
	}

	mappings := rg.Group("/mappings")
	{
		mappings.POST("/confirm", h.confirmMapping)
	}
}

// createProperty godoc
// @Summary Register a managed property
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   property body dto.CreatePropertyRequest true "Property details"
// @Success 201 {object} domain.Property
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Property name already exists"
// @Router /owners/{ownerID}/properties [post]
func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateProperty) {
			logger.Warn("Attempted to create duplicate property", slog.String("name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create property", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, property)
}

// listProperties godoc
// @Summary List an owner's properties
// @Tags properties
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Success 200 {array} domain.Property
// @Router /owners/{ownerID}/properties [get]
func (h *propertyHandler) listProperties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	properties, err := h.propertyService.ListProperties(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error("Failed to list properties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// confirmMapping godoc
// @Summary Confirm a label mapping
// @Description Records an explicit confirmation that an external label refers to a property
// @Tags mappings
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   confirmation body dto.ConfirmMappingRequest true "Label and property"
// @Success 200 {object} domain.EntityMapping
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Property not found"
// @Router /owners/{ownerID}/mappings/confirm [post]
func (h *propertyHandler) confirmMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var req dto.ConfirmMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmMapping", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	mapping, err := h.resolverService.ConfirmMapping(c.Request.Context(), ownerID, req.Label, req.PropertyID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, services.ErrPropertyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, services.ErrEmptyLabel):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to confirm mapping", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm mapping"})
		}
		return
	}

	logger.Info("Mapping confirmed",
		slog.String("owner_id", ownerID),
		slog.String("label", req.Label),
		slog.String("property_id", req.PropertyID),
	)
	c.JSON(http.StatusOK, mapping)
}
