package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// propertyHandler handles HTTP requests related to properties.
type propertyHandler struct {
	propertyService portssvc.PropertySvcFacade
}

// newPropertyHandler creates a new propertyHandler.
func newPropertyHandler(ps portssvc.PropertySvcFacade) *propertyHandler {
	return &propertyHandler{
		propertyService: ps,
	}
}

// registerPropertyRoutes registers routes for properties.
func registerPropertyRoutes(rg *gin.RouterGroup, propertyService portssvc.PropertySvcFacade) {
	h := newPropertyHandler(propertyService)

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("/:property_id", h.getProperty)
		properties.PUT("/:property_id", h.updateProperty)
		properties.DELETE("/:property_id", h.deleteProperty)
	}

	// Listings live under the owning entity and portfolio
	rg.GET("/entities/:entity_id/properties", h.listPropertiesByEntity)
	rg.GET("/portfolios/:portfolio_id/properties", h.listPropertiesByPortfolio)
}

// createProperty godoc
// @Summary Create a property
// @Description Creates a property under a fiscal entity. Requires the member role.
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   property body dto.CreatePropertyRequest true "Property details"
// @Success 201 {object} dto.PropertyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to create property"
// @Security BearerAuth
// @Router /properties [post]
func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create property", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entity_id", req.EntityID))
	logger.Info("Received request to create property", slog.String("property_name", req.Name))

	property, err := h.propertyService.CreateProperty(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found for property creation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to create property", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid property payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create property in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		}
		return
	}

	logger.Info("Property created successfully", slog.String("property_id", property.PropertyID))
	c.JSON(http.StatusCreated, dto.ToPropertyResponse(property))
}

// getProperty godoc
// @Summary Get property details
// @Description Retrieves a property by ID. The caller must be a member of the owning portfolio.
// @Tags properties
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Success 200 {object} dto.PropertyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to retrieve property"
// @Security BearerAuth
// @Router /properties/{property_id} [get]
func (h *propertyHandler) getProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("property_id", propertyID))

	property, err := h.propertyService.FindPropertyByID(c.Request.Context(), propertyID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to view property", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to get property from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

// updateProperty godoc
// @Summary Update property
// @Description Updates property name, address or valuation. Requires the member role.
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   property body dto.UpdatePropertyRequest true "Fields to update"
// @Success 200 {object} dto.PropertyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to update property"
// @Security BearerAuth
// @Router /properties/{property_id} [put]
func (h *propertyHandler) updateProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update property", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("property_id", propertyID))
	logger.Info("Received request to update property")

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), propertyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to update property", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid property update payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update property in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		}
		return
	}

	logger.Info("Property updated successfully")
	c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

// deleteProperty godoc
// @Summary Delete property
// @Description Deletes a property along with its loans, transactions and depreciation components. Requires the admin role.
// @Tags properties
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to delete property"
// @Security BearerAuth
// @Router /properties/{property_id} [delete]
func (h *propertyHandler) deleteProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("property_id", propertyID))
	logger.Info("Received request to delete property")

	if err := h.propertyService.DeleteProperty(c.Request.Context(), propertyID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to delete property", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to delete property in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		}
		return
	}

	logger.Info("Property deleted successfully")
	c.Status(http.StatusNoContent)
}

// listPropertiesByEntity godoc
// @Summary List properties of an entity
// @Description Retrieves the properties held by a fiscal entity.
// @Tags properties
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Success 200 {object} dto.ListPropertiesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to list properties"
// @Security BearerAuth
// @Router /entities/{entity_id}/properties [get]
func (h *propertyHandler) listPropertiesByEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	properties, err := h.propertyService.ListPropertiesByEntityID(c.Request.Context(), entityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found", slog.String("entity_id", entityID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to list properties",
				slog.String("user_id", userID),
				slog.String("entity_id", entityID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to list properties", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListPropertiesResponse(properties))
}

// listPropertiesByPortfolio godoc
// @Summary List properties in a portfolio
// @Description Retrieves all properties across the entities of a portfolio.
// @Tags properties
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Success 200 {object} dto.ListPropertiesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list properties"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id}/properties [get]
func (h *propertyHandler) listPropertiesByPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	properties, err := h.propertyService.ListPropertiesByPortfolioID(c.Request.Context(), portfolioID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User not a member of portfolio",
				slog.String("user_id", userID),
				slog.String("portfolio_id", portfolioID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to list properties", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListPropertiesResponse(properties))
}
