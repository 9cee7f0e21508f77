package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// depreciationHandler handles HTTP requests related to depreciation components.
type depreciationHandler struct {
	depreciationService portssvc.DepreciationSvcFacade
}

// newDepreciationHandler creates a new depreciationHandler.
func newDepreciationHandler(ds portssvc.DepreciationSvcFacade) *depreciationHandler {
	return &depreciationHandler{
		depreciationService: ds,
	}
}

// registerDepreciationRoutes registers routes for depreciation components.
func registerDepreciationRoutes(rg *gin.RouterGroup, depreciationService portssvc.DepreciationSvcFacade) {
	h := newDepreciationHandler(depreciationService)

	components := rg.Group("/depreciation-components")
	{
		components.POST("", h.createComponent)
		components.GET("/:component_id", h.getComponent)
		components.DELETE("/:component_id", h.deleteComponent)
	}

	// Component listing and the yearly charge live under the property
	rg.GET("/properties/:property_id/depreciation-components", h.listComponentsByProperty)
	rg.GET("/properties/:property_id/depreciation", h.getYearBreakdown)
}

// createComponent godoc
// @Summary Add a depreciation component
// @Description Adds a depreciation component to a property. Requires the member role.
// @Tags depreciation
// @Accept  json
// @Produce  json
// @Param   component body dto.CreateDepreciationComponentRequest true "Component details"
// @Success 201 {object} dto.DepreciationComponentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to create component"
// @Security BearerAuth
// @Router /depreciation-components [post]
func (h *depreciationHandler) createComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDepreciationComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create component", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("property_id", req.PropertyID))
	logger.Info("Received request to add depreciation component", slog.String("label", req.Label))

	component, err := h.depreciationService.CreateComponent(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for component creation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to add component", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidInput):
			logger.Warn("Invalid component payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create component in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create component"})
		}
		return
	}

	logger.Info("Depreciation component created successfully",
		slog.String("component_id", component.ComponentID))
	c.JSON(http.StatusCreated, dto.ToDepreciationComponentResponse(component))
}

// getComponent godoc
// @Summary Get component details
// @Description Retrieves a depreciation component by ID.
// @Tags depreciation
// @Produce  json
// @Param   component_id path string true "Component ID"
// @Success 200 {object} dto.DepreciationComponentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Component not found"
// @Failure 500 {object} map[string]string "Failed to retrieve component"
// @Security BearerAuth
// @Router /depreciation-components/{component_id} [get]
func (h *depreciationHandler) getComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	componentID := c.Param("component_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("component_id", componentID))

	component, err := h.depreciationService.FindComponentByID(c.Request.Context(), componentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Component not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to view component", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to get component from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve component"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDepreciationComponentResponse(component))
}

// deleteComponent godoc
// @Summary Delete component
// @Description Deletes a depreciation component. Requires the member role.
// @Tags depreciation
// @Produce  json
// @Param   component_id path string true "Component ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Component not found"
// @Failure 500 {object} map[string]string "Failed to delete component"
// @Security BearerAuth
// @Router /depreciation-components/{component_id} [delete]
func (h *depreciationHandler) deleteComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	componentID := c.Param("component_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("component_id", componentID))
	logger.Info("Received request to delete depreciation component")

	if err := h.depreciationService.DeleteComponent(c.Request.Context(), componentID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Component not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to delete component", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to delete component in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete component"})
		}
		return
	}

	logger.Info("Depreciation component deleted successfully")
	c.Status(http.StatusNoContent)
}

// listComponentsByProperty godoc
// @Summary List components of a property
// @Description Retrieves the depreciation components of a property.
// @Tags depreciation
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Success 200 {object} dto.ListDepreciationComponentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to list components"
// @Security BearerAuth
// @Router /properties/{property_id}/depreciation-components [get]
func (h *depreciationHandler) listComponentsByProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	components, err := h.depreciationService.ListComponentsByPropertyID(c.Request.Context(), propertyID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found", slog.String("property_id", propertyID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to list components",
				slog.String("user_id", userID),
				slog.String("property_id", propertyID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to list components", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list components"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListDepreciationComponentsResponse(components))
}

// getYearBreakdown godoc
// @Summary Get yearly depreciation charge
// @Description Computes the depreciation charge of a property for a calendar year, per component.
// @Tags depreciation
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   year query int true "Calendar year"
// @Success 200 {object} dto.DepreciationYearResponse
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to compute breakdown"
// @Security BearerAuth
// @Router /properties/{property_id}/depreciation [get]
func (h *depreciationHandler) getYearBreakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing year parameter"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("property_id", propertyID), slog.Int("year", year))

	breakdown, err := h.depreciationService.GetYearBreakdown(c.Request.Context(), propertyID, year, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized for depreciation breakdown", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrInvalidInput):
			logger.Warn("Invalid breakdown request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to compute depreciation breakdown", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute depreciation breakdown"})
		}
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
