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

// entityHandler handles HTTP requests related to fiscal entities.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
}

// newEntityHandler creates a new entityHandler.
func newEntityHandler(es portssvc.EntitySvcFacade) *entityHandler {
	return &entityHandler{
		entityService: es,
	}
}

// registerEntityRoutes registers routes for fiscal entities.
func registerEntityRoutes(rg *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	h := newEntityHandler(entityService)

	entities := rg.Group("/entities")
	{
		entities.POST("", h.createEntity)
		entities.GET("/:entity_id", h.getEntity)
		entities.PUT("/:entity_id", h.updateEntity)
		entities.DELETE("/:entity_id", h.deleteEntity)
	}

	// Listing lives under the owning portfolio
	rg.GET("/portfolios/:portfolio_id/entities", h.listEntitiesByPortfolio)
}

// createEntity godoc
// @Summary Create a fiscal entity
// @Description Creates a fiscal entity (personal, lmnp or sci_is) in a portfolio. Requires the member role.
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   entity body dto.CreateEntityRequest true "Entity details"
// @Success 201 {object} dto.EntityResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create entity"
// @Security BearerAuth
// @Router /entities [post]
func (h *entityHandler) createEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create entity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("portfolio_id", req.PortfolioID))
	logger.Info("Received request to create entity",
		slog.String("entity_name", req.Name),
		slog.String("kind", req.Kind))

	entity, err := h.entityService.CreateEntity(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to create entity", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnknownEntityType), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid entity payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create entity in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entity"})
		}
		return
	}

	logger.Info("Entity created successfully", slog.String("entity_id", entity.EntityID))
	c.JSON(http.StatusCreated, dto.ToEntityResponse(entity))
}

// getEntity godoc
// @Summary Get entity details
// @Description Retrieves a fiscal entity by ID. The caller must be a member of the owning portfolio.
// @Tags entities
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Success 200 {object} dto.EntityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entity"
// @Security BearerAuth
// @Router /entities/{entity_id} [get]
func (h *entityHandler) getEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entity_id", entityID))

	entity, err := h.entityService.FindEntityByID(c.Request.Context(), entityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to view entity", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to get entity from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entity"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// updateEntity godoc
// @Summary Update entity
// @Description Updates entity name or rate overrides. The kind is immutable. Requires the member role.
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   entity body dto.UpdateEntityRequest true "Fields to update"
// @Success 200 {object} dto.EntityResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to update entity"
// @Security BearerAuth
// @Router /entities/{entity_id} [put]
func (h *entityHandler) updateEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update entity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entity_id", entityID))
	logger.Info("Received request to update entity")

	entity, err := h.entityService.UpdateEntity(c.Request.Context(), entityID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to update entity", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid entity update payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update entity in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entity"})
		}
		return
	}

	logger.Info("Entity updated successfully")
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// deleteEntity godoc
// @Summary Delete entity
// @Description Deletes a fiscal entity. Rejected while properties still reference it.
// @Tags entities
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 409 {object} map[string]string "Entity still holds properties"
// @Failure 500 {object} map[string]string "Failed to delete entity"
// @Security BearerAuth
// @Router /entities/{entity_id} [delete]
func (h *entityHandler) deleteEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entity_id", entityID))
	logger.Info("Received request to delete entity")

	if err := h.entityService.DeleteEntity(c.Request.Context(), entityID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to delete entity", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Entity still holds properties")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete entity in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entity"})
		}
		return
	}

	logger.Info("Entity deleted successfully")
	c.Status(http.StatusNoContent)
}

// listEntitiesByPortfolio godoc
// @Summary List entities in a portfolio
// @Description Retrieves all fiscal entities of a portfolio.
// @Tags entities
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Success 200 {object} dto.ListEntitiesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list entities"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id}/entities [get]
func (h *entityHandler) listEntitiesByPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entities, err := h.entityService.ListEntitiesByPortfolioID(c.Request.Context(), portfolioID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User not a member of portfolio",
				slog.String("user_id", userID),
				slog.String("portfolio_id", portfolioID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to list entities", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entities"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntitiesResponse(entities))
}
