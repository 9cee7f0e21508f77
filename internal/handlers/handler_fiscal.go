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

// fiscalHandler handles HTTP requests for entity taxation results.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvc
}

// newFiscalHandler creates a new fiscalHandler.
func newFiscalHandler(fs portssvc.FiscalSvc) *fiscalHandler {
	return &fiscalHandler{
		fiscalService: fs,
	}
}

// registerFiscalRoutes registers routes for fiscal year computations.
// GET returns the result under stored settings; POST accepts per-request
// rate overrides for what-if comparisons.
func registerFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvc) {
	h := newFiscalHandler(fiscalService)

	rg.GET("/entities/:entity_id/fiscal-years/:year", h.getFiscalYear)
	rg.POST("/entities/:entity_id/fiscal-years/:year", h.computeFiscalYear)
}

// getFiscalYear godoc
// @Summary Get fiscal year result
// @Description Computes the taxation result of an entity for a calendar year under its stored settings.
// @Tags fiscal
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   year path int true "Calendar year"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to compute fiscal year"
// @Security BearerAuth
// @Router /entities/{entity_id}/fiscal-years/{year} [get]
func (h *fiscalHandler) getFiscalYear(c *gin.Context) {
	h.respondFiscalYear(c, nil)
}

// computeFiscalYear godoc
// @Summary Compute fiscal year with overrides
// @Description Computes the taxation result of an entity for a calendar year, applying per-request rate overrides.
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   year path int true "Calendar year"
// @Param   request body dto.FiscalYearRequest false "Optional settings overrides"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to compute fiscal year"
// @Security BearerAuth
// @Router /entities/{entity_id}/fiscal-years/{year} [post]
func (h *fiscalHandler) computeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.FiscalYearRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for fiscal year request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	h.respondFiscalYear(c, req.Settings)
}

// respondFiscalYear runs the computation shared by both fiscal year routes.
func (h *fiscalHandler) respondFiscalYear(c *gin.Context, override *dto.FiscalSettingsOverride) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entity_id", entityID), slog.Int("year", year))

	result, err := h.fiscalService.GetFiscalYear(c.Request.Context(), entityID, year, override, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found for fiscal year")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized for fiscal year", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrInvalidInput),
			errors.Is(err, apperrors.ErrInvalidFiscalSettings),
			errors.Is(err, apperrors.ErrUnknownEntityType):
			logger.Warn("Rejected fiscal year request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to compute fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year computed",
		slog.String("tax_due", result.TaxDue.String()),
		slog.String("carried_deficit", result.CarriedForwardDeficit.String()))
	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(entityID, result))
}
