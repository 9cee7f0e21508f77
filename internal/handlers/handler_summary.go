package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// summaryHandler handles HTTP requests for portfolio-wide summaries and
// their stored snapshot history.
type summaryHandler struct {
	summaryService  portssvc.SummarySvc
	snapshotService portssvc.SnapshotSvc
}

// newSummaryHandler creates a new summaryHandler.
func newSummaryHandler(ss portssvc.SummarySvc, sn portssvc.SnapshotSvc) *summaryHandler {
	return &summaryHandler{
		summaryService:  ss,
		snapshotService: sn,
	}
}

// registerSummaryRoutes registers routes for portfolio summaries and snapshots.
func registerSummaryRoutes(rg *gin.RouterGroup, summaryService portssvc.SummarySvc, snapshotService portssvc.SnapshotSvc) {
	h := newSummaryHandler(summaryService, snapshotService)

	rg.GET("/portfolios/:portfolio_id/summary", h.getPortfolioSummary)
	rg.GET("/portfolios/:portfolio_id/snapshots", h.listSnapshots)
}

// getPortfolioSummary godoc
// @Summary Get portfolio summary
// @Description Computes the fiscal results of every entity in a portfolio for a year, plus debt, value, LTV, DSCR and threshold alerts. Defaults to the current year.
// @Tags summary
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Param   year query int false "Calendar year"
// @Success 200 {object} dto.PortfolioSummaryResponse
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Portfolio not found"
// @Failure 500 {object} map[string]string "Failed to compute summary"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id}/summary [get]
func (h *summaryHandler) getPortfolioSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
			return
		}
		year = parsed
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("portfolio_id", portfolioID), slog.Int("year", year))

	summary, err := h.summaryService.GetPortfolioSummary(c.Request.Context(), portfolioID, year, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Portfolio not found for summary")
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized for summary", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrInvalidInput):
			logger.Warn("Rejected summary request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to compute portfolio summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute portfolio summary"})
		}
		return
	}

	logger.Info("Portfolio summary computed",
		slog.Int("entities", len(summary.EntityResults)),
		slog.Int("alerts", len(summary.Alerts)))
	c.JSON(http.StatusOK, dto.ToPortfolioSummaryResponse(summary))
}

// listSnapshots godoc
// @Summary List portfolio snapshots
// @Description Retrieves the most recent stored metric snapshots of a portfolio, newest first.
// @Tags summary
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Param   limit query int false "Maximum number of snapshots" default(12)
// @Success 200 {object} dto.ListPortfolioSnapshotsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list snapshots"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id}/snapshots [get]
func (h *summaryHandler) listSnapshots(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshots, err := h.snapshotService.ListSnapshots(c.Request.Context(), portfolioID, limit, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User not a member of portfolio",
				slog.String("user_id", userID),
				slog.String("portfolio_id", portfolioID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to list snapshots", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list snapshots"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListPortfolioSnapshotsResponse(snapshots))
}
