package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// portfolioHandler handles HTTP requests related to portfolios and their members.
type portfolioHandler struct {
	portfolioService portssvc.PortfolioSvcFacade
}

// newPortfolioHandler creates a new portfolioHandler.
func newPortfolioHandler(ps portssvc.PortfolioSvcFacade) *portfolioHandler {
	return &portfolioHandler{
		portfolioService: ps,
	}
}

// registerPortfolioRoutes registers routes for portfolios and their memberships.
func registerPortfolioRoutes(rg *gin.RouterGroup, portfolioService portssvc.PortfolioSvcFacade) {
	h := newPortfolioHandler(portfolioService)

	portfolios := rg.Group("/portfolios")
	{
		portfolios.POST("", h.createPortfolio)
		portfolios.GET("", h.listUserPortfolios)
		portfolios.GET("/:portfolio_id", h.getPortfolio)
		portfolios.PUT("/:portfolio_id", h.updatePortfolio)
		portfolios.DELETE("/:portfolio_id", h.deactivatePortfolio)

		// Membership management
		portfolios.POST("/:portfolio_id/users", h.addUserToPortfolio)
		portfolios.GET("/:portfolio_id/users", h.listPortfolioUsers)
	}
}

// createPortfolio godoc
// @Summary Create a new portfolio
// @Description Creates a new portfolio and assigns the creator as admin.
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   portfolio body dto.CreatePortfolioRequest true "Portfolio details"
// @Success 201 {object} dto.PortfolioResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create portfolio"
// @Security BearerAuth
// @Router /portfolios [post]
func (h *portfolioHandler) createPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create portfolio", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create portfolio", slog.String("portfolio_name", req.Name))

	newPortfolio, err := h.portfolioService.CreatePortfolio(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create portfolio in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portfolio"})
		return
	}

	logger.Info("Portfolio created successfully", slog.String("portfolio_id", newPortfolio.PortfolioID))
	c.JSON(http.StatusCreated, dto.ToPortfolioResponse(newPortfolio))
}

// listUserPortfolios godoc
// @Summary List portfolios for current user
// @Description Retrieves the portfolios the authenticated user belongs to.
// @Tags portfolios
// @Produce  json
// @Success 200 {object} dto.ListPortfoliosResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list portfolios"
// @Security BearerAuth
// @Router /portfolios [get]
func (h *portfolioHandler) listUserPortfolios(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	portfolios, err := h.portfolioService.ListUserPortfolios(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list user portfolios", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list portfolios"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPortfoliosResponse(portfolios))
}

// getPortfolio godoc
// @Summary Get portfolio details
// @Description Retrieves a portfolio by ID. The caller must be a member.
// @Tags portfolios
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Portfolio not found"
// @Failure 500 {object} map[string]string "Failed to retrieve portfolio"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id} [get]
func (h *portfolioHandler) getPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("portfolio_id", portfolioID))

	// Membership check before exposing the portfolio
	if err := h.portfolioService.AuthorizeUserAction(c.Request.Context(), userID, portfolioID, domain.RoleReadOnly); err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User not a member of portfolio", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to authorize portfolio access", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolio"})
		}
		return
	}

	portfolio, err := h.portfolioService.FindPortfolioByID(c.Request.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Portfolio not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		} else {
			logger.Error("Failed to get portfolio from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolio"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioResponse(portfolio))
}

// updatePortfolio godoc
// @Summary Update portfolio
// @Description Updates portfolio name or description. Requires the admin role.
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Param   portfolio body dto.UpdatePortfolioRequest true "Fields to update"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Portfolio not found"
// @Failure 500 {object} map[string]string "Failed to update portfolio"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id} [put]
func (h *portfolioHandler) updatePortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	var req dto.UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update portfolio", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("portfolio_id", portfolioID))
	logger.Info("Received request to update portfolio")

	portfolio, err := h.portfolioService.UpdatePortfolio(c.Request.Context(), portfolioID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to update portfolio", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Portfolio not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		default:
			logger.Error("Failed to update portfolio in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update portfolio"})
		}
		return
	}

	logger.Info("Portfolio updated successfully")
	c.JSON(http.StatusOK, dto.ToPortfolioResponse(portfolio))
}

// deactivatePortfolio godoc
// @Summary Deactivate portfolio
// @Description Marks a portfolio as inactive. Requires the admin role.
// @Tags portfolios
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Portfolio not found"
// @Failure 500 {object} map[string]string "Failed to deactivate portfolio"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id} [delete]
func (h *portfolioHandler) deactivatePortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("portfolio_id", portfolioID))
	logger.Info("Received request to deactivate portfolio")

	if err := h.portfolioService.DeactivatePortfolio(c.Request.Context(), portfolioID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to deactivate portfolio", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Portfolio not found for deactivation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		default:
			logger.Error("Failed to deactivate portfolio in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate portfolio"})
		}
		return
	}

	logger.Info("Portfolio deactivated successfully")
	c.Status(http.StatusNoContent)
}

// addUserToPortfolio godoc
// @Summary Add user to portfolio
// @Description Adds a user to a portfolio with a role. Requires the admin role.
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Param   membership body dto.AddUserToPortfolioRequest true "User and role"
// @Success 201 {object} map[string]string "User added"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User or portfolio not found"
// @Failure 500 {object} map[string]string "Failed to add user"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id}/users [post]
func (h *portfolioHandler) addUserToPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	var req dto.AddUserToPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for add user to portfolio", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("portfolio_id", portfolioID),
		slog.String("target_user_id", req.UserID),
	)
	logger.Info("Received request to add user to portfolio", slog.String("role", string(req.Role)))

	err := h.portfolioService.AddUserToPortfolio(c.Request.Context(), addingUserID, req.UserID, portfolioID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to add members", slog.String("user_id", addingUserID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("User or portfolio not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "User or portfolio not found"})
		default:
			logger.Error("Failed to add user to portfolio", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user to portfolio"})
		}
		return
	}

	logger.Info("User added to portfolio successfully")
	c.JSON(http.StatusCreated, gin.H{"status": "user added"})
}

// listPortfolioUsers godoc
// @Summary List portfolio members
// @Description Retrieves the users of a portfolio and their roles.
// @Tags portfolios
// @Produce  json
// @Param   portfolio_id path string true "Portfolio ID"
// @Success 200 {object} dto.ListPortfolioUsersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /portfolios/{portfolio_id}/users [get]
func (h *portfolioHandler) listPortfolioUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	portfolioID := c.Param("portfolio_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	memberships, err := h.portfolioService.ListPortfolioUsers(c.Request.Context(), portfolioID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User not a member of portfolio",
				slog.String("user_id", userID),
				slog.String("portfolio_id", portfolioID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to list portfolio users", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list portfolio members"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListPortfolioUsersResponse(memberships))
}
