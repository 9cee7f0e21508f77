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

// simulationHandler handles HTTP requests for investment and tax simulations.
type simulationHandler struct {
	investmentService portssvc.InvestmentSvc
	fiscalService     portssvc.FiscalSvc
}

// newSimulationHandler creates a new simulationHandler.
func newSimulationHandler(is portssvc.InvestmentSvc, fs portssvc.FiscalSvc) *simulationHandler {
	return &simulationHandler{
		investmentService: is,
		fiscalService:     fs,
	}
}

// registerSimulationRoutes registers routes for simulations. The /simulations
// endpoints are calculators over caller-supplied figures; property analysis
// projects a stored property.
func registerSimulationRoutes(rg *gin.RouterGroup, investmentService portssvc.InvestmentSvc, fiscalService portssvc.FiscalSvc) {
	h := newSimulationHandler(investmentService, fiscalService)

	simulations := rg.Group("/simulations")
	{
		simulations.POST("/npv", h.simulateNPV)
		simulations.POST("/irr", h.simulateIRR)
		simulations.POST("/sale", h.simulateSale)
		simulations.POST("/dividend-tax", h.simulateDividendTax)
	}

	rg.POST("/properties/:property_id/analysis", h.analyzeProperty)
}

// simulateNPV godoc
// @Summary Simulate net present value
// @Description Computes the NPV of a cash flow series at a discount rate. The first flow is the initial outlay.
// @Tags simulations
// @Accept  json
// @Produce  json
// @Param   request body dto.NPVRequest true "Discount rate and cash flows"
// @Success 200 {object} dto.NPVResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute NPV"
// @Security BearerAuth
// @Router /simulations/npv [post]
func (h *simulationHandler) simulateNPV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.NPVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for NPV simulation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.investmentService.SimulateNPV(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			logger.Warn("Rejected NPV simulation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute NPV", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute NPV"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// simulateIRR godoc
// @Summary Simulate internal rate of return
// @Description Computes the IRR of a cash flow series. The result is null when no rate solves the series.
// @Tags simulations
// @Accept  json
// @Produce  json
// @Param   request body dto.IRRRequest true "Cash flows"
// @Success 200 {object} dto.IRRResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute IRR"
// @Security BearerAuth
// @Router /simulations/irr [post]
func (h *simulationHandler) simulateIRR(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IRRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IRR simulation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.investmentService.SimulateIRR(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			logger.Warn("Rejected IRR simulation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute IRR", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute IRR"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// simulateSale godoc
// @Summary Simulate a property sale
// @Description Computes net seller proceeds after agency fees, loan payoff, penalty and capital gains tax. With a loanID the payoff figures come from the stored loan at the sale date.
// @Tags simulations
// @Accept  json
// @Produce  json
// @Param   request body dto.SaleSimulationRequest true "Sale assumptions"
// @Success 200 {object} dto.SaleSimulationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to simulate sale"
// @Security BearerAuth
// @Router /simulations/sale [post]
func (h *simulationHandler) simulateSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaleSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for sale simulation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.investmentService.SimulateSale(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Loan not found for sale simulation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		case errors.Is(err, apperrors.ErrDateOutOfRange):
			logger.Warn("Sale date outside loan term")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sale date is outside the loan term"})
		case errors.Is(err, apperrors.ErrInvalidInput):
			logger.Warn("Rejected sale simulation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to simulate sale", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to simulate sale"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// simulateDividendTax godoc
// @Summary Simulate dividend taxation
// @Description Computes the flat-tax cost of distributing an amount from a corporate entity.
// @Tags simulations
// @Accept  json
// @Produce  json
// @Param   request body dto.DividendTaxRequest true "Entity and amount to distribute"
// @Success 200 {object} dto.DividendTaxResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to simulate dividend tax"
// @Security BearerAuth
// @Router /simulations/dividend-tax [post]
func (h *simulationHandler) simulateDividendTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DividendTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for dividend tax simulation", slog.String("error", err.Error()))
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

	resp, err := h.fiscalService.SimulateDividendTax(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entity not found for dividend tax simulation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized for dividend tax simulation", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidInput):
			logger.Warn("Rejected dividend tax simulation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to simulate dividend tax", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to simulate dividend tax"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// analyzeProperty godoc
// @Summary Analyze a property as an investment
// @Description Projects a stored property over a holding horizon and returns the cash flow series, NPV and IRR.
// @Tags simulations
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   request body dto.PropertyAnalysisRequest true "Projection assumptions"
// @Success 200 {object} dto.PropertyAnalysisResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to analyze property"
// @Security BearerAuth
// @Router /properties/{property_id}/analysis [post]
func (h *simulationHandler) analyzeProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	var req dto.PropertyAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for property analysis", slog.String("error", err.Error()))
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
	logger.Info("Received request to analyze property",
		slog.Int("horizon_years", req.HorizonYears))

	resp, err := h.investmentService.AnalyzeProperty(c.Request.Context(), propertyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for analysis")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to analyze property", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Rejected property analysis", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to analyze property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze property"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
