package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// loanHandler handles HTTP requests related to loans and their amortization.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{
		loanService: ls,
	}
}

// registerLoanRoutes registers routes for loans and their schedule computations.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("/:loan_id", h.getLoan)
		loans.DELETE("/:loan_id", h.deactivateLoan)

		// Amortization computations over a stored loan
		loans.GET("/:loan_id/schedule", h.getSchedule)
		loans.GET("/:loan_id/balance", h.getBalanceAt)
		loans.GET("/:loan_id/early-repayment-quote", h.quoteEarlyRepayment)
	}

	// Listing lives under the financed property
	rg.GET("/properties/:property_id/loans", h.listLoansByProperty)
}

// parseAtQuery reads the optional ?at=YYYY-MM-DD query parameter, defaulting
// to the current date.
func parseAtQuery(c *gin.Context) (time.Time, error) {
	raw := c.Query("at")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

// createLoan godoc
// @Summary Create a loan
// @Description Creates a loan against a property. Requires the member role.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan details"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to create loan"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create loan", slog.String("error", err.Error()))
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
	logger.Info("Received request to create loan", slog.String("lender", req.Lender))

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for loan creation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to create loan", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid loan payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create loan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create loan"})
		}
		return
	}

	logger.Info("Loan created successfully", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// getLoan godoc
// @Summary Get loan details
// @Description Retrieves a loan by ID. The caller must be a member of the owning portfolio.
// @Tags loans
// @Produce  json
// @Param   loan_id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to retrieve loan"
// @Security BearerAuth
// @Router /loans/{loan_id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loan_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	loan, err := h.loanService.FindLoanByID(c.Request.Context(), loanID, userID)
	if err != nil {
		h.respondLoanError(c, logger, err, "Failed to retrieve loan")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// deactivateLoan godoc
// @Summary Deactivate loan
// @Description Marks a loan repaid ahead of schedule. Requires the member role.
// @Tags loans
// @Produce  json
// @Param   loan_id path string true "Loan ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to deactivate loan"
// @Security BearerAuth
// @Router /loans/{loan_id} [delete]
func (h *loanHandler) deactivateLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loan_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))
	logger.Info("Received request to deactivate loan")

	if err := h.loanService.DeactivateLoan(c.Request.Context(), loanID, userID); err != nil {
		h.respondLoanError(c, logger, err, "Failed to deactivate loan")
		return
	}

	logger.Info("Loan deactivated successfully")
	c.Status(http.StatusNoContent)
}

// listLoansByProperty godoc
// @Summary List loans of a property
// @Description Retrieves the loans attached to a property.
// @Tags loans
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to list loans"
// @Security BearerAuth
// @Router /properties/{property_id}/loans [get]
func (h *loanHandler) listLoansByProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("property_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loans, err := h.loanService.ListLoansByPropertyID(c.Request.Context(), propertyID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found", slog.String("property_id", propertyID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User not authorized to list loans",
				slog.String("user_id", userID),
				slog.String("property_id", propertyID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to list loans", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loans"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

// getSchedule godoc
// @Summary Get amortization schedule
// @Description Computes the full amortization schedule of a loan, insurance included.
// @Tags loans
// @Produce  json
// @Param   loan_id path string true "Loan ID"
// @Success 200 {object} dto.LoanScheduleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to compute schedule"
// @Security BearerAuth
// @Router /loans/{loan_id}/schedule [get]
func (h *loanHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loan_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	schedule, err := h.loanService.GetSchedule(c.Request.Context(), loanID, userID)
	if err != nil {
		h.respondLoanError(c, logger, err, "Failed to compute schedule")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// getBalanceAt godoc
// @Summary Get outstanding balance
// @Description Computes the outstanding balance of a loan at a date. Defaults to today.
// @Tags loans
// @Produce  json
// @Param   loan_id path string true "Loan ID"
// @Param   at query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.LoanBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Security BearerAuth
// @Router /loans/{loan_id}/balance [get]
func (h *loanHandler) getBalanceAt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loan_id")

	at, err := parseAtQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	balance, err := h.loanService.GetBalanceAt(c.Request.Context(), loanID, at, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDateOutOfRange) {
			logger.Warn("Balance date outside loan term", slog.Time("at", at))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date is outside the loan term"})
			return
		}
		h.respondLoanError(c, logger, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.LoanBalanceResponse{
		LoanID:  loanID,
		At:      at,
		Balance: balance,
	})
}

// quoteEarlyRepayment godoc
// @Summary Quote early repayment
// @Description Computes the payoff amount of a loan at a date, penalty included. Defaults to today.
// @Tags loans
// @Produce  json
// @Param   loan_id path string true "Loan ID"
// @Param   at query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.EarlyRepaymentQuoteResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to compute quote"
// @Security BearerAuth
// @Router /loans/{loan_id}/early-repayment-quote [get]
func (h *loanHandler) quoteEarlyRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loan_id")

	at, err := parseAtQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	quote, err := h.loanService.QuoteEarlyRepayment(c.Request.Context(), loanID, at, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDateOutOfRange) {
			logger.Warn("Quote date outside loan term", slog.Time("at", at))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date is outside the loan term"})
			return
		}
		h.respondLoanError(c, logger, err, "Failed to compute early repayment quote")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// respondLoanError maps common loan service errors to HTTP responses.
func (h *loanHandler) respondLoanError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Loan not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User not authorized for loan")
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
