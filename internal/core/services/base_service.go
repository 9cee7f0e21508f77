package services

import (
	"context"
	"log/slog"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	PortfolioAuthorizer portssvc.PortfolioAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeUser checks if a user has the required role for a portfolio
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, portfolioID string, requiredRole domain.UserPortfolioRole) error {
	if s.PortfolioAuthorizer != nil {
		return s.PortfolioAuthorizer.AuthorizeUserAction(ctx, userID, portfolioID, requiredRole)
	}
	// No authorizer wired means unit-test wiring; grant and say so.
	s.LogDebug(ctx, "No portfolio authorizer provided, access granted by default",
		slog.String("user_id", userID),
		slog.String("portfolio_id", portfolioID),
		slog.String("required_role", string(requiredRole)))
	return nil
}
