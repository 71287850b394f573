package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"futfolio/internal/middleware"
	"futfolio/internal/service"
)

// AnalyticsHandler handles portfolio analytics requests
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
	}
}

// GetPortfolio returns the aggregate statistics for the user's ledger.
// Sparse or empty ledgers return a zeroed result, never an error.
// GET /api/analytics/portfolio
func (h *AnalyticsHandler) GetPortfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := h.analytics.GetPortfolioAnalytics(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute portfolio analytics", err)
	}

	return SuccessResponse(c, result)
}
