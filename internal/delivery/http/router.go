package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "futfolio/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	TradeHandler     *TradeHandler
	AnalyticsHandler *AnalyticsHandler
	MarketHandler    *MarketHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for health polling to reduce noise
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "futfolio-api",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.POST("/register", config.AuthHandler.Register)
	}

	// Trade ledger routes (protected with AuthMiddleware)
	trades := api.Group("/trades", custommiddleware.AuthMiddleware)
	{
		trades.GET("", config.TradeHandler.List)
		trades.POST("", config.TradeHandler.Create)
		trades.GET("/export", config.TradeHandler.Export)
		trades.POST("/import", config.TradeHandler.Import)
		trades.GET("/:id", config.TradeHandler.Get)
		trades.PUT("/:id", config.TradeHandler.Update)
		trades.DELETE("/:id", config.TradeHandler.Delete)
	}

	// Analytics routes (protected)
	analytics := api.Group("/analytics", custommiddleware.AuthMiddleware)
	{
		analytics.GET("/portfolio", config.AnalyticsHandler.GetPortfolio)
	}

	// Market trend routes (public)
	market := api.Group("/market")
	{
		market.GET("/trending", config.MarketHandler.GetTrending)
		market.GET("/summary", config.MarketHandler.GetSummary)
		market.GET("/movers", config.MarketHandler.GetMovers)
	}
}
