package http

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"futfolio/internal/domain"
	"futfolio/internal/service"
)

// defaultTrendingLimit bounds trending/movers queries with no explicit limit.
const defaultTrendingLimit = 10

// MarketHandler handles market trending requests. Summary thresholds fall
// back to the configured defaults when the query omits them.
type MarketHandler struct {
	trending      *service.TrendingService
	riseThreshold float64
	fallThreshold float64
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(trending *service.TrendingService, riseThreshold, fallThreshold float64) *MarketHandler {
	return &MarketHandler{
		trending:      trending,
		riseThreshold: riseThreshold,
		fallThreshold: fallThreshold,
	}
}

func parseWindow(c echo.Context) (domain.TrendWindow, bool) {
	window := domain.TrendWindow(c.QueryParam("window"))
	if window == "" {
		window = domain.Window24h
	}
	return window, domain.ValidWindow(window)
}

func parseLimit(c echo.Context) int {
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return defaultTrendingLimit
}

// GetTrending returns the biggest movers over a window
// GET /api/market/trending?window=24h&direction=all&limit=10
func (h *MarketHandler) GetTrending(c echo.Context) error {
	window, ok := parseWindow(c)
	if !ok {
		return BadRequestResponse(c, "Window must be 6h, 12h or 24h")
	}

	direction := c.QueryParam("direction")
	if direction == "" {
		direction = domain.DirectionAll
	}
	if !domain.ValidDirection(direction) {
		return BadRequestResponse(c, "Direction must be rising, falling or all")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cards, err := h.trending.GetTrendingCards(ctx, window, direction, parseLimit(c))
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute trending cards", err)
	}

	return SuccessResponse(c, cards)
}

// GetSummary classifies the market into trending/falling/stable counts
// GET /api/market/summary?window=24h&rise=5&fall=5
func (h *MarketHandler) GetSummary(c echo.Context) error {
	window, ok := parseWindow(c)
	if !ok {
		return BadRequestResponse(c, "Window must be 6h, 12h or 24h")
	}

	rise := h.riseThreshold
	if raw := c.QueryParam("rise"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return BadRequestResponse(c, "Rise threshold must be a non-negative number")
		}
		rise = v
	}

	fall := h.fallThreshold
	if raw := c.QueryParam("fall"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return BadRequestResponse(c, "Fall threshold must be a non-negative number")
		}
		fall = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	summary, err := h.trending.GetMarketSummary(ctx, window, rise, fall)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute market summary", err)
	}

	return SuccessResponse(c, summary)
}

// GetMovers returns top gainers and losers over 24h
// GET /api/market/movers?limit=10
func (h *MarketHandler) GetMovers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	movers, err := h.trending.GetMarketMovers(ctx, parseLimit(c))
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute market movers", err)
	}

	return SuccessResponse(c, movers)
}
