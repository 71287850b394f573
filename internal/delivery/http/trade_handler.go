package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"futfolio/internal/delivery/http/dto"
	"futfolio/internal/domain"
	"futfolio/internal/middleware"
	"futfolio/internal/usecase"
)

// TradeHandler handles trade ledger requests
type TradeHandler struct {
	tradeService *usecase.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradeService *usecase.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

func tradeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return BadRequestResponse(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return NotFoundResponse(c, "Trade not found")
	default:
		return InternalServerErrorResponse(c, "Trade operation failed", err)
	}
}

// List returns the user's trades with optional filters
// GET /api/trades?tag=&platform=&status=&sort=&limit=&offset=
func (h *TradeHandler) List(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var filter domain.TradeFilter
	if tag := c.QueryParam("tag"); tag != "" {
		filter.Tag = &tag
	}
	if platform := c.QueryParam("platform"); platform != "" {
		filter.Platform = &platform
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}

	sort := domain.TradeSort(c.QueryParam("sort"))
	if sort == "" {
		sort = domain.SortByDateDesc
	}

	var page domain.Pagination
	if limit := c.QueryParam("limit"); limit != "" {
		page.Limit, _ = strconv.Atoi(limit)
	}
	if offset := c.QueryParam("offset"); offset != "" {
		page.Offset, _ = strconv.Atoi(offset)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trades, err := h.tradeService.ListTrades(ctx, userID, filter, sort, page)
	if err != nil {
		return tradeError(c, err)
	}
	if trades == nil {
		trades = []*domain.Trade{}
	}

	return SuccessResponse(c, trades)
}

// Create enters a new trade
// POST /api/trades
func (h *TradeHandler) Create(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trade, err := h.tradeService.CreateTrade(ctx, userID, usecase.CreateTradeInput{
		SubjectName:   req.SubjectName,
		SubjectRating: req.SubjectRating,
		Platform:      req.Platform,
		BuyPrice:      req.BuyPrice,
		SellPrice:     req.SellPrice,
		Quantity:      req.Quantity,
		Status:        req.Status,
		TradeDate:     req.TradeDate,
		Tag:           req.Tag,
		Notes:         req.Notes,
	})
	if err != nil {
		return tradeError(c, err)
	}

	return CreatedResponse(c, trade)
}

// Get returns a single trade
// GET /api/trades/:id
func (h *TradeHandler) Get(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trade, err := h.tradeService.GetTrade(ctx, tradeID, userID)
	if err != nil {
		return tradeError(c, err)
	}

	return SuccessResponse(c, trade)
}

// Update edits a trade; derived fields are recomputed server-side
// PUT /api/trades/:id
func (h *TradeHandler) Update(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade ID")
	}

	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trade, err := h.tradeService.UpdateTrade(ctx, tradeID, userID, usecase.UpdateTradeInput{
		SubjectName:    req.SubjectName,
		SubjectRating:  req.SubjectRating,
		Platform:       req.Platform,
		BuyPrice:       req.BuyPrice,
		SellPrice:      req.SellPrice,
		ClearSellPrice: req.ClearSellPrice,
		Quantity:       req.Quantity,
		Status:         req.Status,
		TradeDate:      req.TradeDate,
		Tag:            req.Tag,
		Notes:          req.Notes,
	})
	if err != nil {
		return tradeError(c, err)
	}

	return SuccessResponse(c, trade)
}

// Delete removes a trade
// DELETE /api/trades/:id
func (h *TradeHandler) Delete(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.tradeService.DeleteTrade(ctx, tradeID, userID); err != nil {
		return tradeError(c, err)
	}

	return SuccessResponse(c, map[string]string{"message": "Trade deleted"})
}

// Export streams the user's ledger as CSV
// GET /api/trades/export
func (h *TradeHandler) Export(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="trades.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	return h.tradeService.ExportTrades(ctx, userID, c.Response())
}

// Import creates trades from an uploaded CSV body
// POST /api/trades/import
func (h *TradeHandler) Import(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	imported, err := h.tradeService.ImportTrades(ctx, userID, c.Request().Body)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return BadRequestResponse(c, err.Error())
		}
		return InternalServerErrorResponse(c, "Import failed", err)
	}

	return CreatedResponse(c, dto.ImportResult{Imported: imported})
}
