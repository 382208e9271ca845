// Package handler はmarketフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/market/transport/http/dto"
	"trading_backend/internal/feature/market/usecase"
)

// MarketUsecase は参照データ管理と価格変更のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type MarketUsecase interface {
	CreateExchange(ctx context.Context, name, country string) (*entity.Exchange, error)
	ListExchanges(ctx context.Context) ([]entity.Exchange, error)
	CreateCompany(ctx context.Context, name, ticker string, exchangeID uint) (*entity.Company, error)
	ListCompanies(ctx context.Context) ([]entity.Company, error)
	CreateBroker(ctx context.Context, name, email string) (*entity.Broker, error)
	ListBrokers(ctx context.Context) ([]entity.Broker, error)
	CreateShare(ctx context.Context, companyID uint, price decimal.Decimal, availableQuantity int64) (*entity.Share, error)
	ListShares(ctx context.Context) ([]entity.Share, error)
	GetShare(ctx context.Context, id uint) (*entity.Share, error)
	UpdateSharePrice(ctx context.Context, id uint, price decimal.Decimal) (*entity.Share, error)
}

// MarketHandler は参照データ管理のHTTPリクエストを処理します。
type MarketHandler struct {
	market MarketUsecase
}

// NewMarketHandler はMarketHandlerの新しいインスタンスを生成します。
func NewMarketHandler(market MarketUsecase) *MarketHandler {
	return &MarketHandler{market: market}
}

// statusForMarketError maps the market error taxonomy to HTTP status codes.
func statusForMarketError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidQuantity):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrExchangeNotFound),
		errors.Is(err, usecase.ErrCompanyNotFound),
		errors.Is(err, usecase.ErrShareNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, usecase.ErrAlreadyExists),
		errors.Is(err, usecase.ErrConcurrencyConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// CreateExchange は取引所登録APIエンドポイントを処理します。
func (h *MarketHandler) CreateExchange(c *gin.Context) {
	var req dto.CreateExchangeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	exchange, err := h.market.CreateExchange(c.Request.Context(), req.Name, req.Country)
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, exchange)
}

// ListExchanges は取引所一覧APIエンドポイントを処理します。
func (h *MarketHandler) ListExchanges(c *gin.Context) {
	exchanges, err := h.market.ListExchanges(c.Request.Context())
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": exchanges})
}

// CreateCompany は企業登録APIエンドポイントを処理します。
func (h *MarketHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	company, err := h.market.CreateCompany(c.Request.Context(), req.Name, req.Ticker, req.ExchangeID)
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, company)
}

// ListCompanies は企業一覧APIエンドポイントを処理します。
func (h *MarketHandler) ListCompanies(c *gin.Context) {
	companies, err := h.market.ListCompanies(c.Request.Context())
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// CreateBroker はブローカー登録APIエンドポイントを処理します。
func (h *MarketHandler) CreateBroker(c *gin.Context) {
	var req dto.CreateBrokerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	broker, err := h.market.CreateBroker(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, broker)
}

// ListBrokers はブローカー一覧APIエンドポイントを処理します。
func (h *MarketHandler) ListBrokers(c *gin.Context) {
	brokers, err := h.market.ListBrokers(c.Request.Context())
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brokers": brokers})
}

// CreateShare は株式発行APIエンドポイントを処理します。
func (h *MarketHandler) CreateShare(c *gin.Context) {
	var req dto.CreateShareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	share, err := h.market.CreateShare(c.Request.Context(), req.CompanyID, req.Price, req.AvailableQuantity)
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, share)
}

// ListShares は株式一覧APIエンドポイントを処理します。
func (h *MarketHandler) ListShares(c *gin.Context) {
	shares, err := h.market.ListShares(c.Request.Context())
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

// GetShare は株式取得APIエンドポイントを処理します。
func (h *MarketHandler) GetShare(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid share id"})
		return
	}
	share, err := h.market.GetShare(c.Request.Context(), id)
	if err != nil {
		status, msg := statusForMarketError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, share)
}

// UpdateSharePrice は価格変更APIエンドポイントを処理します。
// 価格の永続化後、その株式を保有する全株主の評価額が再計算されます。
func (h *MarketHandler) UpdateSharePrice(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid share id"})
		return
	}
	var req dto.UpdatePriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	share, err := h.market.UpdateSharePrice(c.Request.Context(), id, req.Price)
	if err != nil {
		status, msg := statusForMarketError(err)
		slog.Warn("share price update failed", "share_id", id, "error", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	slog.Info("share price updated", "share_id", id, "price", share.Price.String())
	c.JSON(http.StatusOK, share)
}

// parseIDParam reads the :id path parameter.
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
