// Package handler はtradingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/transport/http/dto"
	"trading_backend/internal/feature/trading/usecase"
	jwtmw "trading_backend/internal/platform/jwt"
)

// TradingUsecase は取引実行エンジンのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type TradingUsecase interface {
	// Buy は株式の購入を実行します。
	Buy(ctx context.Context, shareholderID, shareID, brokerID uint, quantity int64) (*usecase.TradeResult, error)
	// Sell は株式の売却を実行します。
	Sell(ctx context.Context, shareholderID, shareID, brokerID uint, quantity int64) (*usecase.TradeResult, error)
	// Trades は株主の取引履歴を新しい順に返します。
	Trades(ctx context.Context, shareholderID uint) ([]entity.Trade, error)
}

// TradeHandler は取引操作のHTTPリクエストを処理します。
type TradeHandler struct {
	trading TradingUsecase
}

// NewTradeHandler はTradeHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からTradingUsecaseを注入します。
func NewTradeHandler(trading TradingUsecase) *TradeHandler {
	return &TradeHandler{trading: trading}
}

// statusForTradeError maps the trade error taxonomy to HTTP status codes.
// Unknown errors are treated as opaque persistence failures.
func statusForTradeError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuantity):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrShareholderNotFound),
		errors.Is(err, usecase.ErrShareNotFound),
		errors.Is(err, usecase.ErrBrokerNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, usecase.ErrNoHoldings),
		errors.Is(err, usecase.ErrInsufficientInventory),
		errors.Is(err, usecase.ErrInsufficientHoldings),
		errors.Is(err, usecase.ErrConcurrencyConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Buy は購入APIエンドポイントを処理します。
// - リクエストJSONをTradeReqにバインド
// - 認証済み株主のIDをトークンコンテキストから取得
// - エラー種別をHTTPステータスへマッピング
// - 成功時は201で新しい取引と保有を返却
func (h *TradeHandler) Buy(c *gin.Context) {
	h.execute(c, entity.TradeTypeBuy)
}

// Sell は売却APIエンドポイントを処理します。
// 全量売却の場合、レスポンスのholdingは省略されます。
func (h *TradeHandler) Sell(c *gin.Context) {
	h.execute(c, entity.TradeTypeSell)
}

func (h *TradeHandler) execute(c *gin.Context, tradeType entity.TradeType) {
	shareholderID, ok := jwtmw.ShareholderID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing shareholder identity"})
		return
	}

	var req dto.TradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("trade validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var (
		res *usecase.TradeResult
		err error
	)
	if tradeType == entity.TradeTypeBuy {
		res, err = h.trading.Buy(c.Request.Context(), shareholderID, req.ShareID, req.BrokerID, req.Quantity)
	} else {
		res, err = h.trading.Sell(c.Request.Context(), shareholderID, req.ShareID, req.BrokerID, req.Quantity)
	}
	if err != nil {
		status, msg := statusForTradeError(err)
		slog.Warn("trade rejected",
			"type", string(tradeType),
			"shareholder_id", shareholderID,
			"share_id", req.ShareID,
			"quantity", req.Quantity,
			"error", err,
		)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	slog.Info("trade executed",
		"type", string(tradeType),
		"trade_id", res.Trade.ID,
		"shareholder_id", shareholderID,
		"share_id", req.ShareID,
		"quantity", req.Quantity,
		"unit_price", res.Trade.UnitPrice.String(),
	)
	c.JSON(http.StatusCreated, dto.NewTradeResponse(res))
}

// List は認証済み株主の取引履歴APIエンドポイントを処理します。
func (h *TradeHandler) List(c *gin.Context) {
	shareholderID, ok := jwtmw.ShareholderID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing shareholder identity"})
		return
	}

	trades, err := h.trading.Trades(c.Request.Context(), shareholderID)
	if err != nil {
		status, msg := statusForTradeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	out := make([]dto.TradePayload, 0, len(trades))
	for i := range trades {
		out = append(out, dto.NewTradePayload(&trades[i]))
	}
	c.JSON(http.StatusOK, gin.H{"trades": out})
}
