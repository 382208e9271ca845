package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/feature/trading/usecase"
	jwtmw "trading_backend/internal/platform/jwt"
)

// PortfolioUsecase はポートフォリオ参照のユースケースを定義します。
type PortfolioUsecase interface {
	// Portfolio は株主のポートフォリオスナップショットを返します。
	Portfolio(ctx context.Context, shareholderID uint) (*usecase.PortfolioSnapshot, error)
}

// PortfolioHandler はポートフォリオ参照のHTTPリクエストを処理します。
type PortfolioHandler struct {
	portfolio PortfolioUsecase
}

// NewPortfolioHandler はPortfolioHandlerの新しいインスタンスを生成します。
func NewPortfolioHandler(portfolio PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// Get は認証済み株主のポートフォリオスナップショットを返します。
func (h *PortfolioHandler) Get(c *gin.Context) {
	shareholderID, ok := jwtmw.ShareholderID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing shareholder identity"})
		return
	}

	snapshot, err := h.portfolio.Portfolio(c.Request.Context(), shareholderID)
	if err != nil {
		if errors.Is(err, usecase.ErrShareholderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
