package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// TradePayload is the JSON shape of one journal entry.
type TradePayload struct {
	ID            string          `json:"id"`
	ShareholderID uint            `json:"shareholder_id"`
	CompanyID     uint            `json:"company_id"`
	BrokerID      uint            `json:"broker_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Type          string          `json:"type"`
	ExecutedAt    time.Time       `json:"executed_at"`
}

// HoldingPayload is the JSON shape of one ledger holding.
type HoldingPayload struct {
	ShareholderID uint  `json:"shareholder_id"`
	ShareID       uint  `json:"share_id"`
	Amount        int64 `json:"amount"`
}

// TradeResponse is the success payload of a buy or sell.
// Holding is omitted when a sell exhausted the position.
type TradeResponse struct {
	Trade   TradePayload    `json:"trade"`
	Holding *HoldingPayload `json:"holding,omitempty"`
}

// NewTradePayload converts a journal entity to its JSON shape.
func NewTradePayload(t *entity.Trade) TradePayload {
	return TradePayload{
		ID:            t.ID,
		ShareholderID: t.ShareholderID,
		CompanyID:     t.CompanyID,
		BrokerID:      t.BrokerID,
		Quantity:      t.Quantity,
		UnitPrice:     t.UnitPrice,
		Type:          string(t.Type),
		ExecutedAt:    t.ExecutedAt,
	}
}

// NewTradeResponse converts an engine result to the transport payload.
func NewTradeResponse(res *usecase.TradeResult) TradeResponse {
	out := TradeResponse{Trade: NewTradePayload(res.Trade)}
	if res.Holding != nil {
		out.Holding = &HoldingPayload{
			ShareholderID: res.Holding.ShareholderID,
			ShareID:       res.Holding.ShareID,
			Amount:        res.Holding.Amount,
		}
	}
	return out
}
