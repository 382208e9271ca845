// Package dto defines data transfer objects for the trading feature's HTTP transport layer.
package dto

// TradeReq represents the request body for the /trades/buy and /trades/sell endpoints.
// Quantity is validated by the engine so that a non-positive value is reported
// through the trade error taxonomy rather than a binding error.
type TradeReq struct {
	ShareID  uint  `json:"share_id" binding:"required"`
	BrokerID uint  `json:"broker_id" binding:"required"`
	Quantity int64 `json:"quantity"`
}
