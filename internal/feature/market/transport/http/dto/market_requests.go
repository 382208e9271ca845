// Package dto defines data transfer objects for the market feature's HTTP transport layer.
package dto

import "github.com/shopspring/decimal"

// CreateExchangeReq represents the request body for the /exchanges endpoint.
type CreateExchangeReq struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
}

// CreateCompanyReq represents the request body for the /companies endpoint.
type CreateCompanyReq struct {
	Name       string `json:"name" binding:"required"`
	Ticker     string `json:"ticker" binding:"required"`
	ExchangeID uint   `json:"exchange_id" binding:"required"`
}

// CreateBrokerReq represents the request body for the /brokers endpoint.
type CreateBrokerReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// CreateShareReq represents the request body for the /shares endpoint.
// Price is validated by the usecase so that a non-positive value is reported
// through the market error taxonomy rather than a binding error.
type CreateShareReq struct {
	CompanyID         uint            `json:"company_id" binding:"required"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int64           `json:"available_quantity"`
}

// UpdatePriceReq represents the request body for the /shares/:id/price endpoint.
type UpdatePriceReq struct {
	Price decimal.Decimal `json:"price"`
}
