package dto

import "github.com/shopspring/decimal"

type AddCustomerRequest struct {
	// ID is optional: offline clients mint their own, the server generates
	// one otherwise. Upsert semantics — an existing id is replaced.
	ID      string          `json:"id"`
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

type CustomerResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    CustomerRecord `json:"data"`
}
