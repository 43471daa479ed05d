package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AddSaleRequest struct {
	Code            string          `json:"code"      validate:"required,min=1,max=64"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"  validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"min=0"`
	CostPriceAtSale decimal.Decimal `json:"costPriceAtSale"`
	CustomerID      *string         `json:"customerId"`
	// Timestamp defaults to now when zero; offline clients send the original
	// sale time so that retried submissions deduplicate.
	Timestamp time.Time       `json:"timestamp"`
	OnCredit  bool            `json:"onCredit"`
	Total     decimal.Decimal `json:"total"`
}

type SaleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Data carries the recorded ledger entry. Absent on duplicates: the
	// submitted struct was never inserted, so it has no stored id to echo.
	Data *SaleRecord `json:"data,omitempty"`
	// Duplicate is true when an identical ledger entry already existed and
	// the submission was absorbed without writing.
	Duplicate bool `json:"duplicate,omitempty"`
}
