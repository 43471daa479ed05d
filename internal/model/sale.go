package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is one line of the sales ledger. Rows are append-only: there is no
// update path anywhere in the codebase — cancellations and corrections are
// handled on the client and reconciled as new rows. UnitPrice is the price
// at the moment of sale and may differ from the product's current SalePrice.
type Sale struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code            string    `gorm:"index;not null"`
	ProductName     string
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CostPriceAtSale decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CustomerID      *string         `gorm:"index"`
	Timestamp       time.Time       `gorm:"index;not null"`
	OnCredit        bool            `gorm:"not null;default:false"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt       time.Time
}

func (s *Sale) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Sale) TableName() string { return "satis_gecmisi" }
