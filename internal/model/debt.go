package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt references a customer by id. Referential integrity is not enforced at
// write time: offline clients may submit a debt before the customer row has
// synced within the same snapshot.
type Debt struct {
	ID          string          `gorm:"primaryKey"`
	CustomerID  string          `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Description string
	Timestamp   time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
}

func (Debt) TableName() string { return "borclarim" }
