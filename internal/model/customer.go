package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer id is caller-supplied (offline clients mint their own) or
// server-generated when absent. Balance may go negative.
type Customer struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Phone     string
	Address   string
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Customer) TableName() string { return "musteriler" }
