package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a single stock row. Code is the merchant-assigned barcode and is
// deliberately NOT unique on its own: the same code may map to several rows
// that differ in Brand or Variant. Uniqueness holds over the full
// (code, brand, variant) triple — see internal/identity.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code      string          `gorm:"uniqueIndex:idx_product_identity;index:idx_product_code;not null"`
	Brand     string          `gorm:"uniqueIndex:idx_product_identity;not null;default:''"`
	Variant   string          `gorm:"uniqueIndex:idx_product_identity;not null;default:''"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null;default:0"`
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SalePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Category  string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns the surrogate id application-side so the model works
// unchanged on both the Postgres and SQLite drivers.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName keeps the original table name from the legacy database.
func (Product) TableName() string { return "stok" }
