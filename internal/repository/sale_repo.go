package repository

import (
	"context"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository is append-only: there is deliberately no update or delete
// method. Duplicate detection happens on the full sale identity
// (code, timestamp, quantity, unitPrice) before insert.
type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	CreateTx(tx *gorm.DB, s *model.Sale) error
	ExistsByIdentity(ctx context.Context, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error)
	ExistsByIdentityTx(tx *gorm.DB, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error)
	ListAll(ctx context.Context) ([]model.Sale, error)
	Count(ctx context.Context) (int64, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

// existsByIdentity queries with the components of the derived identity.SaleKey
// so the store-side comparison and the in-memory key agree: the timestamp is
// normalized to UTC and the unit price to its canonical decimal string, which
// the numeric column compares by value ("3.5" matches a stored 3.50).
func existsByIdentity(db *gorm.DB, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error) {
	key, err := identity.SaleKeyOf(code, ts, quantity, unitPrice)
	if err != nil {
		return false, err
	}
	var n int64
	err = db.Model(&model.Sale{}).
		Where("code = ? AND timestamp = ? AND quantity = ? AND unit_price = ?",
			key.Code, time.Unix(0, key.Timestamp).UTC(), key.Quantity, key.UnitPrice).
		Count(&n).Error
	return n > 0, err
}

func (r *saleRepo) ExistsByIdentity(ctx context.Context, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error) {
	return existsByIdentity(r.db.WithContext(ctx), code, ts, quantity, unitPrice)
}

func (r *saleRepo) ExistsByIdentityTx(tx *gorm.DB, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error) {
	return existsByIdentity(tx, code, ts, quantity, unitPrice)
}

func (r *saleRepo) ListAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).Count(&n).Error
	return n, err
}
