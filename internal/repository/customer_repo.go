package repository

import (
	"context"
	"errors"

	"github.com/Muhammet-Aksoy/stokv1/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Upsert(ctx context.Context, c *model.Customer) error
	CreateTx(tx *gorm.DB, c *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindByIDTx(tx *gorm.DB, id string) (*model.Customer, error)
	UpdateFieldsTx(tx *gorm.DB, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (int64, error)
	ListAll(ctx context.Context) ([]model.Customer, error)
	Count(ctx context.Context) (int64, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

// Upsert implements the insert-or-replace semantics of the direct add
// endpoint. Bulk sync does NOT use this — it diffs and updates field-wise.
func (r *customerRepo) Upsert(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) CreateTx(tx *gorm.DB, c *model.Customer) error {
	return tx.Create(c).Error
}

func findCustomerByID(db *gorm.DB, id string) (*model.Customer, error) {
	var c model.Customer
	err := db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return findCustomerByID(r.db.WithContext(ctx), id)
}

func (r *customerRepo) FindByIDTx(tx *gorm.DB, id string) (*model.Customer, error) {
	return findCustomerByID(tx, id)
}

func (r *customerRepo) UpdateFieldsTx(tx *gorm.DB, id string, fields map[string]any) error {
	return tx.Model(&model.Customer{}).Where("id = ?", id).Updates(fields).Error
}

func (r *customerRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *customerRepo) ListAll(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, err
}
