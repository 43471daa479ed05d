package repository

import (
	"context"
	"errors"

	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository is the narrow store contract the sync engine depends on.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
//
// Identity lookups return (nil, nil) when no row matches — "absent" is a
// normal merge outcome, not an error.
//
// Tx variants take the transaction handle explicitly: every operation of one
// bulk merge must run inside a single transaction so a crash mid-merge leaves
// either the pre-sync or the fully post-sync state.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIdentity(ctx context.Context, key identity.ProductKey) (*model.Product, error)
	FindByIdentityTx(tx *gorm.DB, key identity.ProductKey) (*model.Product, error)
	FindAllByCode(ctx context.Context, code string) ([]model.Product, error)
	FirstByCodeTx(tx *gorm.DB, code string) (*model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Save(ctx context.Context, p *model.Product) error
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	// DeleteByCode removes ALL rows sharing the code, not one identity.
	DeleteByCode(ctx context.Context, code string) (int64, error)
	UpdateFieldsByCode(ctx context.Context, code string, fields map[string]any) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func findByIdentity(db *gorm.DB, key identity.ProductKey) (*model.Product, error) {
	var p model.Product
	err := db.Where("code = ? AND brand = ? AND variant = ?", key.Code, key.Brand, key.Variant).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIdentity(ctx context.Context, key identity.ProductKey) (*model.Product, error) {
	return findByIdentity(r.db.WithContext(ctx), key)
}

func (r *productRepo) FindByIdentityTx(tx *gorm.DB, key identity.ProductKey) (*model.Product, error) {
	return findByIdentity(tx, key)
}

func (r *productRepo) FindAllByCode(ctx context.Context, code string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("brand ASC, variant ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FirstByCodeTx(tx *gorm.DB, code string) (*model.Product, error) {
	var p model.Product
	err := tx.Where("code = ?", code).Order("brand ASC, variant ASC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) Save(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *productRepo) DeleteByCode(ctx context.Context, code string) (int64, error) {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Product{})
	return res.RowsAffected, res.Error
}

func (r *productRepo) UpdateFieldsByCode(ctx context.Context, code string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("code = ?", code).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct("category").
		Where("category IS NOT NULL AND category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }
