package repository

import (
	"context"
	"errors"

	"github.com/Muhammet-Aksoy/stokv1/internal/model"

	"gorm.io/gorm"
)

// DebtRepository is only written through bulk sync, so every mutating method
// is a Tx variant.
type DebtRepository interface {
	CreateTx(tx *gorm.DB, d *model.Debt) error
	FindByIDTx(tx *gorm.DB, id string) (*model.Debt, error)
	UpdateFieldsTx(tx *gorm.DB, id string, fields map[string]any) error
	ListAll(ctx context.Context) ([]model.Debt, error)
	Count(ctx context.Context) (int64, error)
}

type debtRepo struct{ db *gorm.DB }

func NewDebtRepository(db *gorm.DB) DebtRepository { return &debtRepo{db: db} }

func (r *debtRepo) CreateTx(tx *gorm.DB, d *model.Debt) error {
	return tx.Create(d).Error
}

func (r *debtRepo) FindByIDTx(tx *gorm.DB, id string) (*model.Debt, error) {
	var d model.Debt
	err := tx.First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *debtRepo) UpdateFieldsTx(tx *gorm.DB, id string, fields map[string]any) error {
	return tx.Model(&model.Debt{}).Where("id = ?", id).Updates(fields).Error
}

func (r *debtRepo) ListAll(ctx context.Context) ([]model.Debt, error) {
	var debts []model.Debt
	err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&debts).Error
	return debts, err
}

func (r *debtRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Debt{}).Count(&n).Error
	return n, err
}
