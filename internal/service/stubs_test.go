package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so runTx calls the merge body
// directly, without a real transaction. failCodes/failIDs inject per-record
// store errors to exercise fault absorption.

var errStub = errors.New("stub: store failure")

type stubProductRepo struct {
	rows      []*model.Product
	failCodes map[string]bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{failCodes: map[string]bool{}}
}

func (r *stubProductRepo) keyOf(p *model.Product) identity.ProductKey {
	return identity.ProductKey{Code: p.Code, Brand: p.Brand, Variant: p.Variant}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if r.failCodes[p.Code] {
		return errStub
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for _, p := range r.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByIdentity(_ context.Context, key identity.ProductKey) (*model.Product, error) {
	return r.FindByIdentityTx(nil, key)
}

func (r *stubProductRepo) FindByIdentityTx(_ *gorm.DB, key identity.ProductKey) (*model.Product, error) {
	if r.failCodes[key.Code] {
		return nil, errStub
	}
	for _, p := range r.rows {
		if r.keyOf(p) == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubProductRepo) FindAllByCode(_ context.Context, code string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.rows {
		if p.Code == code {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Variant < out[j].Variant
	})
	return out, nil
}

func (r *stubProductRepo) FirstByCodeTx(_ *gorm.DB, code string) (*model.Product, error) {
	rows, _ := r.FindAllByCode(context.Background(), code)
	if len(rows) == 0 {
		return nil, nil
	}
	cp := rows[0]
	return &cp, nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	for i, row := range r.rows {
		if row.ID == p.ID {
			cp := *p
			cp.UpdatedAt = time.Now().UTC()
			r.rows[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	for _, p := range r.rows {
		if p.ID != id {
			continue
		}
		if r.failCodes[p.Code] {
			return errStub
		}
		applyProductFields(p, fields)
		p.UpdatedAt = time.Now().UTC()
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	return r.UpdateFieldsTx(nil, id, map[string]any{"quantity": quantity})
}

func (r *stubProductRepo) DeleteByCode(_ context.Context, code string) (int64, error) {
	var kept []*model.Product
	var n int64
	for _, p := range r.rows {
		if p.Code == code {
			n++
			continue
		}
		kept = append(kept, p)
	}
	r.rows = kept
	return n, nil
}

func (r *stubProductRepo) UpdateFieldsByCode(_ context.Context, code string, fields map[string]any) (int64, error) {
	var n int64
	for _, p := range r.rows {
		if p.Code != code {
			continue
		}
		applyProductFields(p, fields)
		n++
	}
	return n, nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.rows {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) { return int64(len(r.rows)), nil }
func (r *stubProductRepo) DB() *gorm.DB                           { return nil }

func applyProductFields(p *model.Product, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "quantity":
			p.Quantity = v.(int)
		case "sale_price":
			p.SalePrice = v.(decimal.Decimal)
		case "cost_price":
			p.CostPrice = v.(decimal.Decimal)
		case "category":
			p.Category = v.(string)
		case "note":
			p.Note = v.(string)
		}
	}
}

type stubSaleRepo struct {
	rows []*model.Sale
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{} }

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error { return r.CreateTx(nil, s) }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *stubSaleRepo) ExistsByIdentity(_ context.Context, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error) {
	return r.ExistsByIdentityTx(nil, code, ts, quantity, unitPrice)
}

func (r *stubSaleRepo) ExistsByIdentityTx(_ *gorm.DB, code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (bool, error) {
	want, err := identity.SaleKeyOf(code, ts, quantity, unitPrice)
	if err != nil {
		return false, err
	}
	for _, s := range r.rows {
		got, err := identity.SaleKeyOf(s.Code, s.Timestamp, s.Quantity, s.UnitPrice)
		if err != nil {
			continue
		}
		if got == want {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSaleRepo) ListAll(_ context.Context) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *stubSaleRepo) Count(_ context.Context) (int64, error) { return int64(len(r.rows)), nil }

type stubCustomerRepo struct {
	rows    map[string]*model.Customer
	failIDs map[string]bool
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{rows: map[string]*model.Customer{}, failIDs: map[string]bool{}}
}

func (r *stubCustomerRepo) Upsert(_ context.Context, c *model.Customer) error {
	cp := *c
	cp.UpdatedAt = time.Now().UTC()
	r.rows[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) CreateTx(_ *gorm.DB, c *model.Customer) error {
	if r.failIDs[c.ID] {
		return errStub
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*model.Customer, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubCustomerRepo) FindByIDTx(_ *gorm.DB, id string) (*model.Customer, error) {
	if r.failIDs[id] {
		return nil, errStub
	}
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) UpdateFieldsTx(_ *gorm.DB, id string, fields map[string]any) error {
	c, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "address":
			c.Address = v.(string)
		case "balance":
			c.Balance = v.(decimal.Decimal)
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *stubCustomerRepo) ListAll(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCustomerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type stubDebtRepo struct {
	rows map[string]*model.Debt
}

func newStubDebtRepo() *stubDebtRepo { return &stubDebtRepo{rows: map[string]*model.Debt{}} }

func (r *stubDebtRepo) CreateTx(_ *gorm.DB, d *model.Debt) error {
	cp := *d
	r.rows[d.ID] = &cp
	return nil
}

func (r *stubDebtRepo) FindByIDTx(_ *gorm.DB, id string) (*model.Debt, error) {
	d, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *stubDebtRepo) UpdateFieldsTx(_ *gorm.DB, id string, fields map[string]any) error {
	d, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "customer_id":
			d.CustomerID = v.(string)
		case "amount":
			d.Amount = v.(decimal.Decimal)
		case "description":
			d.Description = v.(string)
		case "timestamp":
			d.Timestamp = v.(time.Time)
		}
	}
	return nil
}

func (r *stubDebtRepo) ListAll(_ context.Context) ([]model.Debt, error) {
	out := make([]model.Debt, 0, len(r.rows))
	for _, d := range r.rows {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubDebtRepo) Count(_ context.Context) (int64, error) { return int64(len(r.rows)), nil }
