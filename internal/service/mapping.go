package service

import (
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"
)

func productKeyString(p *model.Product) string {
	return identity.ProductKey{Code: p.Code, Brand: p.Brand, Variant: p.Variant}.String()
}

func productToRecord(p *model.Product) dto.ProductRecord {
	return dto.ProductRecord{
		ID:        p.ID.String(),
		Code:      p.Code,
		Brand:     p.Brand,
		Variant:   p.Variant,
		Name:      p.Name,
		Quantity:  p.Quantity,
		CostPrice: p.CostPrice,
		SalePrice: p.SalePrice,
		Category:  p.Category,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func saleToRecord(s *model.Sale) dto.SaleRecord {
	return dto.SaleRecord{
		ID:              s.ID.String(),
		Code:            s.Code,
		ProductName:     s.ProductName,
		Quantity:        s.Quantity,
		UnitPrice:       s.UnitPrice,
		CostPriceAtSale: s.CostPriceAtSale,
		CustomerID:      s.CustomerID,
		Timestamp:       s.Timestamp,
		OnCredit:        s.OnCredit,
		Total:           s.Total,
	}
}

func customerToRecord(c *model.Customer) dto.CustomerRecord {
	return dto.CustomerRecord{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func debtToRecord(d *model.Debt) dto.DebtRecord {
	return dto.DebtRecord{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		Amount:      d.Amount,
		Description: d.Description,
		Timestamp:   d.Timestamp,
	}
}
