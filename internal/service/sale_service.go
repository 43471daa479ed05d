package service

import (
	"context"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/broadcast"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService records sales on the append-only ledger. Submitting the same
// sale twice (same code, timestamp, quantity and unit price) is absorbed as
// a duplicate without a second write or a second stock decrement.
type SaleService interface {
	Add(ctx context.Context, originSession string, req dto.AddSaleRequest) (*dto.SaleResponse, error)
}

type saleService struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	hub      *broadcast.Hub
}

func NewSaleService(products repository.ProductRepository, sales repository.SaleRepository, hub *broadcast.Hub) SaleService {
	return &saleService{products: products, sales: sales, hub: hub}
}

func (s *saleService) Add(ctx context.Context, originSession string, req dto.AddSaleRequest) (*dto.SaleResponse, error) {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	ts = ts.UTC()

	total := req.Total
	if total.IsZero() {
		total = req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	}

	sale := &model.Sale{
		Code:            req.Code,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		CostPriceAtSale: req.CostPriceAtSale,
		CustomerID:      req.CustomerID,
		Timestamp:       ts,
		OnCredit:        req.OnCredit,
		Total:           total,
	}

	duplicate := false
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		exists, err := s.sales.ExistsByIdentityTx(tx, req.Code, ts, req.Quantity, req.UnitPrice)
		if err != nil {
			return err
		}
		if exists {
			duplicate = true
			return nil
		}

		// Denormalize the product name and decrement stock from the first
		// row matching the code. The product may be unknown (sale typed in
		// by hand); the ledger entry is still recorded.
		p, err := s.products.FirstByCodeTx(tx, req.Code)
		if err != nil {
			return err
		}
		if p != nil {
			if sale.ProductName == "" {
				sale.ProductName = p.Name
			}
			if sale.CostPriceAtSale.IsZero() {
				sale.CostPriceAtSale = p.CostPrice
			}
			newQty := p.Quantity - req.Quantity
			if newQty < 0 {
				newQty = 0
			}
			if err := s.products.SetQuantityTx(tx, p.ID, newQty); err != nil {
				return err
			}
		}

		return s.sales.CreateTx(tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	if duplicate {
		log.Info().Str("code", req.Code).Time("timestamp", ts).Msg("duplicate sale absorbed")
		return &dto.SaleResponse{
			Success:   true,
			Message:   "Satış zaten kayıtlı",
			Duplicate: true,
		}, nil
	}

	rec := saleToRecord(sale)
	s.hub.PublishMutation(originSession, dto.EventAdd, dto.EntitySale, rec)
	log.Info().Str("code", sale.Code).Int("quantity", sale.Quantity).Msg("sale recorded")

	return &dto.SaleResponse{
		Success: true,
		Message: "Satış kaydedildi",
		Data:    &rec,
	}, nil
}
