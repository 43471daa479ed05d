package service

import (
	"context"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"
)

// SnapshotService exports the full four-collection state. The export is the
// single source clients hydrate from: the live channel carries no replay, so
// a reconnecting client always pulls a fresh snapshot.
type SnapshotService interface {
	Export(ctx context.Context) (*dto.Snapshot, error)
	Counts(ctx context.Context) (*dto.SnapshotCounts, error)
}

type snapshotService struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	debts     repository.DebtRepository
}

func NewSnapshotService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	debts repository.DebtRepository,
) SnapshotService {
	return &snapshotService{products: products, sales: sales, customers: customers, debts: debts}
}

// Export keys products by their identity string so repeated exports are
// key-stable regardless of row order; customers and debts are keyed by id.
func (s *snapshotService) Export(ctx context.Context) (*dto.Snapshot, error) {
	snap := &dto.Snapshot{
		Products:      map[string]dto.ProductRecord{},
		Sales:         []dto.SaleRecord{},
		Customers:     map[string]dto.CustomerRecord{},
		Debts:         map[string]dto.DebtRecord{},
		SchemaVersion: dto.SchemaVersion,
		GeneratedAt:   time.Now().UTC(),
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		rec := productToRecord(&products[i])
		snap.Products[productKeyString(&products[i])] = rec
	}

	sales, err := s.sales.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		snap.Sales = append(snap.Sales, saleToRecord(&sales[i]))
	}

	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		snap.Customers[customers[i].ID] = customerToRecord(&customers[i])
	}

	debts, err := s.debts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range debts {
		snap.Debts[debts[i].ID] = debtToRecord(&debts[i])
	}

	return snap, nil
}

func (s *snapshotService) Counts(ctx context.Context) (*dto.SnapshotCounts, error) {
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	saleCount, err := s.sales.Count(ctx)
	if err != nil {
		return nil, err
	}
	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	debtCount, err := s.debts.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SnapshotCounts{
		Products:  int(productCount),
		Sales:     int(saleCount),
		Customers: int(customerCount),
		Debts:     int(debtCount),
	}, nil
}
