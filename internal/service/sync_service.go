package service

import (
	"context"
	"errors"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrMissingCollection is the structural rejection for a sync payload that
// lacks one of the four top-level collections. Nothing is applied.
var ErrMissingCollection = errors.New("sync: payload must contain products, sales, customers and debts")

// SyncService is the bulk reconciliation engine. Merge is idempotent and
// order-independent: replaying the same snapshot produces only skips.
type SyncService interface {
	Merge(ctx context.Context, req dto.SyncRequest) (*dto.MergeResult, error)
}

type syncService struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	debts     repository.DebtRepository
}

func NewSyncService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	debts repository.DebtRepository,
) SyncService {
	return &syncService{products: products, sales: sales, customers: customers, debts: debts}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with in-memory stubs).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Merge reconciles a full client snapshot against the store inside one
// transaction covering all four collections. Per-record problems are
// absorbed into the counters and never abort the batch; only structural
// violations and transaction failures surface as errors.
func (s *syncService) Merge(ctx context.Context, req dto.SyncRequest) (*dto.MergeResult, error) {
	if req.Products == nil || req.Sales == nil || req.Customers == nil || req.Debts == nil {
		return nil, ErrMissingCollection
	}

	result := &dto.MergeResult{}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		s.mergeProducts(tx, req.Products, &result.Products)
		s.mergeSales(tx, req.Sales, &result.Sales)
		s.mergeCustomers(tx, req.Customers, &result.Customers)
		s.mergeDebts(tx, req.Debts, &result.Debts)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	total := result.Total()
	log.Info().
		Int("inserted", total.Inserted).
		Int("updated", total.Updated).
		Int("skipped", total.Skipped).
		Int("errors", total.Errors).
		Msg("sync: merge completed")
	return result, nil
}

// mergeProducts applies one product record at a time. The caller-chosen map
// key is ignored; identity always comes from record content.
func (s *syncService) mergeProducts(tx *gorm.DB, products map[string]dto.ProductRecord, out *dto.CollectionOutcome) {
	for key, rec := range products {
		pk, err := identity.ProductKeyOf(rec.Code, rec.Brand, rec.Variant)
		if err != nil {
			log.Warn().Str("key", key).Msg("sync: skipping product without code")
			out.Skipped++
			continue
		}

		existing, err := s.products.FindByIdentityTx(tx, pk)
		if err != nil {
			log.Warn().Err(err).Str("code", pk.Code).Msg("sync: product lookup failed")
			out.Errors++
			continue
		}

		if existing == nil {
			p := &model.Product{
				Code:      pk.Code,
				Brand:     pk.Brand,
				Variant:   pk.Variant,
				Name:      rec.Name,
				Quantity:  max(rec.Quantity, 0),
				CostPrice: rec.CostPrice,
				SalePrice: rec.SalePrice,
				Category:  rec.Category,
				Note:      rec.Note,
			}
			if err := s.products.CreateTx(tx, p); err != nil {
				log.Warn().Err(err).Str("code", pk.Code).Msg("sync: product insert failed")
				out.Errors++
				continue
			}
			out.Inserted++
			continue
		}

		// Field-level diff: unchanged rows must not be rewritten, or every
		// sync would churn updated_at across the whole table.
		fields := map[string]any{}
		if existing.Name != rec.Name {
			fields["name"] = rec.Name
		}
		if existing.Quantity != max(rec.Quantity, 0) {
			fields["quantity"] = max(rec.Quantity, 0)
		}
		if !existing.SalePrice.Equal(rec.SalePrice) {
			fields["sale_price"] = rec.SalePrice
		}
		if !existing.CostPrice.Equal(rec.CostPrice) {
			fields["cost_price"] = rec.CostPrice
		}
		if existing.Category != rec.Category {
			fields["category"] = rec.Category
		}
		if len(fields) == 0 {
			out.Skipped++
			continue
		}
		if err := s.products.UpdateFieldsTx(tx, existing.ID, fields); err != nil {
			log.Warn().Err(err).Str("code", pk.Code).Msg("sync: product update failed")
			out.Errors++
			continue
		}
		out.Updated++
	}
}

// mergeSales only deduplicates and inserts — the ledger has no update path.
func (s *syncService) mergeSales(tx *gorm.DB, sales []dto.SaleRecord, out *dto.CollectionOutcome) {
	for _, rec := range sales {
		if rec.Code == "" || rec.Quantity <= 0 {
			log.Warn().Str("code", rec.Code).Int("quantity", rec.Quantity).
				Msg("sync: skipping invalid sale record")
			out.Skipped++
			continue
		}

		ts := rec.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		exists, err := s.sales.ExistsByIdentityTx(tx, rec.Code, ts, rec.Quantity, rec.UnitPrice)
		if err != nil {
			log.Warn().Err(err).Str("code", rec.Code).Msg("sync: sale lookup failed")
			out.Errors++
			continue
		}
		if exists {
			// Retried submission of a sale we already hold.
			out.Skipped++
			continue
		}

		total := rec.Total
		if total.IsZero() {
			total = rec.UnitPrice.Mul(decimal.NewFromInt(int64(rec.Quantity)))
		}
		sale := &model.Sale{
			Code:            rec.Code,
			ProductName:     rec.ProductName,
			Quantity:        rec.Quantity,
			UnitPrice:       rec.UnitPrice,
			CostPriceAtSale: rec.CostPriceAtSale,
			CustomerID:      rec.CustomerID,
			Timestamp:       ts.UTC(),
			OnCredit:        rec.OnCredit,
			Total:           total,
		}
		if err := s.sales.CreateTx(tx, sale); err != nil {
			log.Warn().Err(err).Str("code", rec.Code).Msg("sync: sale insert failed")
			out.Errors++
			continue
		}
		out.Inserted++
	}
}

func (s *syncService) mergeCustomers(tx *gorm.DB, customers map[string]dto.CustomerRecord, out *dto.CollectionOutcome) {
	for key, rec := range customers {
		if rec.ID == "" {
			// The wire format keys customers by id, so the key is the id.
			rec.ID = key
		}
		if rec.ID == "" || rec.Name == "" {
			log.Warn().Str("id", rec.ID).Msg("sync: skipping customer without id or name")
			out.Skipped++
			continue
		}

		existing, err := s.customers.FindByIDTx(tx, rec.ID)
		if err != nil {
			log.Warn().Err(err).Str("id", rec.ID).Msg("sync: customer lookup failed")
			out.Errors++
			continue
		}

		if existing == nil {
			c := &model.Customer{
				ID:      rec.ID,
				Name:    rec.Name,
				Phone:   rec.Phone,
				Address: rec.Address,
				Balance: rec.Balance,
			}
			if err := s.customers.CreateTx(tx, c); err != nil {
				log.Warn().Err(err).Str("id", rec.ID).Msg("sync: customer insert failed")
				out.Errors++
				continue
			}
			out.Inserted++
			continue
		}

		fields := map[string]any{}
		if existing.Name != rec.Name {
			fields["name"] = rec.Name
		}
		if existing.Phone != rec.Phone {
			fields["phone"] = rec.Phone
		}
		if existing.Address != rec.Address {
			fields["address"] = rec.Address
		}
		if !existing.Balance.Equal(rec.Balance) {
			fields["balance"] = rec.Balance
		}
		if len(fields) == 0 {
			out.Skipped++
			continue
		}
		if err := s.customers.UpdateFieldsTx(tx, rec.ID, fields); err != nil {
			log.Warn().Err(err).Str("id", rec.ID).Msg("sync: customer update failed")
			out.Errors++
			continue
		}
		out.Updated++
	}
}

func (s *syncService) mergeDebts(tx *gorm.DB, debts map[string]dto.DebtRecord, out *dto.CollectionOutcome) {
	for key, rec := range debts {
		if rec.ID == "" {
			rec.ID = key
		}
		if rec.ID == "" || rec.CustomerID == "" {
			log.Warn().Str("id", rec.ID).Msg("sync: skipping debt without id or customer")
			out.Skipped++
			continue
		}

		ts := rec.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		existing, err := s.debts.FindByIDTx(tx, rec.ID)
		if err != nil {
			log.Warn().Err(err).Str("id", rec.ID).Msg("sync: debt lookup failed")
			out.Errors++
			continue
		}

		if existing == nil {
			d := &model.Debt{
				ID:          rec.ID,
				CustomerID:  rec.CustomerID,
				Amount:      rec.Amount,
				Description: rec.Description,
				Timestamp:   ts.UTC(),
			}
			if err := s.debts.CreateTx(tx, d); err != nil {
				log.Warn().Err(err).Str("id", rec.ID).Msg("sync: debt insert failed")
				out.Errors++
				continue
			}
			out.Inserted++
			continue
		}

		fields := map[string]any{}
		if existing.CustomerID != rec.CustomerID {
			fields["customer_id"] = rec.CustomerID
		}
		if !existing.Amount.Equal(rec.Amount) {
			fields["amount"] = rec.Amount
		}
		if existing.Description != rec.Description {
			fields["description"] = rec.Description
		}
		// An absent timestamp defaulted to now on insert; diffing it against
		// that default would flag the same record as updated on every replay.
		if !rec.Timestamp.IsZero() && !existing.Timestamp.Equal(rec.Timestamp) {
			fields["timestamp"] = rec.Timestamp.UTC()
		}
		if len(fields) == 0 {
			out.Skipped++
			continue
		}
		if err := s.debts.UpdateFieldsTx(tx, rec.ID, fields); err != nil {
			log.Warn().Err(err).Str("id", rec.ID).Msg("sync: debt update failed")
			out.Errors++
			continue
		}
		out.Updated++
	}
}
