package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	products  *stubProductRepo
	sales     *stubSaleRepo
	customers *stubCustomerRepo
	debts     *stubDebtRepo
	svc       SyncService
}

func newSyncFixture() *syncFixture {
	f := &syncFixture{
		products:  newStubProductRepo(),
		sales:     newStubSaleRepo(),
		customers: newStubCustomerRepo(),
		debts:     newStubDebtRepo(),
	}
	f.svc = NewSyncService(f.products, f.sales, f.customers, f.debts)
	return f
}

func emptyRequest() dto.SyncRequest {
	return dto.SyncRequest{
		Products:  map[string]dto.ProductRecord{},
		Sales:     []dto.SaleRecord{},
		Customers: map[string]dto.CustomerRecord{},
		Debts:     map[string]dto.DebtRecord{},
	}
}

func productRecord(code, brand, variant string) dto.ProductRecord {
	return dto.ProductRecord{
		Code:      code,
		Brand:     brand,
		Variant:   variant,
		Name:      "Fren Balatası",
		Quantity:  5,
		CostPrice: decimal.RequireFromString("80"),
		SalePrice: decimal.RequireFromString("120.50"),
		Category:  "Fren",
	}
}

func TestMergeInsertsAllCollections(t *testing.T) {
	f := newSyncFixture()

	custID := "cust-1"
	req := emptyRequest()
	req.Products["p1"] = productRecord("8690123", "Bosch", "")
	req.Sales = append(req.Sales, dto.SaleRecord{
		Code:      "8690123",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("120.50"),
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	req.Customers[custID] = dto.CustomerRecord{ID: custID, Name: "Ahmet"}
	req.Debts["debt-1"] = dto.DebtRecord{
		ID:         "debt-1",
		CustomerID: custID,
		Amount:     decimal.RequireFromString("250"),
		Timestamp:  time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
	}

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Products.Inserted)
	assert.Equal(t, 1, res.Sales.Inserted)
	assert.Equal(t, 1, res.Customers.Inserted)
	assert.Equal(t, 1, res.Debts.Inserted)
	assert.Equal(t, 0, res.Total().Errors)

	// Sale total falls back to unitPrice * quantity when absent.
	require.Len(t, f.sales.rows, 1)
	assert.True(t, f.sales.rows[0].Total.Equal(decimal.RequireFromString("241.00")),
		"got total %s", f.sales.rows[0].Total)
}

func TestMergeIsIdempotent(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Products["p1"] = productRecord("8690123", "Bosch", "")
	req.Sales = append(req.Sales, dto.SaleRecord{
		Code:      "8690123",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("120.50"),
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	req.Customers["c1"] = dto.CustomerRecord{ID: "c1", Name: "Ahmet"}
	req.Debts["d1"] = dto.DebtRecord{
		ID: "d1", CustomerID: "c1",
		Timestamp: time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
	}

	_, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	total := res.Total()
	assert.Equal(t, 0, total.Inserted)
	assert.Equal(t, 0, total.Updated)
	assert.Equal(t, 4, total.Skipped)
	assert.Len(t, f.sales.rows, 1)
}

func TestMergeRejectsMissingCollection(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Products = nil

	_, err := f.svc.Merge(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingCollection)
	assert.Empty(t, f.customers.rows)
}

func TestMergeAbsorbsPerRecordFaults(t *testing.T) {
	f := newSyncFixture()
	f.products.failCodes["bad-code"] = true

	req := emptyRequest()
	for i := 0; i < 9; i++ {
		code := fmt.Sprintf("code-%d", i)
		req.Products[code] = productRecord(code, "Bosch", "")
	}
	req.Products["broken"] = productRecord("bad-code", "Bosch", "")

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 9, res.Products.Inserted)
	assert.Equal(t, 1, res.Products.Errors)
	assert.Len(t, f.products.rows, 9)
}

func TestMergeSameCodeDifferentBrandIsTwoRows(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Products["a"] = productRecord("8690123", "Bosch", "")
	req.Products["b"] = productRecord("8690123", "Brembo", "")

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Products.Inserted)
	assert.Len(t, f.products.rows, 2)
}

func TestMergeSkipsProductWithoutCode(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Products["keyed-but-codeless"] = dto.ProductRecord{Name: "adsız"}

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Products.Skipped)
	assert.Empty(t, f.products.rows)
}

func TestMergeUpdatesOnlyChangedFields(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Products["p"] = productRecord("8690123", "Bosch", "")
	_, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	// Quantity change is reconciled.
	changed := productRecord("8690123", "Bosch", "")
	changed.Quantity = 42
	req.Products["p"] = changed

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Products.Updated)
	assert.Equal(t, 42, f.products.rows[0].Quantity)

	// Note is not part of the reconciled field set; a note-only change skips.
	noteOnly := changed
	noteOnly.Note = "raftaki son kutu"
	req.Products["p"] = noteOnly

	res, err = f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Products.Skipped)
	assert.Equal(t, 0, res.Products.Updated)
}

func TestMergeClampsNegativeQuantity(t *testing.T) {
	f := newSyncFixture()

	rec := productRecord("8690123", "Bosch", "")
	rec.Quantity = -3
	req := emptyRequest()
	req.Products["p"] = rec

	_, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, f.products.rows[0].Quantity)
}

func TestMergeSaleDedupNormalizesPrice(t *testing.T) {
	f := newSyncFixture()
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	req := emptyRequest()
	req.Sales = append(req.Sales, dto.SaleRecord{
		Code: "8690123", Quantity: 2,
		UnitPrice: decimal.RequireFromString("3.50"), Timestamp: ts,
	})
	_, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	// Same sale, trailing zero trimmed, timestamp in another zone.
	ist := time.FixedZone("TRT", 3*60*60)
	req.Sales = []dto.SaleRecord{{
		Code: "8690123", Quantity: 2,
		UnitPrice: decimal.RequireFromString("3.5"), Timestamp: ts.In(ist),
	}}
	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sales.Skipped)
	assert.Len(t, f.sales.rows, 1)
}

func TestMergeSkipsInvalidSales(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Sales = append(req.Sales,
		dto.SaleRecord{Code: "", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
		dto.SaleRecord{Code: "8690123", Quantity: 0, UnitPrice: decimal.RequireFromString("5")},
	)

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sales.Skipped)
	assert.Empty(t, f.sales.rows)
}

func TestMergeCustomerIDFallsBackToMapKey(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Customers["musteri-7"] = dto.CustomerRecord{Name: "Ayşe"}

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Customers.Inserted)

	c, err := f.customers.FindByID(context.Background(), "musteri-7")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ayşe", c.Name)
}

func TestMergeDebtWithoutTimestampStaysIdempotent(t *testing.T) {
	f := newSyncFixture()

	// No timestamp on the wire: insert defaults it to now. Replaying the same
	// record must skip, not count the defaulted timestamp as a change.
	req := emptyRequest()
	req.Debts["d1"] = dto.DebtRecord{
		ID: "d1", CustomerID: "c1",
		Amount: decimal.RequireFromString("250"),
	}

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Debts.Inserted)
	assert.False(t, f.debts.rows["d1"].Timestamp.IsZero())

	res, err = f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Debts.Skipped)
	assert.Equal(t, 0, res.Debts.Updated)
}

func TestMergeDebtRequiresCustomerReference(t *testing.T) {
	f := newSyncFixture()

	req := emptyRequest()
	req.Debts["d1"] = dto.DebtRecord{Amount: decimal.RequireFromString("100")}

	res, err := f.svc.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Debts.Skipped)
	assert.Empty(t, f.debts.rows)
}
