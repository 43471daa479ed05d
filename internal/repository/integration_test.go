//go:build integration

package repository

// Integration tests against real Postgres via testcontainers.
// Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/infra"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("stokv1_test"),
		tcPostgres.WithUsername("stokv1"),
		tcPostgres.WithPassword("stokv1"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(pgURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func TestProductIdentityUniqueOnTriple(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	bosch := &model.Product{Code: "8690123", Brand: "Bosch", Name: "Fren Balatası"}
	require.NoError(t, repo.Create(ctx, bosch))

	// Same code, different brand — a sibling row, not a violation.
	brembo := &model.Product{Code: "8690123", Brand: "Brembo", Name: "Fren Balatası"}
	require.NoError(t, repo.Create(ctx, brembo))

	// Exact triple repeat hits the composite unique index.
	dup := &model.Product{Code: "8690123", Brand: "Bosch", Name: "Fren Balatası"}
	require.Error(t, repo.Create(ctx, dup))

	found, err := repo.FindByIdentity(ctx, identity.ProductKey{Code: "8690123", Brand: "Brembo"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, brembo.ID, found.ID)

	rows, err := repo.FindAllByCode(ctx, "8690123")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFindByIdentityAbsentIsNotError(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)

	found, err := repo.FindByIdentity(context.Background(),
		identity.ProductKey{Code: "yok", Brand: "", Variant: ""})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSaleExistsByIdentity(t *testing.T) {
	db := setupDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("120.50")

	require.NoError(t, repo.Create(ctx, &model.Sale{
		Code: "8690123", Quantity: 2, UnitPrice: price, Timestamp: ts,
		Total: decimal.RequireFromString("241"),
	}))

	exists, err := repo.ExistsByIdentity(ctx, "8690123", ts, 2, price)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByIdentity(ctx, "8690123", ts.Add(time.Second), 2, price)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByIdentity(ctx, "8690123", ts, 3, price)
	require.NoError(t, err)
	assert.False(t, exists)

	// The lookup goes through the derived sale key, so a differently-scaled
	// price and a timezone-shifted equal instant still match the stored row.
	istanbul := time.FixedZone("TRT", 3*60*60)
	exists, err = repo.ExistsByIdentity(ctx, "8690123", ts.In(istanbul), 2,
		decimal.RequireFromString("120.5"))
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.ExistsByIdentity(ctx, "", ts, 2, price)
	require.ErrorIs(t, err, identity.ErrMissingCode)
}

func TestTransactionRollsBackAllCollections(t *testing.T) {
	db := setupDB(t)
	productRepo := NewProductRepository(db)
	customerRepo := NewCustomerRepository(db)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := productRepo.CreateTx(tx, &model.Product{Code: "tx-1", Name: "x"}); err != nil {
			return err
		}
		if err := customerRepo.CreateTx(tx, &model.Customer{ID: "c1", Name: "Ahmet"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	n, err := productRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	m, err := customerRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, m)
}
