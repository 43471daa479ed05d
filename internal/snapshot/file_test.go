package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *dto.Snapshot {
	return &dto.Snapshot{
		Products: map[string]dto.ProductRecord{
			"8690123_Bosch_": {
				Code:      "8690123",
				Brand:     "Bosch",
				Name:      "Fren Balatası",
				Quantity:  5,
				SalePrice: decimal.RequireFromString("120.50"),
			},
		},
		Sales:         []dto.SaleRecord{},
		Customers:     map[string]dto.CustomerRecord{},
		Debts:         map[string]dto.DebtRecord{},
		SchemaVersion: dto.SchemaVersion,
		GeneratedAt:   time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC),
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	require.NoError(t, Write(path, sampleSnapshot()))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, got.Products, 1)
	rec := got.Products["8690123_Bosch_"]
	assert.True(t, rec.SalePrice.Equal(decimal.RequireFromString("120.50")))
}

func TestReadRejectsMissingCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":{},"schemaVersion":1}`), 0o644))

	_, err := Read(path)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestReadRejectsUnknownSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"products":{},"sales":[],"customers":{},"debts":{},"schemaVersion":99}`), 0o644))

	_, err := Read(path)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(filepath.Join(dir, "backup.json"), sampleSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "backup.json", entries[0].Name())
}
