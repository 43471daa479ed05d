package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion of the persisted snapshot file format.
const SchemaVersion = 1

// ─── Wire records ────────────────────────────────────────────────────────────
// These are the shapes client snapshots and backup files carry. Identity is
// always derived from record content; the map key a caller chose is ignored.

type ProductRecord struct {
	ID        string          `json:"id,omitempty"`
	Code      string          `json:"code"`
	Brand     string          `json:"brand"`
	Variant   string          `json:"variant"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"costPrice"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Category  string          `json:"category"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

type SaleRecord struct {
	ID              string          `json:"id,omitempty"`
	Code            string          `json:"code"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	CostPriceAtSale decimal.Decimal `json:"costPriceAtSale"`
	CustomerID      *string         `json:"customerId"`
	Timestamp       time.Time       `json:"timestamp"`
	OnCredit        bool            `json:"onCredit"`
	Total           decimal.Decimal `json:"total"`
}

type CustomerRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

type DebtRecord struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customerId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ─── Snapshot bundle ─────────────────────────────────────────────────────────

// Snapshot is the full four-collection export. Products, customers and debts
// are maps (products keyed "{code}_{brand}_{variant}" so repeated fetches are
// key-stable, customers/debts keyed by id); sales are a flat list.
type Snapshot struct {
	Products      map[string]ProductRecord  `json:"products"`
	Sales         []SaleRecord              `json:"sales"`
	Customers     map[string]CustomerRecord `json:"customers"`
	Debts         map[string]DebtRecord     `json:"debts"`
	SchemaVersion int                       `json:"schemaVersion"`
	GeneratedAt   time.Time                 `json:"generatedAt"`
}

// Counts returns the per-collection sizes, in the order the clients display
// them: products, sales, customers, debts.
func (s *Snapshot) Counts() SnapshotCounts {
	return SnapshotCounts{
		Products:  len(s.Products),
		Sales:     len(s.Sales),
		Customers: len(s.Customers),
		Debts:     len(s.Debts),
	}
}

type SnapshotCounts struct {
	Products  int `json:"products"`
	Sales     int `json:"sales"`
	Customers int `json:"customers"`
	Debts     int `json:"debts"`
}

// SyncRequest is the inbound bulk-sync payload. All four collections must be
// present — nil means the key was absent from the JSON body, which is a
// structural error and rejects the whole request. Empty collections are fine.
type SyncRequest struct {
	Products  map[string]ProductRecord  `json:"products"`
	Sales     []SaleRecord              `json:"sales"`
	Customers map[string]CustomerRecord `json:"customers"`
	Debts     map[string]DebtRecord     `json:"debts"`
}
