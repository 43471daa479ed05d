package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddProductRequest struct {
	Code      string          `json:"code"      validate:"required,min=1,max=64"`
	Brand     string          `json:"brand"     validate:"max=120"`
	Variant   string          `json:"variant"   validate:"max=120"`
	Name      string          `json:"name"      validate:"required,min=1,max=200"`
	Quantity  int             `json:"quantity"  validate:"min=0"`
	CostPrice decimal.Decimal `json:"costPrice" validate:"min=0"`
	SalePrice decimal.Decimal `json:"salePrice" validate:"min=0"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
}

// UpdateProductRequest carries only the fields the caller wants changed.
// Identity fields (code, brand, variant) are immutable through this path.
type UpdateProductRequest struct {
	Name      *string          `json:"name"      validate:"omitempty,min=1,max=200"`
	Quantity  *int             `json:"quantity"  validate:"omitempty,min=0"`
	CostPrice *decimal.Decimal `json:"costPrice"`
	SalePrice *decimal.Decimal `json:"salePrice"`
	Category  *string          `json:"category"`
	Note      *string          `json:"note"`
}

// BulkUpdateRequest applies one operation to every listed code.
// Operation: "price" | "stock" | "category".
type BulkUpdateRequest struct {
	Operation string   `json:"operation" validate:"required,oneof=price stock category"`
	Codes     []string `json:"codes"     validate:"required,min=1"`
	Value     string   `json:"value"     validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    ProductRecord `json:"data"`
	// ExistingVariants is how many other rows already share this code.
	ExistingVariants int `json:"existingVariants,omitempty"`
}

type VariantListResponse struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Count   int             `json:"count"`
	Data    []ProductRecord `json:"data"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type BulkUpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}
