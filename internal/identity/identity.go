// Package identity derives the composite identity of product and sale
// records. Identity is content-derived: caller-chosen map keys in sync
// payloads are never trusted. Keys are value types with defined equality so
// they can be used directly as map keys, instead of the fragile
// "code_brand_variant" string concatenation the wire format uses.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingCode is returned when a record has no merchant code. Such records
// are never keyed by a fallback — callers skip them and count the outcome.
var ErrMissingCode = errors.New("identity: code is required")

// ProductKey is the identity triple of a product row. Brand and Variant are
// compared byte-for-byte: "Bosch" and "bosch" are two different identities.
// No normalization happens here on purpose — silent case-folding merges are
// worse than the occasional duplicate the shop owner can see and fix.
type ProductKey struct {
	Code    string
	Brand   string
	Variant string
}

// ProductKeyOf derives the identity of a product record. Missing brand and
// variant collapse to the empty string so that nil-ish inputs from different
// clients agree on the same key.
func ProductKeyOf(code, brand, variant string) (ProductKey, error) {
	if code == "" {
		return ProductKey{}, ErrMissingCode
	}
	return ProductKey{Code: code, Brand: brand, Variant: variant}, nil
}

// String renders the key in the wire format used by snapshot maps:
// "{code}_{brand}_{variant}". Only for serialization — equality checks must
// use the struct, since component values may themselves contain '_'.
func (k ProductKey) String() string {
	return fmt.Sprintf("%s_%s_%s", k.Code, k.Brand, k.Variant)
}

// SaleKey is the deduplication identity of a sale ledger entry. UnitPrice is
// held in normalized string form so that 3.50 and 3.5 submitted by different
// clients compare equal, and so the struct stays usable as a map key.
type SaleKey struct {
	Code      string
	Timestamp int64 // UnixNano, UTC
	Quantity  int
	UnitPrice string
}

// SaleKeyOf derives the identity of a sale record.
func SaleKeyOf(code string, ts time.Time, quantity int, unitPrice decimal.Decimal) (SaleKey, error) {
	if code == "" {
		return SaleKey{}, ErrMissingCode
	}
	return SaleKey{
		Code:      code,
		Timestamp: ts.UTC().UnixNano(),
		Quantity:  quantity,
		UnitPrice: unitPrice.String(),
	}, nil
}
