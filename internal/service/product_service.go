package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Muhammet-Aksoy/stokv1/internal/broadcast"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateIdentity means a row with the exact same
	// (code, brand, variant) triple already exists.
	ErrDuplicateIdentity = errors.New("product: identity already exists")
	ErrProductNotFound   = errors.New("product: not found")
)

// ProductService handles the single-record product operations. Every
// successful mutation is broadcast once, excluding the originating session.
type ProductService interface {
	Add(ctx context.Context, originSession string, req dto.AddProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, originSession string, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteByCode(ctx context.Context, originSession, code string) (*dto.DeleteResponse, error)
	Variants(ctx context.Context, code string) (*dto.VariantListResponse, error)
	BulkUpdate(ctx context.Context, originSession string, req dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

type productService struct {
	products repository.ProductRepository
	hub      *broadcast.Hub
}

func NewProductService(products repository.ProductRepository, hub *broadcast.Hub) ProductService {
	return &productService{products: products, hub: hub}
}

func (s *productService) Add(ctx context.Context, originSession string, req dto.AddProductRequest) (*dto.ProductResponse, error) {
	key, err := identity.ProductKeyOf(req.Code, req.Brand, req.Variant)
	if err != nil {
		return nil, err
	}

	existing, err := s.products.FindByIdentity(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	// Same code under a different brand or variant is a sibling row, not a
	// conflict. Report how many siblings exist so the UI can show them.
	siblings, err := s.products.FindAllByCode(ctx, key.Code)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Code:      key.Code,
		Brand:     key.Brand,
		Variant:   key.Variant,
		Name:      req.Name,
		Quantity:  req.Quantity,
		CostPrice: req.CostPrice,
		SalePrice: req.SalePrice,
		Category:  req.Category,
		Note:      req.Note,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	rec := productToRecord(p)
	s.hub.PublishMutation(originSession, dto.EventAdd, dto.EntityProduct, rec)
	log.Info().Str("code", p.Code).Str("brand", p.Brand).Msg("product added")

	return &dto.ProductResponse{
		Success:          true,
		Message:          "Ürün başarıyla eklendi",
		Data:             rec,
		ExistingVariants: len(siblings),
	}, nil
}

func (s *productService) Update(ctx context.Context, originSession string, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Note != nil {
		p.Note = *req.Note
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}

	rec := productToRecord(p)
	s.hub.PublishMutation(originSession, dto.EventUpdate, dto.EntityProduct, rec)

	return &dto.ProductResponse{
		Success: true,
		Message: "Ürün güncellendi",
		Data:    rec,
	}, nil
}

// DeleteByCode removes every row sharing the code, across all brands and
// variants. This matches how merchants retire a barcode.
func (s *productService) DeleteByCode(ctx context.Context, originSession, code string) (*dto.DeleteResponse, error) {
	n, err := s.products.DeleteByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrProductNotFound
	}

	s.hub.PublishMutation(originSession, dto.EventDelete, dto.EntityProduct, map[string]any{
		"code":  code,
		"count": n,
	})
	log.Info().Str("code", code).Int64("rows", n).Msg("product deleted")

	return &dto.DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("%d ürün silindi", n),
		Count:   n,
	}, nil
}

func (s *productService) Variants(ctx context.Context, code string) (*dto.VariantListResponse, error) {
	rows, err := s.products.FindAllByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	records := make([]dto.ProductRecord, 0, len(rows))
	for i := range rows {
		records = append(records, productToRecord(&rows[i]))
	}
	return &dto.VariantListResponse{
		Success: true,
		Code:    code,
		Count:   len(records),
		Data:    records,
	}, nil
}

// BulkUpdate applies one field change across every listed code. Value is a
// string on the wire and parsed per operation.
func (s *productService) BulkUpdate(ctx context.Context, originSession string, req dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error) {
	var fields map[string]any
	switch req.Operation {
	case "price":
		price, err := decimal.NewFromString(req.Value)
		if err != nil {
			return nil, fmt.Errorf("bulk update: invalid price %q: %w", req.Value, err)
		}
		fields = map[string]any{"sale_price": price}
	case "stock":
		qty, err := strconv.Atoi(req.Value)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("bulk update: invalid stock %q", req.Value)
		}
		fields = map[string]any{"quantity": qty}
	case "category":
		fields = map[string]any{"category": req.Value}
	default:
		return nil, fmt.Errorf("bulk update: unknown operation %q", req.Operation)
	}

	var total int64
	for _, code := range req.Codes {
		n, err := s.products.UpdateFieldsByCode(ctx, code, fields)
		if err != nil {
			return nil, err
		}
		total += n
	}

	s.hub.PublishMutation(originSession, dto.EventUpdate, dto.EntityProduct, map[string]any{
		"operation": req.Operation,
		"codes":     req.Codes,
		"count":     total,
	})

	return &dto.BulkUpdateResponse{
		Success: true,
		Message: fmt.Sprintf("%d ürün güncellendi", total),
		Count:   int(total),
	}, nil
}

func (s *productService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}
