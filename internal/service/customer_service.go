package service

import (
	"context"
	"errors"

	"github.com/Muhammet-Aksoy/stokv1/internal/broadcast"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrCustomerNotFound = errors.New("customer: not found")

// CustomerService handles the direct customer endpoints. Direct writes are
// upserts; field-wise reconciliation happens only through bulk sync.
type CustomerService interface {
	Upsert(ctx context.Context, originSession string, req dto.AddCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, originSession, id string) (*dto.DeleteResponse, error)
}

type customerService struct {
	customers repository.CustomerRepository
	hub       *broadcast.Hub
}

func NewCustomerService(customers repository.CustomerRepository, hub *broadcast.Hub) CustomerService {
	return &customerService{customers: customers, hub: hub}
}

func (s *customerService) Upsert(ctx context.Context, originSession string, req dto.AddCustomerRequest) (*dto.CustomerResponse, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	// The event kind reflects what actually happened in the store: a caller
	// may supply an id the store has never seen, which is still an add.
	existing, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c := &model.Customer{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Balance: req.Balance,
	}
	if err := s.customers.Upsert(ctx, c); err != nil {
		return nil, err
	}

	rec := customerToRecord(c)
	kind := dto.EventUpdate
	if existing == nil {
		kind = dto.EventAdd
	}
	s.hub.PublishMutation(originSession, kind, dto.EntityCustomer, rec)
	log.Info().Str("id", id).Msg("customer saved")

	return &dto.CustomerResponse{
		Success: true,
		Message: "Müşteri kaydedildi",
		Data:    rec,
	}, nil
}

func (s *customerService) Delete(ctx context.Context, originSession, id string) (*dto.DeleteResponse, error) {
	n, err := s.customers.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCustomerNotFound
	}

	s.hub.PublishMutation(originSession, dto.EventDelete, dto.EntityCustomer, map[string]any{"id": id})

	return &dto.DeleteResponse{
		Success: true,
		Message: "Müşteri silindi",
		Count:   n,
	}, nil
}
