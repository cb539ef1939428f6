package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/granizoapp/granizo-backend/pkg/db/models"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateStoreInput captures the new-store payload.
type CreateStoreInput struct {
	Name     string
	Address  *string
	Currency string
	TaxRate  decimal.Decimal
	Config   *types.StoreConfig
}

// UpdateStoreInput carries optional field updates; nil means unchanged.
type UpdateStoreInput struct {
	Name     *string
	Address  *string
	Currency *string
	TaxRate  *decimal.Decimal
}

// Service exposes store administration including receipt and branding
// configuration.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*models.Store, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (*models.Store, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, config types.StoreConfig) (*models.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
}

type service struct {
	repo Repository
}

// NewService builds a store service backed by the repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateStoreInput) (*models.Store, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if input.TaxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be non-negative")
	}
	currency := input.Currency
	if currency == "" {
		currency = "COP"
	}

	store := &models.Store{
		ID:       uuid.New(),
		Name:     input.Name,
		Address:  input.Address,
		Currency: currency,
		TaxRate:  input.TaxRate,
	}
	if input.Config != nil {
		if err := validateConfig(*input.Config); err != nil {
			return nil, err
		}
		store.Config = *input.Config
	}
	return s.repo.Create(ctx, store)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (*models.Store, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Currency != nil {
		if *input.Currency == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency cannot be empty")
		}
		updates["currency"] = *input.Currency
	}
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be non-negative")
		}
		updates["tax_rate"] = *input.TaxRate
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updates provided")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateConfig replaces the store's receipt and branding configuration.
func (s *service) UpdateConfig(ctx context.Context, id uuid.UUID, config types.StoreConfig) (*models.Store, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"config": config}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, err
	}
	return store, nil
}

func (s *service) List(ctx context.Context) ([]models.Store, error) {
	return s.repo.List(ctx)
}

func validateConfig(config types.StoreConfig) error {
	if config.Receipt.PaperWidthMM < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "paper width must be non-negative")
	}
	if width := config.Receipt.PaperWidthMM; width != 0 && width != 58 && width != 80 {
		return pkgerrors.New(pkgerrors.CodeValidation, "paper width must be 58 or 80 millimeters")
	}
	return nil
}
