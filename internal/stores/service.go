package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	UpdateRateSettings(ctx context.Context, id uuid.UUID, mode enums.Currency, usd, eur *decimal.Decimal) error
}

// Service exposes store operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetBySlug(ctx context.Context, slug string) (*StoreDTO, error)
	ResolveActive(ctx context.Context, slug string) (*StoreDTO, error)
	UpdateRateOverrides(ctx context.Context, storeID uuid.UUID, input UpdateRatesInput) (*StoreDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(store), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*StoreDTO, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	store, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(store), nil
}

// ResolveActive is GetBySlug for the public storefront: inactive stores are not found.
func (s *service) ResolveActive(ctx context.Context, slug string) (*StoreDTO, error) {
	store, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !store.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

func (s *service) UpdateRateOverrides(ctx context.Context, storeID uuid.UUID, input UpdateRatesInput) (*StoreDTO, error) {
	mode := input.Mode
	if mode == "" {
		mode = enums.CurrencyUSD
	}
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency mode").
			WithDetails(map[string]any{"currency_mode": string(input.Mode)})
	}

	usd, err := normalizeOverride("usd_rate_override", input.USDOverride)
	if err != nil {
		return nil, err
	}
	eur, err := normalizeOverride("eur_rate_override", input.EUROverride)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRateSettings(ctx, storeID, mode, usd, eur); err != nil {
		return nil, mapLoadError(err)
	}
	return s.GetByID(ctx, storeID)
}

func normalizeOverride(field string, value *decimal.Decimal) (*decimal.Decimal, error) {
	if value == nil || value.IsZero() {
		return nil, nil
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate override must not be negative").
			WithDetails(map[string]any{field: value.String()})
	}
	cpy := *value
	return &cpy, nil
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
}
