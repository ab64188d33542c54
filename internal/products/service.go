package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
}

type rateResolver interface {
	ActiveRate(ctx context.Context, store pricing.StoreRates) (pricing.ActiveRate, error)
}

// Service prices the catalog for display and snapshots items for carts.
type Service interface {
	Catalog(ctx context.Context, store *stores.StoreDTO) (*CatalogView, error)
	Detail(ctx context.Context, store *stores.StoreDTO, productID uuid.UUID) (*DetailView, error)
	Preview(ctx context.Context, store *stores.StoreDTO, input PreviewInput) (*PreviewView, error)
	Snapshot(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID) (*ItemSnapshot, error)
}

type service struct {
	repo  productRepository
	rates rateResolver
}

// NewService wires the product service.
func NewService(repo productRepository, rates rateResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rate resolver required")
	}
	return &service{repo: repo, rates: rates}, nil
}

func (s *service) Catalog(ctx context.Context, store *stores.StoreDTO) (*CatalogView, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	rate, err := s.rates.ActiveRate(ctx, store.Rates())
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toProductView(row, rate, false))
	}
	return &CatalogView{Rate: rate, Products: views}, nil
}

func (s *service) Detail(ctx context.Context, store *stores.StoreDTO, productID uuid.UUID) (*DetailView, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	product, err := s.loadActive(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}
	rate, err := s.rates.ActiveRate(ctx, store.Rates())
	if err != nil {
		return nil, err
	}
	return &DetailView{Rate: rate, Product: toProductView(*product, rate, true)}, nil
}

// Preview prices unsaved editor values with the store's current rate.
func (s *service) Preview(ctx context.Context, store *stores.StoreDTO, input PreviewInput) (*PreviewView, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	rate, err := s.rates.ActiveRate(ctx, store.Rates())
	if err != nil {
		return nil, err
	}
	quote := pricing.ComputeWithRate(pricing.CoerceString(input.CashPrice), pricing.CoerceString(input.Penalty), rate)
	return &PreviewView{Rate: rate, Quote: quote}, nil
}

func (s *service) Snapshot(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID) (*ItemSnapshot, error) {
	product, err := s.loadActive(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if variantID == nil {
		if len(product.Variants) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant is required for this product").
				WithDetails(map[string]any{"product_id": productID.String()})
		}
		return &ItemSnapshot{
			ProductID: product.ID,
			Name:      product.Name,
			CashPrice: pricing.Coerce(product.CashPrice),
			Penalty:   pricing.Coerce(product.Penalty),
			Stock:     max(product.Stock, 0),
		}, nil
	}

	for _, variant := range product.Variants {
		if variant.ID != *variantID {
			continue
		}
		id := variant.ID
		return &ItemSnapshot{
			ProductID:    product.ID,
			VariantID:    &id,
			Name:         product.Name,
			VariantLabel: variant.Label(),
			CashPrice:    pricing.Coerce(variant.EffectiveCashPrice(*product)),
			Penalty:      pricing.Coerce(variant.EffectivePenalty(*product)),
			Stock:        max(variant.Stock, 0),
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
}

func (s *service) loadActive(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
