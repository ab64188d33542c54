package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/vitrina-backend/internal/products"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

const maxSessionIDLength = 128

type productSnapshotter interface {
	Snapshot(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID) (*products.ItemSnapshot, error)
}

type rateResolver interface {
	ActiveRate(ctx context.Context, store pricing.StoreRates) (pricing.ActiveRate, error)
}

type policyProvider interface {
	PolicyFor(store *stores.StoreDTO) pricing.PaymentPolicy
}

// Service manages session carts and prices them.
type Service interface {
	Get(ctx context.Context, store *stores.StoreDTO, sessionID string) (*View, error)
	AddItem(ctx context.Context, store *stores.StoreDTO, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, store *stores.StoreDTO, sessionID, key string, qty int) (*View, error)
	AdjustQuantity(ctx context.Context, store *stores.StoreDTO, sessionID, key string, delta int) (*View, error)
	RemoveItem(ctx context.Context, store *stores.StoreDTO, sessionID, key string) (*View, error)
	Quote(ctx context.Context, store *stores.StoreDTO, sessionID string, method *enums.PaymentMethod) (*View, error)
	BeginCheckout(ctx context.Context, store *stores.StoreDTO, sessionID string) (*View, error)
	CancelCheckout(ctx context.Context, store *stores.StoreDTO, sessionID string) (*View, error)
	Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error)
	Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

// ServiceParams groups the cart service dependencies.
type ServiceParams struct {
	Store    Store
	Products productSnapshotter
	Rates    rateResolver
	Policies policyProvider
	Logger   *logger.Logger
}

type service struct {
	store    Store
	products productSnapshotter
	rates    rateResolver
	policies policyProvider
	logg     *logger.Logger
}

// NewService builds the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product snapshotter required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("rate resolver required")
	}
	if params.Policies == nil {
		return nil, fmt.Errorf("payment policy provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:    params.Store,
		products: params.Products,
		rates:    params.Rates,
		policies: params.Policies,
		logg:     params.Logger,
	}, nil
}

func (s *service) Get(ctx context.Context, store *stores.StoreDTO, sessionID string) (*View, error) {
	return s.Quote(ctx, store, sessionID, nil)
}

func (s *service) AddItem(ctx context.Context, store *stores.StoreDTO, sessionID string, input AddItemInput) (*View, error) {
	return s.mutate(ctx, store, sessionID, func(c *Cart) error {
		snap, err := s.products.Snapshot(ctx, store.ID, input.ProductID, input.VariantID)
		if err != nil {
			return err
		}

		requested := clampQuantity(input.Quantity)
		if existing := c.Find(ItemKey(snap.ProductID, snap.VariantID)); existing != nil {
			requested += existing.Quantity
		}
		if err := checkStock(snap, requested); err != nil {
			return err
		}

		c.Add(Item{
			ProductID:    snap.ProductID,
			VariantID:    snap.VariantID,
			Name:         snap.Name,
			VariantLabel: snap.VariantLabel,
			BasePrice:    snap.CashPrice,
			Penalty:      snap.Penalty,
			Quantity:     input.Quantity,
		})
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, store *stores.StoreDTO, sessionID, key string, qty int) (*View, error) {
	return s.mutate(ctx, store, sessionID, func(c *Cart) error {
		item := c.Find(key)
		if item == nil {
			return itemNotFound(key)
		}
		if err := s.ensureStock(ctx, store, item, clampQuantity(qty)); err != nil {
			return err
		}
		return c.SetQuantity(key, qty)
	})
}

func (s *service) AdjustQuantity(ctx context.Context, store *stores.StoreDTO, sessionID, key string, delta int) (*View, error) {
	return s.mutate(ctx, store, sessionID, func(c *Cart) error {
		item := c.Find(key)
		if item == nil {
			return itemNotFound(key)
		}
		if delta > 0 {
			if err := s.ensureStock(ctx, store, item, item.Quantity+delta); err != nil {
				return err
			}
		}
		return c.Adjust(key, delta)
	})
}

func (s *service) RemoveItem(ctx context.Context, store *stores.StoreDTO, sessionID, key string) (*View, error) {
	return s.mutate(ctx, store, sessionID, func(c *Cart) error {
		if !c.Remove(key) {
			return itemNotFound(key)
		}
		return nil
	})
}

// Quote totals the cart for method; nil means no method selected yet.
func (s *service) Quote(ctx context.Context, store *stores.StoreDTO, sessionID string, method *enums.PaymentMethod) (*View, error) {
	c, err := s.load(ctx, store, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, store, c, method)
}

func (s *service) BeginCheckout(ctx context.Context, store *stores.StoreDTO, sessionID string) (*View, error) {
	return s.transition(ctx, store, sessionID, enums.CheckoutStateCollectingInfo)
}

func (s *service) CancelCheckout(ctx context.Context, store *stores.StoreDTO, sessionID string) (*View, error) {
	return s.transition(ctx, store, sessionID, enums.CheckoutStateBuilding)
}

func (s *service) Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c, nil
}

func (s *service) Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, storeID, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.logg.Info(s.logg.WithCartSession(ctx, sessionID), "cart cleared")
	return nil
}

func (s *service) transition(ctx context.Context, store *stores.StoreDTO, sessionID string, next enums.CheckoutState) (*View, error) {
	c, err := s.load(ctx, store, sessionID)
	if err != nil {
		return nil, err
	}
	if next == enums.CheckoutStateCollectingInfo && c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	if c.State != next {
		if err := c.Transition(next); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout transition not allowed").
				WithDetails(map[string]any{"from": c.State.String(), "to": next.String()})
		}
		if err := s.store.Save(ctx, c); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
		}
	}
	return s.view(ctx, store, c, nil)
}

func (s *service) mutate(ctx context.Context, store *stores.StoreDTO, sessionID string, fn func(*Cart) error) (*View, error) {
	c, err := s.load(ctx, store, sessionID)
	if err != nil {
		return nil, err
	}
	if c.State != enums.CheckoutStateBuilding {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is locked during checkout").
			WithDetails(map[string]any{"state": c.State.String()})
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.view(ctx, store, c, nil)
}

func (s *service) load(ctx context.Context, store *stores.StoreDTO, sessionID string) (*Cart, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	return s.Load(ctx, store.ID, sessionID)
}

func (s *service) view(ctx context.Context, store *stores.StoreDTO, c *Cart, method *enums.PaymentMethod) (*View, error) {
	rate, err := s.rates.ActiveRate(ctx, store.Rates())
	if err != nil {
		return nil, err
	}
	totals := pricing.CheckoutTotals(c.Lines(), method, s.policies.PolicyFor(store), rate)
	return buildView(c, method, totals), nil
}

func (s *service) ensureStock(ctx context.Context, store *stores.StoreDTO, item *Item, qty int) error {
	snap, err := s.products.Snapshot(ctx, store.ID, item.ProductID, item.VariantID)
	if err != nil {
		return err
	}
	return checkStock(snap, qty)
}

func checkStock(snap *products.ItemSnapshot, qty int) error {
	if qty <= snap.Stock {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": snap.ProductID.String(),
			"requested":  qty,
			"available":  snap.Stock,
		})
}

func validateSession(sessionID string) error {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" || trimmed != sessionID || len(sessionID) > maxSessionIDLength || strings.Contains(sessionID, ":") {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session")
	}
	return nil
}

func itemNotFound(key string) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrItemNotFound, "cart item not found").
		WithDetails(map[string]any{"key": key})
}
