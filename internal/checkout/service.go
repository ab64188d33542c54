package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/internal/cart"
	"github.com/angelmondragon/vitrina-backend/internal/orders"
	"github.com/angelmondragon/vitrina-backend/internal/products"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/db"
	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

const (
	orderNumberConstraint = "orders_store_number_key"
	maxNumberAttempts     = 3
	defaultLockTTL        = 30 * time.Second
)

// Failure reasons recorded on the checkout_failed_total counter.
const (
	failureValidation  = "validation"
	failureState       = "state"
	failureInProgress  = "in_progress"
	failureStock       = "stock"
	failureDependency  = "dependency"
	failureOrderNumber = "order_number"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLoader interface {
	Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

type locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseLock(ctx context.Context, name, token string) error
}

type rateResolver interface {
	ActiveRate(ctx context.Context, store pricing.StoreRates) (pricing.ActiveRate, error)
}

type policyProvider interface {
	PolicyFor(store *stores.StoreDTO) pricing.PaymentPolicy
}

// StockReserver removes sold units inside the order transaction.
type StockReserver interface {
	Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
}

type submitRecorder interface {
	ObserveSubmitted(method string, discounted bool, totalUSD float64)
	IncFailure(reason string)
	ObserveDuration(d time.Duration)
}

type productStock struct {
	repo *products.Repository
}

// NewStockReserver decrements stock through the product repository inside the caller's transaction.
func NewStockReserver(repo *products.Repository) StockReserver {
	return productStock{repo: repo}
}

func (p productStock) Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	return p.repo.WithTx(tx).DecrementStock(ctx, productID, variantID, qty)
}

// Result is the outcome of a successful submission.
type Result struct {
	State  enums.CheckoutState `json:"state"`
	Order  *orders.OrderDTO    `json:"order"`
	Totals pricing.CartTotals  `json:"totals"`
}

// Service turns a session cart into a persisted order.
type Service interface {
	Submit(ctx context.Context, store *stores.StoreDTO, sessionID string, input SubmitInput) (*Result, error)
}

// ServiceParams groups checkout dependencies.
type ServiceParams struct {
	Tx       txRunner
	Carts    cartLoader
	Locks    locker
	Rates    rateResolver
	Policies policyProvider
	Orders   orders.Repository
	Stock    StockReserver
	Metrics  submitRecorder
	Logger   *logger.Logger
	LockTTL  time.Duration
}

type service struct {
	tx       txRunner
	carts    cartLoader
	locks    locker
	rates    rateResolver
	policies policyProvider
	orders   orders.Repository
	stock    StockReserver
	metrics  submitRecorder
	logg     *logger.Logger
	lockTTL  time.Duration
	now      func() time.Time
}

// NewService wires the checkout service. Metrics are optional.
func NewService(p ServiceParams) (Service, error) {
	switch {
	case p.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case p.Carts == nil:
		return nil, fmt.Errorf("cart service required")
	case p.Locks == nil:
		return nil, fmt.Errorf("locker required")
	case p.Rates == nil:
		return nil, fmt.Errorf("rate resolver required")
	case p.Policies == nil:
		return nil, fmt.Errorf("payment policy provider required")
	case p.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case p.Stock == nil:
		return nil, fmt.Errorf("stock reserver required")
	case p.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	ttl := p.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &service{
		tx:       p.Tx,
		carts:    p.Carts,
		locks:    p.Locks,
		rates:    p.Rates,
		policies: p.Policies,
		orders:   p.Orders,
		stock:    p.Stock,
		metrics:  p.Metrics,
		logg:     p.Logger,
		lockTTL:  ttl,
		now:      time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, store *stores.StoreDTO, sessionID string, input SubmitInput) (*Result, error) {
	start := s.now()
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	ctx = s.logg.WithStoreID(ctx, store.ID.String())
	ctx = s.logg.WithCartSession(ctx, sessionID)

	input = input.Normalize()
	if err := Validate(input); err != nil {
		s.fail(failureValidation)
		return nil, err
	}
	method := enums.PaymentMethod(input.PaymentMethod)

	lockName := fmt.Sprintf("checkout:%s:%s", store.ID, sessionID)
	lockToken, acquired, err := s.locks.AcquireLock(ctx, lockName, s.lockTTL)
	if err != nil {
		s.fail(failureDependency)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		s.fail(failureInProgress)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		if err := s.locks.ReleaseLock(context.WithoutCancel(ctx), lockName, lockToken); err != nil {
			s.logg.WarnErr(ctx, "release checkout lock failed", err)
		}
	}()

	c, err := s.carts.Load(ctx, store.ID, sessionID)
	if err != nil {
		s.fail(failureDependency)
		return nil, err
	}
	if c.IsEmpty() {
		s.fail(failureState)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	if c.State != enums.CheckoutStateCollectingInfo {
		s.fail(failureState)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout has not been started").
			WithDetails(map[string]any{"state": c.State.String()})
	}

	rate, err := s.rates.ActiveRate(ctx, store.Rates())
	if err != nil {
		s.fail(failureDependency)
		return nil, err
	}
	totals := pricing.CheckoutTotals(c.Lines(), &method, s.policies.PolicyFor(store), rate)

	order := buildOrder(store.ID, input, c, totals)
	if err := s.persist(ctx, order, c.Items); err != nil {
		s.logg.Error(ctx, "checkout persistence failed", err)
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	if err := s.carts.Clear(ctx, store.ID, sessionID); err != nil {
		s.logg.WarnErr(ctx, "clear cart after checkout failed", err)
	}

	if s.metrics != nil {
		total, _ := totals.FinalUSD.Float64()
		s.metrics.ObserveSubmitted(method.String(), totals.Discounted, total)
		s.metrics.ObserveDuration(s.now().Sub(start))
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_number":   order.Number,
		"payment_method": method.String(),
		"discounted":     totals.Discounted,
		"total_usd":      totals.FinalUSD.StringFixed(2),
	}), "checkout submitted")

	return &Result{
		State:  enums.CheckoutStateSubmitted,
		Order:  orders.FromModel(order),
		Totals: totals,
	}, nil
}

// persist writes the order, its items and the stock decrements atomically.
// A racing submission can take the same order number; that attempt is retried.
func (s *service) persist(ctx context.Context, order *models.Order, items []cart.Item) error {
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.orders.WithTx(tx)
			number, err := repo.NextNumber(ctx, order.StoreID)
			if err != nil {
				return err
			}
			order.Number = number

			for _, item := range items {
				if err := s.stock.Decrement(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
					details := map[string]any{
						"product_id": item.ProductID.String(),
						"item_key":   item.Key,
						"requested":  item.Quantity,
					}
					switch {
					case errors.Is(err, products.ErrInsufficientStock):
						return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient stock").WithDetails(details)
					case errors.Is(err, products.ErrProductUnavailable):
						return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product no longer available").WithDetails(details)
					}
					return err
				}
			}
			return repo.CreateWithItems(ctx, order)
		})
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, orderNumberConstraint) {
			break
		}
		s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "order number taken, retrying")
	}

	if typed := pkgerrors.As(err); typed != nil {
		if typed.Code() == pkgerrors.CodeConflict {
			s.fail(failureStock)
		} else {
			s.fail(failureDependency)
		}
		return err
	}
	if db.IsUniqueViolation(err, orderNumberConstraint) {
		s.fail(failureOrderNumber)
	} else {
		s.fail(failureDependency)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
}

func (s *service) fail(reason string) {
	if s.metrics != nil {
		s.metrics.IncFailure(reason)
	}
}

func buildOrder(storeID uuid.UUID, input SubmitInput, c *cart.Cart, totals pricing.CartTotals) *models.Order {
	order := &models.Order{
		ID:               uuid.New(),
		StoreID:          storeID,
		CustomerName:     input.CustomerName,
		CustomerEmail:    optional(input.Email),
		Phone:            optional(input.Phone),
		IdentityDocument: optional(input.IdentityDocument),
		Address:          optional(input.Address),
		Notes:            optional(input.Notes),
		PaymentMethod:    enums.PaymentMethod(input.PaymentMethod),
		DeliveryType:     enums.DeliveryType(input.DeliveryType),
		Discounted:       totals.Discounted,
		SubtotalUSD:      totals.BaseUSD,
		PenaltyUSD:       totals.PenaltyUSD,
		TotalUSD:         totals.FinalUSD,
		TotalBs:          totals.FinalBs,
		ExchangeRate:     totals.Rate.Value,
		RateCurrency:     totals.Rate.Currency,
		RateSource:       totals.Rate.Source,
		Status:           enums.OrderStatusPending,
	}
	if order.DeliveryType == enums.DeliveryTypeCourier && input.Courier != "" {
		courier := enums.Courier(input.Courier)
		order.Courier = &courier
	}

	order.Items = make([]models.OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		unit := item.BasePrice
		if !totals.Discounted {
			unit = unit.Add(item.Penalty)
		}
		order.Items = append(order.Items, models.OrderItem{
			OrderID:      order.ID,
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			Name:         item.Name,
			VariantLabel: optional(item.VariantLabel),
			UnitPriceUSD: item.BasePrice,
			PenaltyUSD:   item.Penalty,
			Quantity:     qty,
			LineTotalUSD: unit.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return order
}
