package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vitrina-backend/internal/products"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

type stubProducts struct {
	snapshots map[uuid.UUID]*products.ItemSnapshot
}

func (s *stubProducts) Snapshot(_ context.Context, _ uuid.UUID, productID uuid.UUID, _ *uuid.UUID) (*products.ItemSnapshot, error) {
	snap, ok := s.snapshots[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	copied := *snap
	return &copied, nil
}

type stubRates struct {
	rate pricing.ActiveRate
}

func (s stubRates) ActiveRate(context.Context, pricing.StoreRates) (pricing.ActiveRate, error) {
	return s.rate, nil
}

type defaultPolicies struct{}

func (defaultPolicies) PolicyFor(*stores.StoreDTO) pricing.PaymentPolicy {
	return pricing.DefaultPaymentPolicy()
}

type serviceFixture struct {
	svc      Service
	kv       *memoryKV
	products *stubProducts
	store    *stores.StoreDTO
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	kv := newMemoryKV()
	cartStore, err := NewRedisStore(kv, time.Hour)
	require.NoError(t, err)

	prods := &stubProducts{snapshots: map[uuid.UUID]*products.ItemSnapshot{}}
	svc, err := NewService(ServiceParams{
		Store:    cartStore,
		Products: prods,
		Rates: stubRates{rate: pricing.ActiveRate{
			Currency:  enums.CurrencyUSD,
			Value:     decimal.NewFromInt(10),
			Source:    enums.RateSourceGlobal,
			Available: true,
		}},
		Policies: defaultPolicies{},
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)

	return serviceFixture{
		svc:      svc,
		kv:       kv,
		products: prods,
		store:    &stores.StoreDTO{ID: uuid.New(), Slug: "moda", CurrencyMode: enums.CurrencyUSD, IsActive: true},
	}
}

func (f serviceFixture) addProduct(base, penalty string, stock int) uuid.UUID {
	id := uuid.New()
	f.products.snapshots[id] = &products.ItemSnapshot{
		ProductID: id,
		Name:      "Producto",
		CashPrice: decimal.RequireFromString(base),
		Penalty:   decimal.RequireFromString(penalty),
		Stock:     stock,
	}
	return id
}

func methodPtr(m enums.PaymentMethod) *enums.PaymentMethod {
	return &m
}

func TestQuoteTwoItemCart(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	shirt := f.addProduct("20", "2", 10)
	hat := f.addProduct("5", "1", 10)

	_, err := f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: shirt, Quantity: 2})
	require.NoError(t, err)
	view, err := f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: hat, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, view.ItemCount)
	assert.True(t, view.Totals.BaseUSD.Equal(decimal.NewFromInt(45)))
	assert.True(t, view.Totals.PenaltyUSD.Equal(decimal.NewFromInt(5)))
	assert.True(t, view.Totals.Discounted, "no method selected yet prices with the discount")

	quoted, err := f.svc.Quote(ctx, f.store, "sess-1", methodPtr(enums.PaymentMethodPagoMovil))
	require.NoError(t, err)
	assert.False(t, quoted.Totals.Discounted)
	assert.True(t, quoted.Totals.FinalUSD.Equal(decimal.NewFromInt(50)))
	assert.True(t, quoted.Totals.FinalBs.Equal(decimal.NewFromInt(500)))

	quoted, err = f.svc.Quote(ctx, f.store, "sess-1", methodPtr(enums.PaymentMethodZelle))
	require.NoError(t, err)
	assert.True(t, quoted.Totals.FinalUSD.Equal(decimal.NewFromInt(45)))
	assert.True(t, quoted.Totals.FinalBs.Equal(decimal.NewFromInt(450)))

	require.Len(t, quoted.Items, 2)
	assert.True(t, quoted.Items[0].LineBaseUSD.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 9, quoted.Items[0].DiscountPercent)
}

func TestAddItemRejectsAboveStock(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.addProduct("10", "1", 2)

	_, err := f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 2})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	_, err = f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: uuid.New(), Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestQuantityOperations(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.addProduct("10", "1", 5)

	view, err := f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 1})
	require.NoError(t, err)
	key := view.Items[0].Key

	view, err = f.svc.AdjustQuantity(ctx, f.store, "sess-1", key, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, view.ItemCount)

	view, err = f.svc.AdjustQuantity(ctx, f.store, "sess-1", key, -10)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)

	_, err = f.svc.UpdateQuantity(ctx, f.store, "sess-1", key, 6)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	view, err = f.svc.UpdateQuantity(ctx, f.store, "sess-1", key, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.ItemCount)

	view, err = f.svc.RemoveItem(ctx, f.store, "sess-1", key)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.svc.RemoveItem(ctx, f.store, "sess-1", key)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCheckoutLocksMutations(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.addProduct("10", "1", 5)

	_, err := f.svc.BeginCheckout(ctx, f.store, "sess-1")
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err), "empty carts cannot start checkout")

	_, err = f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 1})
	require.NoError(t, err)

	view, err := f.svc.BeginCheckout(ctx, f.store, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCollectingInfo, view.State)

	_, err = f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 1})
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	view, err = f.svc.CancelCheckout(ctx, f.store, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateBuilding, view.State)

	_, err = f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 1})
	require.NoError(t, err)
}

func TestClearAndSessionValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.addProduct("10", "1", 5)

	_, err := f.svc.AddItem(ctx, f.store, "sess-1", AddItemInput{ProductID: id, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.Clear(ctx, f.store.ID, "sess-1"))

	c, err := f.svc.Load(ctx, f.store.ID, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = f.svc.Get(ctx, f.store, "  ")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = f.svc.Get(ctx, f.store, "a:b")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestRedisFailureIsDependencyError(t *testing.T) {
	f := newServiceFixture(t)
	f.kv.err = errors.New("connection refused")

	_, err := f.svc.Get(context.Background(), f.store, "sess-1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}
