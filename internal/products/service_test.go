package products

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRates struct {
	rate  pricing.ActiveRate
	err   error
	calls int
}

func (s *stubRates) ActiveRate(context.Context, pricing.StoreRates) (pricing.ActiveRate, error) {
	s.calls++
	return s.rate, s.err
}

func usdRate(value string) pricing.ActiveRate {
	return pricing.ActiveRate{
		Currency:  enums.CurrencyUSD,
		Value:     decimal.RequireFromString(value),
		Source:    enums.RateSourceGlobal,
		Available: true,
	}
}

type fixture struct {
	conn  *gorm.DB
	svc   Service
	rates *stubRates
	store *stores.StoreDTO
}

func newFixture(t *testing.T, rate pricing.ActiveRate) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	rates := &stubRates{rate: rate}
	svc, err := NewService(NewRepository(conn), rates)
	require.NoError(t, err)
	store := stores.FromModel(dbtest.MustCreateStore(t, conn, "moda"))
	return fixture{conn: conn, svc: svc, rates: rates, store: store}
}

func TestCatalogPricesEveryProduct(t *testing.T) {
	f := newFixture(t, usdRate("60.25"))
	dbtest.MustCreateProduct(t, f.conn, f.store.ID, "Bolso", "45.00", "2.00", 3)

	catalog, err := f.svc.Catalog(context.Background(), f.store)
	require.NoError(t, err)
	require.Len(t, catalog.Products, 1)
	assert.True(t, catalog.Rate.Available)

	quote := catalog.Products[0].Pricing
	assert.True(t, quote.ListPrice.Equal(dbtest.Dec(t, "47")))
	assert.Equal(t, 4, quote.DiscountPercent)
	assert.True(t, quote.PriceInLocal.Equal(dbtest.Dec(t, "2831.75")))
	assert.True(t, quote.CashPriceInLocal.Equal(dbtest.Dec(t, "2711.25")))
	assert.True(t, catalog.Products[0].InStock)
	assert.Empty(t, catalog.Products[0].Variants)
}

func TestCatalogWithoutRateStillPrices(t *testing.T) {
	f := newFixture(t, pricing.Unavailable(enums.CurrencyUSD))
	dbtest.MustCreateProduct(t, f.conn, f.store.ID, "Taza", "5", "1", 0)

	catalog, err := f.svc.Catalog(context.Background(), f.store)
	require.NoError(t, err)
	require.Len(t, catalog.Products, 1)
	assert.False(t, catalog.Rate.Available)
	assert.False(t, catalog.Products[0].Pricing.RateAvailable)
	assert.True(t, catalog.Products[0].Pricing.PriceInLocal.IsZero())
	assert.True(t, catalog.Products[0].Pricing.ListPrice.Equal(dbtest.Dec(t, "6")))
	assert.False(t, catalog.Products[0].InStock)
}

func TestDetailHonorsVariantOverrides(t *testing.T) {
	f := newFixture(t, usdRate("10"))
	product := dbtest.MustCreateProduct(t, f.conn, f.store.ID, "Zapato", "30", "3", 0,
		models.ProductVariant{ColorName: "Negro", Size: "40", Stock: 2},
		models.ProductVariant{ColorName: "Oro", Size: "41", Stock: 1, CashPrice: dbtest.DecPtr(t, "35"), Penalty: dbtest.DecPtr(t, "0"), SortOrder: 1},
	)

	detail, err := f.svc.Detail(context.Background(), f.store, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Product.Stock)
	require.Len(t, detail.Product.Variants, 2)

	inherited := detail.Product.Variants[0]
	assert.Equal(t, "Negro / 40", inherited.Label)
	assert.True(t, inherited.Pricing.ListPrice.Equal(dbtest.Dec(t, "33")))
	assert.Equal(t, 9, inherited.Pricing.DiscountPercent)

	override := detail.Product.Variants[1]
	assert.True(t, override.Pricing.ListPrice.Equal(dbtest.Dec(t, "35")))
	assert.False(t, override.Pricing.HasDiscount)
	assert.True(t, override.Pricing.PriceInLocal.Equal(dbtest.Dec(t, "350")))
}

func TestDetailMissingProduct(t *testing.T) {
	f := newFixture(t, usdRate("10"))
	_, err := f.svc.Detail(context.Background(), f.store, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Zero(t, f.rates.calls, "rate lookup happens after the product is found")
}

func TestPreviewCoercesEditorInput(t *testing.T) {
	f := newFixture(t, usdRate("36.5"))

	preview, err := f.svc.Preview(context.Background(), f.store, PreviewInput{CashPrice: "20", Penalty: "abc"})
	require.NoError(t, err)
	assert.True(t, preview.Quote.ListPrice.Equal(dbtest.Dec(t, "20")))
	assert.Equal(t, 0, preview.Quote.DiscountPercent)
	assert.True(t, preview.Quote.PriceInLocal.Equal(dbtest.Dec(t, "730")))

	preview, err = f.svc.Preview(context.Background(), f.store, PreviewInput{CashPrice: "-3", Penalty: "1"})
	require.NoError(t, err)
	assert.Equal(t, 100, preview.Quote.DiscountPercent)
}

func TestRateFailureSurfaces(t *testing.T) {
	f := newFixture(t, pricing.ActiveRate{})
	f.rates.err = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "load global rates")

	_, err := f.svc.Catalog(context.Background(), f.store)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, usdRate("10"))
	ctx := context.Background()
	plain := dbtest.MustCreateProduct(t, f.conn, f.store.ID, "Taza", "5", "1", 4)
	withVariants := dbtest.MustCreateProduct(t, f.conn, f.store.ID, "Franela", "10", "2", 0,
		models.ProductVariant{ColorName: "Azul", Size: "L", Stock: 6, Penalty: dbtest.DecPtr(t, "1.5")},
	)
	inactive := dbtest.MustCreateProduct(t, f.conn, f.store.ID, "Viejo", "1", "0", 1)
	require.NoError(t, f.conn.Model(inactive).Update("is_active", false).Error)

	snap, err := f.svc.Snapshot(ctx, f.store.ID, plain.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, snap.VariantID)
	assert.Equal(t, 4, snap.Stock)
	assert.True(t, snap.CashPrice.Equal(dbtest.Dec(t, "5")))

	variantID := withVariants.Variants[0].ID
	snap, err = f.svc.Snapshot(ctx, f.store.ID, withVariants.ID, &variantID)
	require.NoError(t, err)
	require.NotNil(t, snap.VariantID)
	assert.Equal(t, "Azul / L", snap.VariantLabel)
	assert.True(t, snap.CashPrice.Equal(dbtest.Dec(t, "10")))
	assert.True(t, snap.Penalty.Equal(dbtest.Dec(t, "1.5")))
	assert.Equal(t, 6, snap.Stock)

	_, err = f.svc.Snapshot(ctx, f.store.ID, withVariants.ID, nil)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	missing := uuid.New()
	_, err = f.svc.Snapshot(ctx, f.store.ID, withVariants.ID, &missing)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = f.svc.Snapshot(ctx, f.store.ID, inactive.ID, nil)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	_, err := NewService(nil, &stubRates{})
	require.Error(t, err)
	_, err = NewService(NewRepository(nil), nil)
	require.Error(t, err)
}
