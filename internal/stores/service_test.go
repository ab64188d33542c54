package stores

import (
	"context"
	"testing"

	"github.com/angelmondragon/vitrina-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository, func(slug string, opts ...func(*models.Store)) *models.Store) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	create := func(slug string, opts ...func(*models.Store)) *models.Store {
		return dbtest.MustCreateStore(t, conn, slug, opts...)
	}
	return svc, repo, create
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestGetBySlugMapsStore(t *testing.T) {
	svc, _, create := newTestService(t)
	create("moda-caracas", func(s *models.Store) {
		s.CurrencyMode = enums.CurrencyEUR
		s.EURRateOverride = dbtest.DecPtr(t, "41.5")
		s.DiscountMethods = pq.StringArray{"zelle", "ZELLE", "paypal", "cash"}
	})

	store, err := svc.GetBySlug(context.Background(), " Moda-Caracas ")
	require.NoError(t, err)
	assert.Equal(t, "moda-caracas", store.Slug)
	assert.Equal(t, enums.CurrencyEUR, store.CurrencyMode)
	assert.Equal(t, []enums.PaymentMethod{enums.PaymentMethodZelle, enums.PaymentMethodCash}, store.DiscountMethods)

	rates := store.Rates()
	require.NotNil(t, rates.EUROverride)
	assert.True(t, rates.EUROverride.Equal(dbtest.Dec(t, "41.5")))
	assert.Nil(t, rates.USDOverride)
}

func TestResolveActiveHidesInactiveStores(t *testing.T) {
	svc, _, create := newTestService(t)
	create("cerrada", func(s *models.Store) { s.IsActive = false })

	_, err := svc.ResolveActive(context.Background(), "cerrada")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	store, err := svc.GetBySlug(context.Background(), "cerrada")
	require.NoError(t, err)
	assert.False(t, store.IsActive)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.GetBySlug(context.Background(), "  ")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestUpdateRateOverrides(t *testing.T) {
	svc, _, create := newTestService(t)
	store := create("tienda", func(s *models.Store) {
		s.USDRateOverride = dbtest.DecPtr(t, "36")
	})
	ctx := context.Background()

	updated, err := svc.UpdateRateOverrides(ctx, store.ID, UpdateRatesInput{
		Mode:        enums.CurrencyEUR,
		USDOverride: dbtest.DecPtr(t, "0"),
		EUROverride: dbtest.DecPtr(t, "40.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.CurrencyEUR, updated.CurrencyMode)
	assert.Nil(t, updated.USDRateOverride, "zero override clears")
	require.NotNil(t, updated.EURRateOverride)
	assert.True(t, updated.EURRateOverride.Equal(dbtest.Dec(t, "40.25")))

	_, err = svc.UpdateRateOverrides(ctx, store.ID, UpdateRatesInput{Mode: "btc"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.UpdateRateOverrides(ctx, store.ID, UpdateRatesInput{USDOverride: dbtest.DecPtr(t, "-1")})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.UpdateRateOverrides(ctx, uuid.New(), UpdateRatesInput{})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestFromModelDefaultsUnknownMode(t *testing.T) {
	dto := FromModel(&models.Store{CurrencyMode: "ves"})
	assert.Equal(t, enums.CurrencyUSD, dto.CurrencyMode)
	assert.Nil(t, FromModel(nil))
	assert.Equal(t, enums.CurrencyUSD, (*StoreDTO)(nil).Rates().Mode)
}
