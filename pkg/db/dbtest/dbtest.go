// Package dbtest opens in-memory SQLite databases carrying the storefront schema
// for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
)

// Decimal columns are TEXT so values round-trip without float conversion.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  currency_mode TEXT NOT NULL DEFAULT 'usd',
  usd_rate_override TEXT,
  eur_rate_override TEXT,
  discount_methods TEXT,
  whatsapp_phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS rate_settings (
  id INTEGER PRIMARY KEY,
  usd_rate TEXT NOT NULL DEFAULT '0',
  eur_rate TEXT NOT NULL DEFAULT '0',
  updated_by TEXT,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  cash_price TEXT NOT NULL DEFAULT '0',
  penalty TEXT NOT NULL DEFAULT '0',
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  color_name TEXT NOT NULL DEFAULT '',
  color_hex TEXT NOT NULL DEFAULT '',
  size TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  gallery TEXT,
  cash_price TEXT,
  penalty TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  number INTEGER NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT,
  phone TEXT,
  identity_document TEXT,
  address TEXT,
  notes TEXT,
  payment_method TEXT NOT NULL,
  delivery_type TEXT NOT NULL,
  courier TEXT,
  discounted INTEGER NOT NULL DEFAULT 0,
  subtotal_usd TEXT NOT NULL,
  penalty_usd TEXT NOT NULL,
  total_usd TEXT NOT NULL,
  total_bs TEXT NOT NULL,
  exchange_rate TEXT NOT NULL,
  rate_currency TEXT NOT NULL,
  rate_source TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  status_changed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (store_id, number)
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  name TEXT NOT NULL,
  variant_label TEXT,
  unit_price_usd TEXT NOT NULL,
  penalty_usd TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_usd TEXT NOT NULL,
  created_at DATETIME
);`,
}

// Open returns a private in-memory database with every storefront table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

// Dec parses a decimal literal and fails the test on malformed input.
func Dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

// DecPtr is Dec returning a pointer, for nullable columns.
func DecPtr(t *testing.T, value string) *decimal.Decimal {
	t.Helper()
	d := Dec(t, value)
	return &d
}

// MustCreateStore inserts an active usd store with the given slug.
func MustCreateStore(t *testing.T, conn *gorm.DB, slug string, opts ...func(*models.Store)) *models.Store {
	t.Helper()
	store := &models.Store{
		Slug:            slug,
		Name:            "Tienda " + slug,
		CurrencyMode:    enums.CurrencyUSD,
		DiscountMethods: pq.StringArray{},
		IsActive:        true,
	}
	for _, opt := range opts {
		opt(store)
	}
	require.NoError(t, conn.Create(store).Error)
	return store
}

// MustSetGlobalRates writes the single global rate row.
func MustSetGlobalRates(t *testing.T, conn *gorm.DB, usd, eur string) {
	t.Helper()
	row := &models.RateSettings{
		ID:      models.GlobalRateSettingsID,
		USDRate: Dec(t, usd),
		EURRate: Dec(t, eur),
	}
	require.NoError(t, conn.Save(row).Error)
}

// MustCreateProduct inserts an active product priced at cash + penalty.
func MustCreateProduct(t *testing.T, conn *gorm.DB, storeID uuid.UUID, name, cash, penalty string, stock int, variants ...models.ProductVariant) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:   storeID,
		Name:      name,
		CashPrice: Dec(t, cash),
		Penalty:   Dec(t, penalty),
		Stock:     stock,
		IsActive:  true,
		Variants:  variants,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}
