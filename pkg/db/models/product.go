package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing. CashPrice is what dollar-method buyers pay;
// Penalty is added for every other method.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Category    *string          `gorm:"column:category"`
	CashPrice   decimal.Decimal  `gorm:"column:cash_price;type:numeric(12,2);not null"`
	Penalty     decimal.Decimal  `gorm:"column:penalty;type:numeric(12,2);not null"`
	Stock       int              `gorm:"column:stock;not null"`
	ImageURL    *string          `gorm:"column:image_url"`
	IsActive    bool             `gorm:"column:is_active;not null"`
	SortOrder   int              `gorm:"column:sort_order;not null"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductVariant is an independently stocked color/size combination. Nil price
// fields inherit the product's values.
type ProductVariant struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	ColorName string           `gorm:"column:color_name;not null"`
	ColorHex  string           `gorm:"column:color_hex;not null"`
	Size      string           `gorm:"column:size;not null"`
	Stock     int              `gorm:"column:stock;not null"`
	ImageURL  *string          `gorm:"column:image_url"`
	Gallery   pq.StringArray   `gorm:"column:gallery;type:text[]"`
	CashPrice *decimal.Decimal `gorm:"column:cash_price;type:numeric(12,2)"`
	Penalty   *decimal.Decimal `gorm:"column:penalty;type:numeric(12,2)"`
	SortOrder int              `gorm:"column:sort_order;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// EffectiveCashPrice returns the variant override or the product cash price.
func (v ProductVariant) EffectiveCashPrice(product Product) decimal.Decimal {
	if v.CashPrice != nil {
		return *v.CashPrice
	}
	return product.CashPrice
}

// EffectivePenalty returns the variant override or the product penalty.
func (v ProductVariant) EffectivePenalty(product Product) decimal.Decimal {
	if v.Penalty != nil {
		return *v.Penalty
	}
	return product.Penalty
}

// Label renders the variant for carts and order lines, e.g. "Negro / M".
func (v ProductVariant) Label() string {
	switch {
	case v.ColorName != "" && v.Size != "":
		return v.ColorName + " / " + v.Size
	case v.ColorName != "":
		return v.ColorName
	default:
		return v.Size
	}
}
