package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
)

// Order is the immutable snapshot of a submitted cart plus its admin-driven status.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	StoreID          uuid.UUID           `gorm:"column:store_id;type:uuid;not null;uniqueIndex:orders_store_number_key,priority:1"`
	Number           int64               `gorm:"column:number;not null;uniqueIndex:orders_store_number_key,priority:2"`
	CustomerName     string              `gorm:"column:customer_name;not null"`
	CustomerEmail    *string             `gorm:"column:customer_email"`
	Phone            *string             `gorm:"column:phone"`
	IdentityDocument *string             `gorm:"column:identity_document"`
	Address          *string             `gorm:"column:address"`
	Notes            *string             `gorm:"column:notes"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;not null"`
	DeliveryType     enums.DeliveryType  `gorm:"column:delivery_type;not null"`
	Courier          *enums.Courier      `gorm:"column:courier"`
	Discounted       bool                `gorm:"column:discounted;not null"`
	SubtotalUSD      decimal.Decimal     `gorm:"column:subtotal_usd;type:numeric(12,2);not null"`
	PenaltyUSD       decimal.Decimal     `gorm:"column:penalty_usd;type:numeric(12,2);not null"`
	TotalUSD         decimal.Decimal     `gorm:"column:total_usd;type:numeric(12,2);not null"`
	TotalBs          decimal.Decimal     `gorm:"column:total_bs;type:numeric(16,2);not null"`
	ExchangeRate     decimal.Decimal     `gorm:"column:exchange_rate;type:numeric(14,4);not null"`
	RateCurrency     enums.Currency      `gorm:"column:rate_currency;not null"`
	RateSource       enums.RateSource    `gorm:"column:rate_source;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;not null"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusChangedAt  *time.Time          `gorm:"column:status_changed_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots one cart row at submission.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID    *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	VariantLabel *string         `gorm:"column:variant_label"`
	UnitPriceUSD decimal.Decimal `gorm:"column:unit_price_usd;type:numeric(12,2);not null"`
	PenaltyUSD   decimal.Decimal `gorm:"column:penalty_usd;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	LineTotalUSD decimal.Decimal `gorm:"column:line_total_usd;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
