package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
)

// Store represents one tenant storefront.
type Store struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Slug            string           `gorm:"column:slug;not null;uniqueIndex"`
	Name            string           `gorm:"column:name;not null"`
	CurrencyMode    enums.Currency   `gorm:"column:currency_mode;not null"`
	USDRateOverride *decimal.Decimal `gorm:"column:usd_rate_override;type:numeric(14,4)"`
	EURRateOverride *decimal.Decimal `gorm:"column:eur_rate_override;type:numeric(14,4)"`
	DiscountMethods pq.StringArray   `gorm:"column:discount_methods;type:text[]"`
	WhatsAppPhone   *string          `gorm:"column:whatsapp_phone"`
	IsActive        bool             `gorm:"column:is_active;not null"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id when the caller did not.
func (s *Store) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
