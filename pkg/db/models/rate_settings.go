package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GlobalRateSettingsID is the primary key of the single global rate row.
const GlobalRateSettingsID = 1

// RateSettings holds the global bolívar exchange rates.
type RateSettings struct {
	ID        int             `gorm:"column:id;primaryKey;autoIncrement:false"`
	USDRate   decimal.Decimal `gorm:"column:usd_rate;type:numeric(14,4);not null"`
	EURRate   decimal.Decimal `gorm:"column:eur_rate;type:numeric(14,4);not null"`
	UpdatedBy *string         `gorm:"column:updated_by"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (RateSettings) TableName() string {
	return "rate_settings"
}
