package pricing

import (
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// RateConfig is the globally configured bolívar-per-unit rate of each currency.
type RateConfig struct {
	USDRate decimal.Decimal `json:"usd_rate"`
	EURRate decimal.Decimal `json:"eur_rate"`
}

// For returns the global rate of the given currency.
func (c RateConfig) For(currency enums.Currency) decimal.Decimal {
	if currency == enums.CurrencyEUR {
		return c.EURRate
	}
	return c.USDRate
}

// StoreRates captures a store's currency mode and its manual overrides.
type StoreRates struct {
	Mode        enums.Currency
	USDOverride *decimal.Decimal
	EUROverride *decimal.Decimal
}

func (s StoreRates) override() *decimal.Decimal {
	if s.mode() == enums.CurrencyEUR {
		return s.EUROverride
	}
	return s.USDOverride
}

func (s StoreRates) mode() enums.Currency {
	if s.Mode.IsValid() {
		return s.Mode
	}
	return enums.CurrencyUSD
}

// ActiveRate is the single rate a store quotes its local amounts with.
type ActiveRate struct {
	Currency  enums.Currency   `json:"currency"`
	Value     decimal.Decimal  `json:"value"`
	Source    enums.RateSource `json:"source"`
	Available bool             `json:"available"`
}

// Unavailable builds the explicit "no usable rate" state for currency.
func Unavailable(currency enums.Currency) ActiveRate {
	return ActiveRate{
		Currency: currency,
		Value:    decimal.Zero,
		Source:   enums.RateSourceUnavailable,
	}
}

// SelectRate applies the rate priority: positive store override, then the
// positive global rate, then unavailable. Unknown modes fall back to usd.
func SelectRate(store StoreRates, global RateConfig) ActiveRate {
	mode := store.mode()

	if override := store.override(); override != nil && override.IsPositive() {
		return ActiveRate{
			Currency:  mode,
			Value:     *override,
			Source:    enums.RateSourceStoreOverride,
			Available: true,
		}
	}

	if value := global.For(mode); value.IsPositive() {
		return ActiveRate{
			Currency:  mode,
			Value:     value,
			Source:    enums.RateSourceGlobal,
			Available: true,
		}
	}

	return Unavailable(mode)
}
