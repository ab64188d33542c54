package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

// StoreDTO exposes tenant data relevant to pricing and checkout.
type StoreDTO struct {
	ID              uuid.UUID             `json:"id"`
	Slug            string                `json:"slug"`
	Name            string                `json:"name"`
	CurrencyMode    enums.Currency        `json:"currency_mode"`
	USDRateOverride *decimal.Decimal      `json:"usd_rate_override,omitempty"`
	EURRateOverride *decimal.Decimal      `json:"eur_rate_override,omitempty"`
	DiscountMethods []enums.PaymentMethod `json:"discount_methods,omitempty"`
	WhatsAppPhone   *string               `json:"whatsapp_phone,omitempty"`
	IsActive        bool                  `json:"is_active"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// Rates returns the store's rate mode and overrides for rate selection.
func (s *StoreDTO) Rates() pricing.StoreRates {
	if s == nil {
		return pricing.StoreRates{Mode: enums.CurrencyUSD}
	}
	return pricing.StoreRates{
		Mode:        s.CurrencyMode,
		USDOverride: s.USDRateOverride,
		EUROverride: s.EURRateOverride,
	}
}

// UpdateRatesInput carries the admin-editable rate fields. A nil or zero
// override clears it so the global rate applies.
type UpdateRatesInput struct {
	Mode        enums.Currency
	USDOverride *decimal.Decimal
	EUROverride *decimal.Decimal
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}

	mode := m.CurrencyMode
	if !mode.IsValid() {
		mode = enums.CurrencyUSD
	}

	return &StoreDTO{
		ID:              m.ID,
		Slug:            m.Slug,
		Name:            m.Name,
		CurrencyMode:    mode,
		USDRateOverride: copyDecimal(m.USDRateOverride),
		EURRateOverride: copyDecimal(m.EURRateOverride),
		DiscountMethods: parseMethods(m.DiscountMethods),
		WhatsAppPhone:   m.WhatsAppPhone,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func parseMethods(raw []string) []enums.PaymentMethod {
	if len(raw) == 0 {
		return nil
	}
	out := make([]enums.PaymentMethod, 0, len(raw))
	seen := make(map[enums.PaymentMethod]struct{}, len(raw))
	for _, value := range raw {
		method, err := enums.ParsePaymentMethod(value)
		if err != nil {
			continue
		}
		if _, ok := seen[method]; ok {
			continue
		}
		seen[method] = struct{}{}
		out = append(out, method)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func copyDecimal(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
