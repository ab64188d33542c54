package paymentmethods

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/config"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

const (
	SettlementUSD = "usd"
	SettlementVES = "ves"
)

// MethodDTO describes one payment option on the checkout screen.
type MethodDTO struct {
	Method           enums.PaymentMethod `json:"method"`
	Label            string              `json:"label"`
	DiscountEligible bool                `json:"discount_eligible"`
	Settlement       string              `json:"settlement"`
}

// Service classifies payment methods per store.
type Service interface {
	PolicyFor(store *stores.StoreDTO) pricing.PaymentPolicy
	ListForStore(store *stores.StoreDTO) []MethodDTO
	ParseSelection(raw string) (*enums.PaymentMethod, error)
}

type service struct {
	defaults pricing.PaymentPolicy
}

// NewService builds the classifier from the configured defaults. Unknown
// method names in configuration are rejected.
func NewService(cfg config.PricingConfig) (Service, error) {
	methods := make([]enums.PaymentMethod, 0, len(cfg.DiscountMethods))
	for _, raw := range cfg.DiscountMethods {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		method, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return nil, fmt.Errorf("pricing discount methods: %w", err)
		}
		methods = append(methods, method)
	}
	return &service{defaults: pricing.NewPaymentPolicy(methods, cfg.UnsetMethodDiscounted)}, nil
}

// PolicyFor returns the store's own classification when it has one, else the configured default.
func (s *service) PolicyFor(store *stores.StoreDTO) pricing.PaymentPolicy {
	if store == nil || len(store.DiscountMethods) == 0 {
		return s.defaults
	}
	return pricing.NewPaymentPolicy(store.DiscountMethods, s.defaults.UnsetMethodDiscounted)
}

func (s *service) ListForStore(store *stores.StoreDTO) []MethodDTO {
	policy := s.PolicyFor(store)
	out := make([]MethodDTO, 0, len(enums.PaymentMethods()))
	for _, method := range enums.PaymentMethods() {
		m := method
		eligible := policy.IsDiscounted(&m)
		settlement := SettlementVES
		if eligible {
			settlement = SettlementUSD
		}
		out = append(out, MethodDTO{
			Method:           method,
			Label:            method.Label(),
			DiscountEligible: eligible,
			Settlement:       settlement,
		})
	}
	return out
}

// ParseSelection reads an optional method from user input. Blank means no method chosen yet.
func (s *service) ParseSelection(raw string) (*enums.PaymentMethod, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	method, err := enums.ParsePaymentMethod(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]any{"payment_method": raw})
	}
	return &method, nil
}
