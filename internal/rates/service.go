package rates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type rateRepository interface {
	Get(ctx context.Context) (*models.RateSettings, error)
	Upsert(ctx context.Context, usd, eur decimal.Decimal, updatedBy *string) (*models.RateSettings, error)
}

type unavailableRecorder interface {
	IncRateUnavailable(currency string)
}

// Service resolves exchange rates. Every call reads the database; nothing is cached.
type Service interface {
	Global(ctx context.Context) (pricing.RateConfig, error)
	ActiveRate(ctx context.Context, store pricing.StoreRates) (pricing.ActiveRate, error)
	UpdateGlobal(ctx context.Context, input UpdateGlobalInput) (pricing.RateConfig, error)
}

// UpdateGlobalInput carries new global rates in bolívares per unit.
type UpdateGlobalInput struct {
	USDRate   decimal.Decimal
	EURRate   decimal.Decimal
	UpdatedBy string
}

type service struct {
	repo    rateRepository
	metrics unavailableRecorder
	logg    *logger.Logger
}

// NewService builds the rate service. metrics may be nil.
func NewService(repo rateRepository, metrics unavailableRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rate repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, metrics: metrics, logg: logg}, nil
}

func (s *service) Global(ctx context.Context) (pricing.RateConfig, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.RateConfig{USDRate: decimal.Zero, EURRate: decimal.Zero}, nil
		}
		return pricing.RateConfig{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load global rates")
	}
	return pricing.RateConfig{
		USDRate: pricing.Coerce(row.USDRate),
		EURRate: pricing.Coerce(row.EURRate),
	}, nil
}

func (s *service) ActiveRate(ctx context.Context, store pricing.StoreRates) (pricing.ActiveRate, error) {
	global, err := s.Global(ctx)
	if err != nil {
		return pricing.ActiveRate{}, err
	}
	rate := pricing.SelectRate(store, global)
	if !rate.Available {
		s.logg.Warn(s.logg.WithField(ctx, "currency", rate.Currency.String()), "no usable exchange rate")
		if s.metrics != nil {
			s.metrics.IncRateUnavailable(rate.Currency.String())
		}
	}
	return rate, nil
}

func (s *service) UpdateGlobal(ctx context.Context, input UpdateGlobalInput) (pricing.RateConfig, error) {
	invalid := map[string]any{}
	if !input.USDRate.IsPositive() {
		invalid["usd_rate"] = "must be greater than zero"
	}
	if !input.EURRate.IsPositive() {
		invalid["eur_rate"] = "must be greater than zero"
	}
	if len(invalid) > 0 {
		return pricing.RateConfig{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid exchange rates").WithDetails(invalid)
	}

	var updatedBy *string
	if who := strings.TrimSpace(input.UpdatedBy); who != "" {
		updatedBy = &who
	}

	row, err := s.repo.Upsert(ctx, input.USDRate, input.EURRate, updatedBy)
	if err != nil {
		return pricing.RateConfig{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save global rates")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"usd_rate": row.USDRate.String(),
		"eur_rate": row.EURRate.String(),
	}), "global exchange rates updated")

	return pricing.RateConfig{USDRate: row.USDRate, EURRate: row.EURRate}, nil
}
