package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vitrina-backend/api/middleware"
	"github.com/angelmondragon/vitrina-backend/api/responses"
	"github.com/angelmondragon/vitrina-backend/api/validators"
	"github.com/angelmondragon/vitrina-backend/internal/products"
	"github.com/angelmondragon/vitrina-backend/internal/rates"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
)

type updateGlobalRatesRequest struct {
	USDRate decimal.Decimal `json:"usd_rate"`
	EURRate decimal.Decimal `json:"eur_rate"`
}

// AdminUpdateGlobalRates replaces the platform-wide USD and EUR rates.
func AdminUpdateGlobalRates(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rates service unavailable"))
			return
		}

		var payload updateGlobalRatesRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.UpdateGlobal(r.Context(), rates.UpdateGlobalInput{
			USDRate:   payload.USDRate,
			EURRate:   payload.EURRate,
			UpdatedBy: middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

type updateStoreRatesRequest struct {
	CurrencyMode    string           `json:"currency_mode" validate:"omitempty,currency_mode"`
	USDRateOverride *decimal.Decimal `json:"usd_rate_override"`
	EURRateOverride *decimal.Decimal `json:"eur_rate_override"`
}

// AdminUpdateStoreRates sets a store's currency mode and rate overrides.
func AdminUpdateStoreRates(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}
		store, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStoreRatesRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateRateOverrides(r.Context(), store.ID, stores.UpdateRatesInput{
			Mode:        enums.Currency(strings.ToLower(strings.TrimSpace(payload.CurrencyMode))),
			USDOverride: payload.USDRateOverride,
			EUROverride: payload.EURRateOverride,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type pricingPreviewRequest struct {
	CashPrice string `json:"cash_price"`
	Penalty   string `json:"penalty"`
}

// AdminPricingPreview prices raw editor input with the store's active rate.
func AdminPricingPreview(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		store, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload pricingPreviewRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Preview(r.Context(), store, products.PreviewInput{
			CashPrice: payload.CashPrice,
			Penalty:   payload.Penalty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
