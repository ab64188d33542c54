package controllers

import (
	"net/http"

	"github.com/angelmondragon/vitrina-backend/api/middleware"
	"github.com/angelmondragon/vitrina-backend/api/responses"
	"github.com/angelmondragon/vitrina-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/vitrina-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName     string `json:"customer_name"`
	Email            string `json:"email"`
	PaymentMethod    string `json:"payment_method"`
	DeliveryType     string `json:"delivery_type"`
	Courier          string `json:"courier"`
	IdentityDocument string `json:"identity_document"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Notes            string `json:"notes"`
}

func (r checkoutRequest) toInput() checkoutsvc.SubmitInput {
	return checkoutsvc.SubmitInput{
		CustomerName:     r.CustomerName,
		Email:            r.Email,
		PaymentMethod:    r.PaymentMethod,
		DeliveryType:     r.DeliveryType,
		Courier:          r.Courier,
		IdentityDocument: r.IdentityDocument,
		Phone:            r.Phone,
		Address:          r.Address,
		Notes:            r.Notes,
	}
}

// Checkout submits the session's cart as an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		store, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), store, middleware.CartSessionFromContext(r.Context()), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
