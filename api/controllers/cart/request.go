package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/angelmondragon/vitrina-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
)

type addItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity" validate:"omitempty,min=1"`
}

func (r addItemRequest) toInput() cartsvc.AddItemInput {
	qty := r.Quantity
	if qty == 0 {
		qty = 1
	}
	return cartsvc.AddItemInput{
		ProductID: r.ProductID,
		VariantID: r.VariantID,
		Quantity:  qty,
	}
}

// updateItemRequest sets an absolute quantity or applies a relative delta.
type updateItemRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Delta    *int `json:"delta,omitempty"`
}

func (r updateItemRequest) validate() error {
	switch {
	case r.Quantity != nil && r.Delta != nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "send either quantity or delta, not both")
	case r.Quantity == nil && r.Delta == nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity or delta is required")
	}
	return nil
}
