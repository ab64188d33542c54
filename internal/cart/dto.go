package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

// AddItemInput selects a product or one of its variants.
type AddItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// ItemView is a cart row with its per-unit quote and line sums.
type ItemView struct {
	Item
	ListPrice       decimal.Decimal `json:"list_price"`
	DiscountPercent int             `json:"discount_percent"`
	LineBaseUSD     decimal.Decimal `json:"line_base_usd"`
	LinePenaltyUSD  decimal.Decimal `json:"line_penalty_usd"`
}

// View is the cart as returned to the storefront, totaled for method.
type View struct {
	StoreID       uuid.UUID            `json:"store_id"`
	SessionID     string               `json:"session_id"`
	State         enums.CheckoutState  `json:"state"`
	Items         []ItemView           `json:"items"`
	ItemCount     int                  `json:"item_count"`
	PaymentMethod *enums.PaymentMethod `json:"payment_method,omitempty"`
	Totals        pricing.CartTotals   `json:"totals"`
}

func buildView(c *Cart, method *enums.PaymentMethod, totals pricing.CartTotals) *View {
	items := make([]ItemView, 0, len(c.Items))
	for _, item := range c.Items {
		qty := decimal.NewFromInt(int64(clampQuantity(item.Quantity)))
		list := item.BasePrice.Add(item.Penalty)
		items = append(items, ItemView{
			Item:            item,
			ListPrice:       list,
			DiscountPercent: pricing.DiscountPercent(item.Penalty, list),
			LineBaseUSD:     item.BasePrice.Mul(qty),
			LinePenaltyUSD:  item.Penalty.Mul(qty),
		})
	}
	return &View{
		StoreID:       c.StoreID,
		SessionID:     c.SessionID,
		State:         c.State,
		Items:         items,
		ItemCount:     c.ItemCount(),
		PaymentMethod: method,
		Totals:        totals,
	}
}
