package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

const baseVariantKey = "base"

var (
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

// Item is one cart row. Prices are snapshots taken when the row was first added.
type Item struct {
	Key          string          `json:"key"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    *uuid.UUID      `json:"variant_id,omitempty"`
	Name         string          `json:"name"`
	VariantLabel string          `json:"variant_label,omitempty"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Penalty      decimal.Decimal `json:"penalty"`
	Quantity     int             `json:"quantity"`
}

// Cart is a session's selection within one store.
type Cart struct {
	StoreID   uuid.UUID           `json:"store_id"`
	SessionID string              `json:"session_id"`
	State     enums.CheckoutState `json:"state"`
	Items     []Item              `json:"items"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ItemKey builds the row identity: product id plus variant id, or "base".
func ItemKey(productID uuid.UUID, variantID *uuid.UUID) string {
	if variantID == nil {
		return productID.String() + ":" + baseVariantKey
	}
	return productID.String() + ":" + variantID.String()
}

// New returns an empty cart in the building state.
func New(storeID uuid.UUID, sessionID string) *Cart {
	return &Cart{
		StoreID:   storeID,
		SessionID: sessionID,
		State:     enums.CheckoutStateBuilding,
		Items:     []Item{},
	}
}

// Add merges item into the cart. An existing identity gains quantity instead of
// a second row. The resulting row is returned.
func (c *Cart) Add(item Item) Item {
	qty := clampQuantity(item.Quantity)
	key := ItemKey(item.ProductID, item.VariantID)
	for i := range c.Items {
		if c.Items[i].Key == key {
			c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity + qty)
			return c.Items[i]
		}
	}
	item.Key = key
	item.Quantity = qty
	item.BasePrice = pricing.Coerce(item.BasePrice)
	item.Penalty = pricing.Coerce(item.Penalty)
	c.Items = append(c.Items, item)
	return item
}

// Find returns the row with key, or nil.
func (c *Cart) Find(key string) *Item {
	for i := range c.Items {
		if c.Items[i].Key == key {
			return &c.Items[i]
		}
	}
	return nil
}

// SetQuantity overwrites a row's quantity, never going below one.
func (c *Cart) SetQuantity(key string, qty int) error {
	item := c.Find(key)
	if item == nil {
		return ErrItemNotFound
	}
	item.Quantity = clampQuantity(qty)
	return nil
}

// Adjust moves a row's quantity by delta, never going below one.
func (c *Cart) Adjust(key string, delta int) error {
	item := c.Find(key)
	if item == nil {
		return ErrItemNotFound
	}
	item.Quantity = clampQuantity(item.Quantity + delta)
	return nil
}

// Remove drops the row with key and reports whether it existed.
func (c *Cart) Remove(key string) bool {
	for i := range c.Items {
		if c.Items[i].Key == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Lines converts the rows for pricing.Totals.
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, pricing.Line{
			BasePrice: item.BasePrice,
			Penalty:   item.Penalty,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += clampQuantity(item.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no rows.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Transition moves the checkout flow to next when allowed.
func (c *Cart) Transition(next enums.CheckoutState) error {
	current := c.State
	if current == "" {
		current = enums.CheckoutStateBuilding
	}
	if !current.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	c.State = next
	return nil
}

func clampQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
