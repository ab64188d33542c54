package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
)

// ListFilter narrows admin order listings.
type ListFilter struct {
	Status *enums.OrderStatus
}

// OrderItemDTO is one snapshotted order row.
type OrderItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    *uuid.UUID      `json:"variant_id,omitempty"`
	Name         string          `json:"name"`
	VariantLabel *string         `json:"variant_label,omitempty"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd"`
	PenaltyUSD   decimal.Decimal `json:"penalty_usd"`
	Quantity     int             `json:"quantity"`
	LineTotalUSD decimal.Decimal `json:"line_total_usd"`
}

// OrderDTO is the order as shown to admins and returned from checkout.
type OrderDTO struct {
	ID                 uuid.UUID           `json:"id"`
	StoreID            uuid.UUID           `json:"store_id"`
	Number             int64               `json:"number"`
	CustomerName       string              `json:"customer_name"`
	CustomerEmail      *string             `json:"customer_email,omitempty"`
	Phone              *string             `json:"phone,omitempty"`
	IdentityDocument   *string             `json:"identity_document,omitempty"`
	Address            *string             `json:"address,omitempty"`
	Notes              *string             `json:"notes,omitempty"`
	PaymentMethod      enums.PaymentMethod `json:"payment_method"`
	PaymentMethodLabel string              `json:"payment_method_label"`
	DeliveryType       enums.DeliveryType  `json:"delivery_type"`
	Courier            *enums.Courier      `json:"courier,omitempty"`
	Discounted         bool                `json:"discounted"`
	SubtotalUSD        decimal.Decimal     `json:"subtotal_usd"`
	PenaltyUSD         decimal.Decimal     `json:"penalty_usd"`
	TotalUSD           decimal.Decimal     `json:"total_usd"`
	TotalBs            decimal.Decimal     `json:"total_bs"`
	ExchangeRate       decimal.Decimal     `json:"exchange_rate"`
	RateCurrency       enums.Currency      `json:"rate_currency"`
	RateSource         enums.RateSource    `json:"rate_source"`
	Status             enums.OrderStatus   `json:"status"`
	Items              []OrderItemDTO      `json:"items"`
	StatusChangedAt    *time.Time          `json:"status_changed_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// OrderList is one cursor page of orders, newest first.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted order, including whatever items were loaded.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			Name:         item.Name,
			VariantLabel: item.VariantLabel,
			UnitPriceUSD: item.UnitPriceUSD,
			PenaltyUSD:   item.PenaltyUSD,
			Quantity:     item.Quantity,
			LineTotalUSD: item.LineTotalUSD,
		})
	}
	return &OrderDTO{
		ID:                 m.ID,
		StoreID:            m.StoreID,
		Number:             m.Number,
		CustomerName:       m.CustomerName,
		CustomerEmail:      m.CustomerEmail,
		Phone:              m.Phone,
		IdentityDocument:   m.IdentityDocument,
		Address:            m.Address,
		Notes:              m.Notes,
		PaymentMethod:      m.PaymentMethod,
		PaymentMethodLabel: m.PaymentMethod.Label(),
		DeliveryType:       m.DeliveryType,
		Courier:            m.Courier,
		Discounted:         m.Discounted,
		SubtotalUSD:        m.SubtotalUSD,
		PenaltyUSD:         m.PenaltyUSD,
		TotalUSD:           m.TotalUSD,
		TotalBs:            m.TotalBs,
		ExchangeRate:       m.ExchangeRate,
		RateCurrency:       m.RateCurrency,
		RateSource:         m.RateSource,
		Status:             m.Status,
		Items:              items,
		StatusChangedAt:    m.StatusChangedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
