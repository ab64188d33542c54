package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/pricing"
)

// BaseVariantKey identifies the product itself when it has no variant.
const BaseVariantKey = "base"

// ProductView is a product as the storefront displays it.
type ProductView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Category    *string       `json:"category,omitempty"`
	ImageURL    *string       `json:"image_url,omitempty"`
	Stock       int           `json:"stock"`
	InStock     bool          `json:"in_stock"`
	Pricing     pricing.Quote `json:"pricing"`
	Variants    []VariantView `json:"variants,omitempty"`
}

// VariantView is one color/size option with its own quote.
type VariantView struct {
	ID        uuid.UUID     `json:"id"`
	ColorName string        `json:"color_name"`
	ColorHex  string        `json:"color_hex"`
	Size      string        `json:"size"`
	Label     string        `json:"label"`
	Stock     int           `json:"stock"`
	ImageURL  *string       `json:"image_url,omitempty"`
	Gallery   []string      `json:"gallery,omitempty"`
	Pricing   pricing.Quote `json:"pricing"`
}

// CatalogView is the priced product grid of a store.
type CatalogView struct {
	Rate     pricing.ActiveRate `json:"rate"`
	Products []ProductView      `json:"products"`
}

// DetailView is a single priced product.
type DetailView struct {
	Rate    pricing.ActiveRate `json:"rate"`
	Product ProductView        `json:"product"`
}

// PreviewInput carries raw editor values; malformed numbers price as zero.
type PreviewInput struct {
	CashPrice string
	Penalty   string
}

// PreviewView is the editor's live pricing preview.
type PreviewView struct {
	Rate  pricing.ActiveRate `json:"rate"`
	Quote pricing.Quote      `json:"quote"`
}

// ItemSnapshot captures what a cart needs to price and stock-check one product/variant.
type ItemSnapshot struct {
	ProductID    uuid.UUID
	VariantID    *uuid.UUID
	Name         string
	VariantLabel string
	CashPrice    decimal.Decimal
	Penalty      decimal.Decimal
	Stock        int
}

func toProductView(product models.Product, rate pricing.ActiveRate, withVariants bool) ProductView {
	view := ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		ImageURL:    product.ImageURL,
		Stock:       totalStock(product),
		Pricing:     pricing.ComputeWithRate(product.CashPrice, product.Penalty, rate),
	}
	view.InStock = view.Stock > 0

	if withVariants && len(product.Variants) > 0 {
		view.Variants = make([]VariantView, 0, len(product.Variants))
		for _, variant := range product.Variants {
			view.Variants = append(view.Variants, toVariantView(product, variant, rate))
		}
	}
	return view
}

func toVariantView(product models.Product, variant models.ProductVariant, rate pricing.ActiveRate) VariantView {
	return VariantView{
		ID:        variant.ID,
		ColorName: variant.ColorName,
		ColorHex:  variant.ColorHex,
		Size:      variant.Size,
		Label:     variant.Label(),
		Stock:     max(variant.Stock, 0),
		ImageURL:  variant.ImageURL,
		Gallery:   []string(variant.Gallery),
		Pricing:   pricing.ComputeWithRate(variant.EffectiveCashPrice(product), variant.EffectivePenalty(product), rate),
	}
}

// totalStock sums variant stock when variants exist, else the product's own stock.
func totalStock(product models.Product) int {
	if len(product.Variants) == 0 {
		return max(product.Stock, 0)
	}
	total := 0
	for _, variant := range product.Variants {
		total += max(variant.Stock, 0)
	}
	return total
}
