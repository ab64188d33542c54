package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/internal/products"
)

// StockReleaser returns sold units to inventory when an order is cancelled.
type StockReleaser interface {
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
}

type productStock struct {
	repo *products.Repository
}

// NewStockReleaser releases stock through the product repository.
func NewStockReleaser(repo *products.Repository) StockReleaser {
	return productStock{repo: repo}
}

func (p productStock) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	return p.repo.WithTx(tx).IncrementStock(ctx, productID, variantID, qty)
}
