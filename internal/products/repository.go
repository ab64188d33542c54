package products

import (
	"context"
	"errors"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientStock is returned when a guarded decrement finds too little stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrProductUnavailable is returned when the product was deactivated or deleted.
	ErrProductUnavailable = errors.New("product unavailable")
)

// Repository wraps product and variant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}

// FindByID loads a product of storeID with its variants.
func (r *Repository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByStore returns the active catalog of a store in display order.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// IncrementStock puts qty back on the variant, or on the product when
// variantID is nil. Rows deleted since the sale are skipped.
func (r *Repository) IncrementStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	if qty < 1 {
		return nil
	}
	query := r.db.WithContext(ctx)
	if variantID != nil {
		return query.Model(&models.ProductVariant{}).
			Where("id = ? AND product_id = ?", *variantID, productID).
			UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
	}
	return query.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

// DecrementStock subtracts qty from the variant, or from the product when
// variantID is nil. The update only applies while the product is active and
// stock covers qty.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	if qty < 1 {
		return nil
	}
	query := r.db.WithContext(ctx)
	var res *gorm.DB
	if variantID != nil {
		res = query.Model(&models.ProductVariant{}).
			Where("id = ? AND product_id = ? AND stock >= ?", *variantID, productID, qty).
			Where("EXISTS (SELECT 1 FROM products WHERE products.id = product_variants.product_id AND products.is_active = ?)", true).
			UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	} else {
		res = query.Model(&models.Product{}).
			Where("id = ? AND is_active = ? AND stock >= ?", productID, true, qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.decrementMiss(ctx, productID)
	}
	return nil
}

// decrementMiss tells a deactivated product apart from a short one.
func (r *Repository) decrementMiss(ctx context.Context, productID uuid.UUID) error {
	var product models.Product
	err := r.db.WithContext(ctx).Select("id", "is_active").Where("id = ?", productID).First(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrProductUnavailable
	case err != nil:
		return err
	case !product.IsActive:
		return ErrProductUnavailable
	}
	return ErrInsufficientStock
}
