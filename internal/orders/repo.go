package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/angelmondragon/vitrina-backend/pkg/pagination"
)

// ErrStatusChanged is returned when an order left the expected status before an update landed.
var ErrStatusChanged = errors.New("order status changed concurrently")

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextNumber(ctx context.Context, storeID uuid.UUID) (int64, error)
	CreateWithItems(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params, filter ListFilter) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, storeID, orderID uuid.UUID, from, to enums.OrderStatus, changedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// NextNumber returns the next per-store order number. Callers run it inside the
// creating transaction; the (store_id, number) unique key rejects collisions.
func (r *repository) NextNumber(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var current int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (r *repository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Where("id = ? AND store_id = ?", orderID, storeID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByStore pages orders newest first by order number. Items are not loaded.
func (r *repository) ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params, filter ListFilter) ([]models.Order, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if cursor != nil {
		query = query.Where("number < ?", cursor.Number)
	}

	var rows []models.Order
	if err := query.
		Order("number DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{Number: last.Number})
	}
	return rows, next, nil
}

// UpdateStatus moves an order from one status to another. The update only
// applies while the row still holds from.
func (r *repository) UpdateStatus(ctx context.Context, storeID, orderID uuid.UUID, from, to enums.OrderStatus, changedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND store_id = ? AND status = ?", orderID, storeID, from).
		Updates(map[string]any{
			"status":            to,
			"status_changed_at": changedAt,
			"updated_at":        changedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}
