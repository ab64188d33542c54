package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/pagination"
)

// Service exposes admin order reads and status changes.
type Service interface {
	Get(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filter ListFilter) (*OrderList, error)
	UpdateStatus(ctx context.Context, storeID, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo  Repository
	tx    txRunner
	stock StockReleaser
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds the order service. Cancelling an order returns its units
// to stock through the releaser.
func NewService(repo Repository, tx txRunner, stock StockReleaser, logg *logger.Logger) (Service, error) {
	switch {
	case repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case stock == nil:
		return nil, fmt.Errorf("stock releaser required")
	case logg == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, stock: stock, logg: logg, now: time.Now}, nil
}

func (s *service) Get(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, mapRepoError(err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filter ListFilter) (*OrderList, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter").
			WithDetails(map[string]any{"status": filter.Status.String()})
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.repo.ListByStore(ctx, storeID, params, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		list.Orders = append(list.Orders, *FromModel(&rows[i]))
	}
	return list, nil
}

// UpdateStatus applies an admin status change. Requesting the current status is a no-op.
func (s *service) UpdateStatus(ctx context.Context, storeID, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": target.String()})
	}

	order, err := s.repo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, mapRepoError(err, "load order")
	}
	if order.Status == target {
		return FromModel(order), nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
			WithDetails(map[string]any{"from": order.Status.String(), "to": target.String()})
	}

	changedAt := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, storeID, orderID, order.Status, target, changedAt); err != nil {
			return err
		}
		if target != enums.OrderStatusCancelled {
			return nil
		}
		for _, item := range order.Items {
			if err := s.stock.Release(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
				return fmt.Errorf("release stock for %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order was modified, reload and retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"from": order.Status.String(),
		"to":   target.String(),
	}), "order status updated")

	order.Status = target
	order.StatusChangedAt = &changedAt
	order.UpdatedAt = changedAt
	return FromModel(order), nil
}

func mapRepoError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
