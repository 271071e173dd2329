package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (int64, error)
	FindByNumberForUpdate(ctx context.Context, tx *sql.Tx, number string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error
	ListDetailed(ctx context.Context, number string) ([]domain.OrderDetailRow, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (int64, error)
}

type ShippingAddressRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, a domain.ShippingAddress) (int64, error)
}

// PlacedOrder is the committed state of a new order.
type PlacedOrder struct {
	Order           domain.Order
	Items           []domain.OrderItem
	ShippingAddress *domain.ShippingAddress
}

type OrderService struct {
	db          TransactionManager
	orderRepo   OrderRepository
	itemRepo    OrderItemRepository
	addressRepo ShippingAddressRepository
	logger      *zap.Logger
	txTimeout   time.Duration
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	itemRepo OrderItemRepository,
	addressRepo ShippingAddressRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		addressRepo: addressRepo,
		logger:      logger,
		txTimeout:   txTimeout,
	}
}

// PlaceOrder writes the order, its items and the optional shipping address in one
// transaction. Nothing is persisted unless every insert succeeds.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	order domain.Order,
	items []domain.OrderItem,
	address *domain.ShippingAddress,
) (*PlacedOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	orderID, err := s.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		return nil, err
	}
	order.ID = orderID

	placed := &PlacedOrder{Order: order, Items: make([]domain.OrderItem, 0, len(items))}
	for _, item := range items {
		item.OrderID = orderID
		itemID, err := s.itemRepo.Insert(txCtx, tx, item)
		if err != nil {
			s.logger.Error("failed to insert order item",
				zap.String("orderNumber", order.Number),
				zap.String("productName", item.ProductName),
				zap.Error(err),
			)
			return nil, err
		}
		item.ID = itemID
		placed.Items = append(placed.Items, item)
	}

	if address != nil {
		addr := *address
		addr.OrderID = orderID
		addrID, err := s.addressRepo.Insert(txCtx, tx, addr)
		if err != nil {
			s.logger.Error("failed to insert shipping address", zap.String("orderNumber", order.Number), zap.Error(err))
			return nil, err
		}
		addr.ID = addrID
		placed.ShippingAddress = &addr
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderNumber", order.Number), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order committed",
		zap.String("orderNumber", order.Number),
		zap.Int("itemCount", len(placed.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return placed, nil
}

// UpdateStatus moves an order along the status lifecycle under a row lock.
func (s *OrderService) UpdateStatus(ctx context.Context, number string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("unknown order status %q", next),
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByNumberForUpdate(txCtx, tx, number)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	if err := s.orderRepo.UpdateStatus(txCtx, tx, order.ID, next); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("orderNumber", number),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)),
	)
	order.Status = next
	return order, nil
}

// ListOrderRows returns the denormalised rows for one order, or for all orders when number
// is empty. An unknown number is a not-found error.
func (s *OrderService) ListOrderRows(ctx context.Context, number string) ([]domain.OrderDetailRow, error) {
	rows, err := s.orderRepo.ListDetailed(ctx, number)
	if err != nil {
		return nil, err
	}
	if number != "" && len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", number))
	}
	return rows, nil
}
