package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	FindByNumberForUpdate(ctx context.Context, tx *sql.Tx, number string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error
}

type PaymentRepository interface {
	FindByTransactionHash(ctx context.Context, tx *sql.Tx, hash string) (*domain.Payment, error)
	Insert(ctx context.Context, tx *sql.Tx, p domain.Payment) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload interface{}) error
}

type Metrics interface {
	PaymentRecorded(status string)
}

// CallbackResult is the outcome of one gateway callback.
type CallbackResult struct {
	Payment     domain.Payment
	OrderStatus domain.OrderStatus
	Duplicate   bool
	// Underpaid is set when a completed payment does not cover the order total.
	Underpaid bool
}

type PaymentService struct {
	db        TransactionManager
	orders    OrderRepository
	payments  PaymentRepository
	publisher EventPublisher
	metrics   Metrics
	logger    *zap.Logger
	txTimeout time.Duration
	// sourceCurrency is the currency order totals are quoted in.
	sourceCurrency string
}

func NewPaymentService(
	db TransactionManager,
	orders OrderRepository,
	payments PaymentRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
	txTimeout time.Duration,
	sourceCurrency string,
) *PaymentService {
	return &PaymentService{
		db:        db,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		txTimeout: txTimeout,

		sourceCurrency: strings.ToUpper(sourceCurrency),
	}
}

// RecordCallback stores a gateway notification against its order. A transaction hash that
// was already recorded for the same order returns the stored payment unchanged; one recorded
// for another order is a conflict. A completed payment moves a pending order to PAID only when
// it is quoted in the source currency and covers the order total.
func (s *PaymentService) RecordCallback(ctx context.Context, orderNumber string, payment domain.Payment) (*CallbackResult, error) {
	ctx, span := otel.Tracer("storefront").Start(ctx, "payment.RecordCallback",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("order.number", orderNumber),
			attribute.String("payment.status", string(payment.Status)),
		),
	)
	defer span.End()

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orders.FindByNumberForUpdate(txCtx, tx, orderNumber)
	if err != nil {
		return nil, err
	}

	existing, err := s.payments.FindByTransactionHash(txCtx, tx, payment.TransactionHash)
	if err == nil {
		if existing.OrderID != order.ID {
			s.logger.Warn("transaction hash already recorded for another order",
				zap.String("orderNumber", orderNumber),
				zap.String("transactionHash", payment.TransactionHash),
				zap.Int64("recordedOrderId", existing.OrderID),
			)
			return nil, apperrors.NewConflictError("transaction hash already recorded for another order")
		}
		s.logger.Info("duplicate payment callback",
			zap.String("orderNumber", orderNumber),
			zap.String("transactionHash", payment.TransactionHash),
		)
		return &CallbackResult{Payment: *existing, OrderStatus: order.Status, Duplicate: true}, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	payment.OrderID = order.ID
	payment.CreatedAt = time.Now().UTC()
	id, err := s.payments.Insert(txCtx, tx, payment)
	if err != nil {
		if mysql.IsDuplicateKey(err) {
			return nil, apperrors.NewConflictError("transaction hash already recorded")
		}
		return nil, err
	}
	payment.ID = id

	status := order.Status
	underpaid := false
	if payment.Status == domain.PaymentStatusCompleted && order.Status == domain.OrderStatusPending && !s.covers(payment, order) {
		underpaid = true
		s.logger.Warn("completed payment does not cover order total",
			zap.String("orderNumber", orderNumber),
			zap.String("amount", payment.Amount.String()),
			zap.String("currency", payment.Currency),
			zap.String("orderTotal", order.Total.StringFixed(2)),
		)
	}
	if payment.Status == domain.PaymentStatusCompleted && order.Status == domain.OrderStatusPending && !underpaid {
		if err := s.orders.UpdateStatus(txCtx, tx, order.ID, domain.OrderStatusPaid); err != nil {
			return nil, err
		}
		status = domain.OrderStatusPaid
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderNumber", orderNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("orderNumber", orderNumber),
		zap.String("transactionHash", payment.TransactionHash),
		zap.String("paymentStatus", string(payment.Status)),
		zap.String("orderStatus", string(status)),
	)
	s.metrics.PaymentRecorded(string(payment.Status))

	event := dto.PaymentRecordedEvent{
		OrderNumber:     orderNumber,
		TransactionHash: payment.TransactionHash,
		Status:          string(payment.Status),
		Amount:          payment.Amount.String(),
		Currency:        payment.Currency,
	}
	if err := s.publisher.Publish(ctx, orderNumber, kafka.EventPaymentRecorded, event); err != nil {
		s.logger.Warn("failed to publish payment event", zap.String("orderNumber", orderNumber), zap.Error(err))
	}

	return &CallbackResult{Payment: payment, OrderStatus: status, Underpaid: underpaid}, nil
}

func (s *PaymentService) covers(p domain.Payment, o *domain.Order) bool {
	return strings.EqualFold(p.Currency, s.sourceCurrency) && p.Amount.GreaterThanOrEqual(o.Total)
}
