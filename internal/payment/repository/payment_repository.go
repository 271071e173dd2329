package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

type MySQLPaymentRepository struct {
	db *sql.DB
}

func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

func (r *MySQLPaymentRepository) FindByTransactionHash(ctx context.Context, tx *sql.Tx, hash string) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, amount, currency, status, gateway, transaction_hash, gateway_response, created_at
		FROM payments
		WHERE transaction_hash = ?
		LIMIT 1`

	var (
		p        domain.Payment
		status   string
		response []byte
	)
	err := tx.QueryRowContext(ctx, query, hash).Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Currency, &status, &p.Gateway, &p.TransactionHash, &response, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("payment %s not found", hash))
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment by transaction hash: %w", err)
	}

	p.Status = domain.PaymentStatus(status)
	p.GatewayResponse = response
	return &p, nil
}

func (r *MySQLPaymentRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Payment) (int64, error) {
	query := `
		INSERT INTO payments (order_id, amount, currency, status, gateway, transaction_hash, gateway_response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var response interface{}
	if len(p.GatewayResponse) > 0 {
		response = []byte(p.GatewayResponse)
	}

	result, err := tx.ExecContext(ctx, query,
		p.OrderID, p.Amount, p.Currency, string(p.Status), p.Gateway, p.TransactionHash, response, p.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}
