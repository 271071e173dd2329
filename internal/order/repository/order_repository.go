package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (int64, error) {
	query := `
		INSERT INTO orders (order_number, user_id, status, subtotal, shipping_cost, tax, total,
		                    payment_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		o.Number, o.UserID, string(o.Status), o.Subtotal, o.ShippingCost, o.Tax, o.Total,
		o.PaymentMethod, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

const orderColumns = `
	id, order_number, user_id, status, subtotal, shipping_cost, tax, total,
	payment_method, created_at, updated_at`

// FindByNumberForUpdate locks the order row until tx ends.
func (r *MySQLOrderRepository) FindByNumberForUpdate(ctx context.Context, tx *sql.Tx, number string) (*domain.Order, error) {
	row := tx.QueryRowContext(ctx, "SELECT"+orderColumns+" FROM orders WHERE order_number = ? FOR UPDATE", number)
	return scanOrder(row, number)
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// ListDetailed returns one row per order item with the shipping address repeated, newest
// order first. An empty number lists every order.
func (r *MySQLOrderRepository) ListDetailed(ctx context.Context, number string) ([]domain.OrderDetailRow, error) {
	query := `
		SELECT o.id, o.order_number, o.user_id, o.status, o.subtotal, o.shipping_cost, o.tax, o.total,
		       o.payment_method, o.created_at, o.updated_at,
		       oi.id, oi.product_id, oi.product_name, oi.quantity, oi.price,
		       sa.id, sa.full_name, sa.email, sa.phone, sa.address_line1, sa.address_line2,
		       sa.city, sa.state, sa.postal_code, sa.country
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN shipping_addresses sa ON sa.order_id = o.id`
	var args []interface{}
	if number != "" {
		query += " WHERE o.order_number = ?"
		args = append(args, number)
	}
	query += " ORDER BY o.created_at DESC, o.id DESC, oi.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order rows: %w", err)
	}
	defer rows.Close()

	result := []domain.OrderDetailRow{}
	for rows.Next() {
		var (
			o                      domain.Order
			status                 string
			userID                 sql.NullInt64
			itemID, productID      sql.NullInt64
			productName            sql.NullString
			quantity               sql.NullInt64
			price                  decimal.NullDecimal
			addrID                 sql.NullInt64
			fullName, email, phone sql.NullString
			line1, line2, city     sql.NullString
			state, postal, country sql.NullString
		)
		err := rows.Scan(
			&o.ID, &o.Number, &userID, &status, &o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
			&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt,
			&itemID, &productID, &productName, &quantity, &price,
			&addrID, &fullName, &email, &phone, &line1, &line2, &city, &state, &postal, &country,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		if userID.Valid {
			id := userID.Int64
			o.UserID = &id
		}

		row := domain.OrderDetailRow{Order: o}
		if itemID.Valid {
			item := &domain.OrderItem{
				ID:          itemID.Int64,
				OrderID:     o.ID,
				ProductName: productName.String,
				Quantity:    int(quantity.Int64),
				Price:       price.Decimal,
			}
			if productID.Valid {
				pid := productID.Int64
				item.ProductID = &pid
			}
			row.Item = item
		}
		if addrID.Valid {
			row.Address = &domain.ShippingAddress{
				ID:           addrID.Int64,
				OrderID:      o.ID,
				FullName:     fullName.String,
				Email:        email.String,
				Phone:        phone.String,
				AddressLine1: line1.String,
				AddressLine2: line2.String,
				City:         city.String,
				State:        state.String,
				PostalCode:   postal.String,
				Country:      country.String,
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return result, nil
}

func scanOrder(row *sql.Row, number string) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
		userID sql.NullInt64
	)
	err := row.Scan(
		&o.ID, &o.Number, &userID, &status, &o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
		&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", number))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by number: %w", err)
	}

	o.Status = domain.OrderStatus(status)
	if userID.Valid {
		id := userID.Int64
		o.UserID = &id
	}
	return &o, nil
}
