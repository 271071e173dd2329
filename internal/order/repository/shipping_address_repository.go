package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
)

type MySQLShippingAddressRepository struct {
	db *sql.DB
}

func NewMySQLShippingAddressRepository(db *sql.DB) *MySQLShippingAddressRepository {
	return &MySQLShippingAddressRepository{db: db}
}

func (r *MySQLShippingAddressRepository) Insert(ctx context.Context, tx *sql.Tx, a domain.ShippingAddress) (int64, error) {
	query := `
		INSERT INTO shipping_addresses (order_id, full_name, email, phone, address_line1, address_line2,
		                                city, state, postal_code, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		a.OrderID, a.FullName, a.Email, a.Phone, a.AddressLine1, a.AddressLine2,
		a.City, a.State, a.PostalCode, a.Country,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting shipping address: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}
