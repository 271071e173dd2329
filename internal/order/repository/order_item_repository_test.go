package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/testutil"
)

func TestNewMySQLOrderItemRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderItemRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestOrderItemRepository_Insert(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderItemRepository(db)

	productID := int64(5)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items (order_id, product_id, product_name, quantity, price)")).
		WithArgs(int64(42), int64(5), "Mug", 3, testutil.DecimalArg("29.99")).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, domain.OrderItem{
		OrderID:     42,
		ProductID:   &productID,
		ProductName: "Mug",
		Quantity:    3,
		Price:       decimal.RequireFromString("29.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	require.NoError(t, tx.Commit())
}

func TestOrderItemRepository_Insert_Error(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = repo.Insert(context.Background(), tx, domain.OrderItem{OrderID: 42, ProductName: "Mug", Quantity: 1})
	assert.ErrorContains(t, err, "inserting order item")
	require.NoError(t, tx.Rollback())
}

func TestShippingAddressRepository_Insert(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLShippingAddressRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shipping_addresses")).
		WithArgs(int64(42), "Ada Lovelace", "ada@example.com", "", "1 Analytical St", "", "London", "", "N1", "UK").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, domain.ShippingAddress{
		OrderID:      42,
		FullName:     "Ada Lovelace",
		Email:        "ada@example.com",
		AddressLine1: "1 Analytical St",
		City:         "London",
		PostalCode:   "N1",
		Country:      "UK",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	require.NoError(t, tx.Commit())
}
