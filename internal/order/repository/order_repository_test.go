package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/testutil"
)

var orderRowColumns = []string{
	"id", "order_number", "user_id", "status", "subtotal", "shipping_cost", "tax", "total",
	"payment_method", "created_at", "updated_at",
}

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestOrderRepository_Insert(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderRepository(db)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("ORD-1", nil, "PENDING", testutil.DecimalArg("25"), testutil.DecimalArg("0"),
			testutil.DecimalArg("2"), testutil.DecimalArg("27"), "bitcoin", now, now).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, domain.Order{
		Number:        "ORD-1",
		Status:        domain.OrderStatusPending,
		Subtotal:      decimal.RequireFromString("25.00"),
		ShippingCost:  decimal.Zero,
		Tax:           decimal.RequireFromString("2.00"),
		Total:         decimal.RequireFromString("27.00"),
		PaymentMethod: "bitcoin",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, tx.Commit())
}

func TestOrderRepository_FindByNumberForUpdate_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE order_number = ? FOR UPDATE")).
		WithArgs("ORD-missing").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	o, err := repo.FindByNumberForUpdate(context.Background(), tx, "ORD-missing")
	assert.Nil(t, o)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_FindByNumberForUpdate(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE order_number = ? FOR UPDATE")).
		WithArgs("ORD-1").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(7, "ORD-1", 3, "PENDING", "25.00", "0.00", "2.00", "27.00", "bitcoin", now, now))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	o, err := repo.FindByNumberForUpdate(context.Background(), tx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), o.ID)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	require.NotNil(t, o.UserID)
	assert.Equal(t, int64(3), *o.UserID)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("27")))
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs("PAID", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.UpdateStatus(context.Background(), tx, 99, domain.OrderStatusPaid)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_ListDetailed(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderRepository(db)

	now := time.Now()
	columns := append(append([]string{}, orderRowColumns...),
		"item_id", "product_id", "product_name", "quantity", "price",
		"address_id", "full_name", "email", "phone", "address_line1", "address_line2",
		"city", "state", "postal_code", "country",
	)
	orderCols := []driver.Value{7, "ORD-1", nil, "PENDING", "25.00", "0.00", "2.00", "27.00", "bitcoin", now, now}
	address := []driver.Value{1, "Ada Lovelace", "ada@example.com", "", "1 Analytical St", "", "London", "", "N1", "UK"}

	rows := sqlmock.NewRows(columns).
		AddRow(append(append(append([]driver.Value{}, orderCols...), 1, 10, "Mug", 2, "10.00"), address...)...).
		AddRow(append(append(append([]driver.Value{}, orderCols...), 2, nil, "Deleted Plate", 1, "5.00"), address...)...)

	mock.ExpectQuery(`(?s)LEFT JOIN order_items.*LEFT JOIN shipping_addresses.*WHERE o\.order_number = \?\s+ORDER BY o\.created_at DESC`).
		WithArgs("ORD-1").
		WillReturnRows(rows)

	result, err := repo.ListDetailed(context.Background(), "ORD-1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "Mug", result[0].Item.ProductName)
	assert.True(t, result[0].Item.Price.Equal(decimal.RequireFromString("10")))
	require.NotNil(t, result[0].Item.ProductID)
	assert.Nil(t, result[1].Item.ProductID)
	assert.Equal(t, "London", result[0].Address.City)
	assert.Equal(t, "London", result[1].Address.City)
}

func TestOrderRepository_ListDetailed_OrderWithoutAddress(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLOrderRepository(db)

	now := time.Now()
	columns := append(append([]string{}, orderRowColumns...),
		"item_id", "product_id", "product_name", "quantity", "price",
		"address_id", "full_name", "email", "phone", "address_line1", "address_line2",
		"city", "state", "postal_code", "country",
	)
	values := []driver.Value{7, "ORD-1", nil, "PENDING", "0.00", "0.00", "0.00", "0.00", "", now, now,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil}

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY o.created_at DESC, o.id DESC, oi.id ASC")).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(values...))

	result, err := repo.ListDetailed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Item)
	assert.Nil(t, result[0].Address)
}
