package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/testutil"
)

func TestFindByEmail(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLUserRepository(db)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("admin@shop.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "role", "created_at"}).
			AddRow(1, "admin@shop.test", "Admin", "$2a$10$hash", "admin", created))

	u, err := repo.FindByEmail(context.Background(), "admin@shop.test")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.True(t, u.IsAdmin())
}

func TestFindByEmail_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ghost@shop.test").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(context.Background(), "ghost@shop.test")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestDashboardStats(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLDashboardRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders")).
		WithArgs("PENDING", "PAID", "CONFIRMED", "SHIPPED", "DELIVERED", domain.ProductStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "revenue", "products"}).
			AddRow(12, 4, "431.50", 30))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalOrders)
	assert.Equal(t, 4, stats.PendingOrders)
	assert.Equal(t, "431.5", stats.PaidRevenue.String())
	assert.Equal(t, 30, stats.ActiveProducts)
}
