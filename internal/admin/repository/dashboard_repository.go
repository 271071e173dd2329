package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type MySQLDashboardRepository struct {
	db *sql.DB
}

func NewMySQLDashboardRepository(db *sql.DB) *MySQLDashboardRepository {
	return &MySQLDashboardRepository{db: db}
}

func (r *MySQLDashboardRepository) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = ?),
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status IN (?, ?, ?, ?)),
			(SELECT COUNT(*) FROM products WHERE status = ?)
	`

	args := []interface{}{string(domain.OrderStatusPending)}
	for _, s := range domain.PaidStatuses {
		args = append(args, string(s))
	}
	args = append(args, domain.ProductStatusActive)

	var (
		stats   domain.DashboardStats
		revenue decimal.Decimal
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalOrders,
		&stats.PendingOrders,
		&revenue,
		&stats.ActiveProducts,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dashboard stats: %w", err)
	}
	stats.PaidRevenue = revenue

	return &stats, nil
}
