package domain

import "github.com/shopspring/decimal"

// PaidStatuses are the order states whose totals count as collected revenue.
var PaidStatuses = []OrderStatus{OrderStatusPaid, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered}

type DashboardStats struct {
	TotalOrders    int
	PendingOrders  int
	PaidRevenue    decimal.Decimal
	ActiveProducts int
}
