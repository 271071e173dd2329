package dto

type AdminAuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is the session descriptor handed to an authenticated admin.
type SessionUser struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

type AdminAuthResponse struct {
	User    SessionUser `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type DashboardDTO struct {
	TotalOrders    int     `json:"totalOrders"`
	PendingOrders  int     `json:"pendingOrders"`
	PaidRevenue    float64 `json:"paidRevenue"`
	ActiveProducts int     `json:"activeProducts"`
}
