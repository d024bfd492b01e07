package domain

// CustomerActivity is one row of a top-customers aggregation, grouped by
// the (name, email) pair.
type CustomerActivity struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Count         int64  `json:"count"`
}

// CategoryCount is one row of the tickets-per-category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DashboardSnapshot bundles every rollup the dashboard displays. The
// individual counts come from separate queries; cross-metric atomicity is
// not guaranteed.
type DashboardSnapshot struct {
	TotalOrders           int64                    `json:"total_orders"`
	OrdersByStatus        map[OrderStatus]int64    `json:"orders_by_status"`
	TotalTickets          int64                    `json:"total_tickets"`
	TicketsByStatus       map[TicketStatus]int64   `json:"tickets_by_status"`
	TicketsByPriority     map[TicketPriority]int64 `json:"tickets_by_priority"`
	TicketsByCategory     []CategoryCount          `json:"tickets_by_category"`
	TopCustomersByTickets []CustomerActivity       `json:"top_customers_by_tickets"`
	TopCustomersByOrders  []CustomerActivity       `json:"top_customers_by_orders"`
}
