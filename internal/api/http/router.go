package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Orders  *handlers.OrdersHandler
	Tickets *handlers.TicketsHandler
	Stats   *handlers.StatsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	orders := app.Group("/orders")
	orders.Post("/", cfg.Orders.CreateOrder)
	orders.Get("/", cfg.Orders.ListOrders)
	orders.Get("/recent", cfg.Orders.RecentOrders)
	orders.Get("/:id", cfg.Orders.GetOrder)
	orders.Put("/:id", cfg.Orders.UpdateOrder)
	orders.Delete("/:id", cfg.Orders.DeleteOrder)
	orders.Post("/:id/status", cfg.Orders.SetOrderStatus)
	orders.Get("/:id/tickets", cfg.Orders.ListOrderTickets)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/recent", cfg.Tickets.RecentTickets)
	tickets.Get("/categories", cfg.Tickets.ListCategories)
	tickets.Get("/category-options", cfg.Tickets.CategoryOptions)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/status", cfg.Tickets.SetTicketStatus)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Get("/:id/replies", cfg.Tickets.ListReplies)

	stats := app.Group("/stats")
	stats.Get("/dashboard", cfg.Stats.Dashboard)
	stats.Get("/tickets/status", cfg.Stats.TicketStatusDistribution)
	stats.Get("/tickets/priority", cfg.Stats.TicketPriorityDistribution)
	stats.Get("/tickets/categories", cfg.Stats.TicketsByCategory)
	stats.Get("/orders/status", cfg.Stats.OrderStatusDistribution)
	stats.Get("/customers/top-tickets", cfg.Stats.TopCustomersByTickets)
	stats.Get("/customers/top-orders", cfg.Stats.TopCustomersByOrders)
}
