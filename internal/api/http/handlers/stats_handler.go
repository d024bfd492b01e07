package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-desk/internal/api/dto"
	"github.com/spec-kit/order-desk/internal/service"
)

// StatsHandler serves dashboard aggregation endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard GET /stats/dashboard.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	snapshot, err := h.stats.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}

// TicketStatusDistribution GET /stats/tickets/status.
func (h *StatsHandler) TicketStatusDistribution(c *fiber.Ctx) error {
	counts, err := h.stats.TicketStatusDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDistributionResponse(counts)})
}

// TicketPriorityDistribution GET /stats/tickets/priority.
func (h *StatsHandler) TicketPriorityDistribution(c *fiber.Ctx) error {
	counts, err := h.stats.TicketPriorityDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDistributionResponse(counts)})
}

// OrderStatusDistribution GET /stats/orders/status.
func (h *StatsHandler) OrderStatusDistribution(c *fiber.Ctx) error {
	counts, err := h.stats.OrderStatusDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDistributionResponse(counts)})
}

// TicketsByCategory GET /stats/tickets/categories.
func (h *StatsHandler) TicketsByCategory(c *fiber.Ctx) error {
	categories, err := h.stats.TicketsByCategory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CategoryCountsResponse{Categories: categories}})
}

// TopCustomersByTickets GET /stats/customers/top-tickets.
func (h *StatsHandler) TopCustomersByTickets(c *fiber.Ctx) error {
	customers, err := h.stats.TopCustomersByTickets(c.UserContext(), parseLimit(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TopCustomersResponse{Customers: customers}})
}

// TopCustomersByOrders GET /stats/customers/top-orders.
func (h *StatsHandler) TopCustomersByOrders(c *fiber.Ctx) error {
	customers, err := h.stats.TopCustomersByOrders(c.UserContext(), parseLimit(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TopCustomersResponse{Customers: customers}})
}

func parseLimit(c *fiber.Ctx) int {
	val := c.Query("limit")
	if val == "" {
		return 0
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
