package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-desk/internal/api/dto"
	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/service"
	apperrors "github.com/spec-kit/order-desk/pkg/errorutil"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	orders  *service.OrderService
	tickets *service.TicketService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService, tickets *service.TicketService) *OrdersHandler {
	return &OrdersHandler{orders: orders, tickets: tickets}
}

// CreateOrder POST /orders.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.CreateOrder(c.UserContext(), orderInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": orderResponse(order)})
}

// ListOrders GET /orders.
func (h *OrdersHandler) ListOrders(c *fiber.Ctx) error {
	filter := parseOrderQuery(c)
	orders, err := h.orders.ListOrders(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// RecentOrders GET /orders/recent.
func (h *OrdersHandler) RecentOrders(c *fiber.Ctx) error {
	orders, err := h.orders.RecentOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// GetOrder GET /orders/:id.
func (h *OrdersHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// UpdateOrder PUT /orders/:id.
func (h *OrdersHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.UpdateOrder(c.UserContext(), id, orderInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// SetOrderStatus POST /orders/:id/status.
func (h *OrdersHandler) SetOrderStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.SetOrderStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// DeleteOrder DELETE /orders/:id.
func (h *OrdersHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.orders.DeleteOrder(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListOrderTickets GET /orders/:id/tickets.
func (h *OrdersHandler) ListOrderTickets(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListByOrder(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

func parseOrderQuery(c *fiber.Ctx) service.OrderSearchFilter {
	filter := service.OrderSearchFilter{}
	if name := c.Query("customer_name"); name != "" {
		filter.CustomerName = &name
	}
	if email := c.Query("customer_email"); email != "" {
		filter.CustomerEmail = &email
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(statusStr)))
		filter.Status = &status
	}
	if from := parseTime(c.Query("from")); from != nil {
		filter.OrderedFrom = from
	}
	if to := parseTime(c.Query("to")); to != nil {
		filter.OrderedTo = to
	}
	return filter
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": "must be a positive integer"})
	}
	return id, nil
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func orderInput(req dto.OrderRequest) service.OrderInput {
	return service.OrderInput{
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		DeliveryAddress:     req.DeliveryAddress,
		FoodItems:           req.FoodItems,
		TotalAmount:         req.TotalAmount,
		Currency:            req.Currency,
		Status:              req.Status,
		OrderDate:           req.OrderDate,
		SpecialInstructions: req.SpecialInstructions,
	}
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                  order.ID,
		CustomerName:        order.CustomerName,
		CustomerEmail:       order.CustomerEmail,
		CustomerPhone:       order.CustomerPhone,
		DeliveryAddress:     order.DeliveryAddress,
		FoodItems:           order.FoodItems,
		TotalAmount:         order.TotalAmount,
		Currency:            order.Currency,
		Status:              order.Status,
		OrderDate:           order.OrderDate,
		SpecialInstructions: order.SpecialInstructions,
	}
}

func orderResponses(orders []domain.Order) []dto.OrderResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return items
}
