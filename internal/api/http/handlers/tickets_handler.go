package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-desk/internal/api/dto"
	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/service"
	apperrors "github.com/spec-kit/order-desk/pkg/errorutil"
)

// TicketsHandler manages support ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	orders  *service.OrderService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, orders *service.OrderService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, orders: orders}
}

// CreateTicket POST /tickets. When the request asks for it, blank
// customer fields are pre-filled from the linked order; the service
// itself stores whatever it is given.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CopyCustomerFromOrder && req.OrderID > 0 {
		order, err := h.orders.GetOrder(c.UserContext(), req.OrderID)
		if err != nil {
			return err
		}
		if strings.TrimSpace(req.CustomerName) == "" {
			req.CustomerName = order.CustomerName
		}
		if strings.TrimSpace(req.CustomerEmail) == "" {
			req.CustomerEmail = order.CustomerEmail
		}
		if strings.TrimSpace(req.CustomerPhone) == "" {
			req.CustomerPhone = order.CustomerPhone
		}
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), ticketInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// RecentTickets GET /tickets/recent.
func (h *TicketsHandler) RecentTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.RecentTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	replies, err := h.tickets.ListReplies(c.UserContext(), id)
	if err != nil {
		return err
	}
	detail := dto.TicketDetailResponse{
		TicketResponse: ticketResponse(ticket),
		ReplyCount:     int64(len(replies)),
		Replies:        replyResponses(replies),
	}
	return c.JSON(fiber.Map{"data": detail})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), id, ticketInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// SetTicketStatus POST /tickets/:id/status.
func (h *TicketsHandler) SetTicketStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.TicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.SetTicketStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddReply POST /tickets/:id/replies.
func (h *TicketsHandler) AddReply(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reply, err := h.tickets.AddReply(c.UserContext(), id, service.ReplyInput{
		Message:     req.Message,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": replyResponse(reply)})
}

// ListReplies GET /tickets/:id/replies.
func (h *TicketsHandler) ListReplies(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	replies, err := h.tickets.ListReplies(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": replyResponses(replies)})
}

// ListCategories GET /tickets/categories.
func (h *TicketsHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.tickets.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(fiber.Map{"data": categories})
}

// CategoryOptions GET /tickets/category-options. The fixed suggestion
// list for the new-ticket form; category remains free text.
func (h *TicketsHandler) CategoryOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.SuggestedCategories})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketSearchFilter {
	filter := service.TicketSearchFilter{}
	if title := c.Query("title"); title != "" {
		filter.Title = &title
	}
	if description := c.Query("description"); description != "" {
		filter.Description = &description
	}
	if name := c.Query("customer_name"); name != "" {
		filter.CustomerName = &name
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(statusStr)))
		filter.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(priorityStr)))
		filter.Priority = &priority
	}
	if from := parseTime(c.Query("from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("to")); to != nil {
		filter.CreatedTo = to
	}
	return filter
}

func ticketInput(req dto.TicketRequest) service.TicketInput {
	return service.TicketInput{
		OrderID:       req.OrderID,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Category:      req.Category,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Status:        req.Status,
	}
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:            ticket.ID,
		OrderID:       ticket.OrderID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Priority:      ticket.Priority,
		Category:      ticket.Category,
		CustomerName:  ticket.CustomerName,
		CustomerEmail: ticket.CustomerEmail,
		CustomerPhone: ticket.CustomerPhone,
		Status:        ticket.Status,
		Editable:      ticket.Editable(),
		CreatedDate:   ticket.CreatedDate,
		UpdatedDate:   ticket.UpdatedDate,
		ResolvedDate:  ticket.ResolvedDate,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func replyResponse(reply *domain.TicketReply) dto.ReplyResponse {
	return dto.ReplyResponse{
		ID:          reply.ID,
		TicketID:    reply.TicketID,
		Message:     reply.Message,
		AuthorName:  reply.AuthorName,
		AuthorEmail: reply.AuthorEmail,
		CreatedDate: reply.CreatedDate,
	}
}

func replyResponses(replies []domain.TicketReply) []dto.ReplyResponse {
	items := make([]dto.ReplyResponse, 0, len(replies))
	for i := range replies {
		items = append(items, replyResponse(&replies[i]))
	}
	return items
}
