package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/events"
	"github.com/spec-kit/order-desk/internal/repository"
	apperrors "github.com/spec-kit/order-desk/pkg/errorutil"
)

// TicketService coordinates ticket workflows including the reply thread.
type TicketService struct {
	tickets    repository.TicketRepository
	replies    repository.TicketReplyRepository
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.TicketReplyRepository
	OrderRepo  repository.OrderRepository
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// TicketInput describes a ticket create/update payload. The service
// stores the customer fields it is given; pre-filling them from the
// linked order is the presentation layer's job.
type TicketInput struct {
	OrderID       int64
	Title         string
	Description   string
	Priority      domain.TicketPriority
	Category      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Status        domain.TicketStatus
}

// ReplyInput describes a reply-append payload. The creation time is
// always server-assigned.
type ReplyInput struct {
	Message     string
	AuthorName  string
	AuthorEmail string
}

// TicketSearchFilter describes listing filters. Unset fields match all.
type TicketSearchFilter struct {
	Title        *string
	Description  *string
	CustomerName *string
	Category     *string
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		orders:     deps.OrderRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateTicket validates the payload, checks the order reference and
// persists a new ticket. Status defaults to OPEN.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketInput) (*domain.Ticket, error) {
	if details := validateTicketInput(input); len(details) > 0 {
		return nil, apperrors.NewValidationError("ticket validation failed", details)
	}
	if _, err := s.orders.GetByID(ctx, input.OrderID); err != nil {
		return nil, orderNotFound(err, input.OrderID)
	}

	now := s.now()
	ticket := &domain.Ticket{
		OrderID:       input.OrderID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Priority:      input.Priority,
		Category:      strings.TrimSpace(input.Category),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Status:        input.Status,
		CreatedDate:   now,
		UpdatedDate:   now,
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": input.OrderID})
		}
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		Subject:   events.SubjectTicket,
		SubjectID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			OrderID:  ticket.OrderID,
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// GetTicket returns the stored record.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketNotFound(err, id)
	}
	return ticket, nil
}

// IsEditable reports whether the stored ticket accepts a full update.
func (s *TicketService) IsEditable(ctx context.Context, id int64) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return false, ticketNotFound(err, id)
	}
	return ticket.Editable(), nil
}

// ListTickets returns tickets matching the conjunction of set filter fields.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketSearchFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Title:        filter.Title,
		Description:  filter.Description,
		CustomerName: filter.CustomerName,
		Category:     filter.Category,
		Status:       filter.Status,
		Priority:     filter.Priority,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
	})
}

// ListByOrder returns the tickets raised against one order.
func (s *TicketService) ListByOrder(ctx context.Context, orderID int64) ([]domain.Ticket, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, orderNotFound(err, orderID)
	}
	return s.tickets.ListByOrder(ctx, orderID)
}

// RecentTickets returns tickets created in the last 30 days, newest first.
func (s *TicketService) RecentTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListRecent(ctx, s.now().Add(-recentWindow))
}

// ListCategories returns the distinct category values currently present.
func (s *TicketService) ListCategories(ctx context.Context) ([]string, error) {
	return s.tickets.DistinctCategories(ctx)
}

// UpdateTicket applies a full-record update. The edit-permission rule is
// checked against the CURRENT stored status: IN_PROGRESS and RESOLVED
// tickets are refused. The payload may itself move the status into a
// locked state; the ticket then stays locked for later updates.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input TicketInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketNotFound(err, id)
	}
	if !ticket.Editable() {
		return nil, apperrors.NewForbidden("ticket cannot be edited in its current status")
	}
	if details := validateTicketInput(input); len(details) > 0 {
		return nil, apperrors.NewValidationError("ticket validation failed", details)
	}

	now := s.now()
	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.Priority = input.Priority
	ticket.Category = strings.TrimSpace(input.Category)
	ticket.CustomerName = strings.TrimSpace(input.CustomerName)
	ticket.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	ticket.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	if input.Status != "" {
		ticket.Status = input.Status
		if input.Status == domain.TicketStatusResolved {
			resolved := now
			ticket.ResolvedDate = &resolved
		}
	}
	ticket.UpdatedDate = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, ticketNotFound(err, id)
	}
	return ticket, nil
}

// SetTicketStatus changes only the status field. It is allowed regardless
// of editability. Entering RESOLVED stamps the resolved date; leaving it
// never clears the stamp.
func (s *TicketService) SetTicketStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("ticket validation failed", map[string]any{
			"status": "unknown ticket status",
		})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketNotFound(err, id)
	}

	now := s.now()
	oldStatus := ticket.Status
	ticket.Status = status
	ticket.UpdatedDate = now
	if status == domain.TicketStatusResolved {
		resolved := now
		ticket.ResolvedDate = &resolved
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, ticketNotFound(err, id)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		Subject:   events.SubjectTicket,
		SubjectID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// DeleteTicket removes the ticket; replies cascade at the store level.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return ticketNotFound(err, id)
	}
	return nil
}

// AddReply appends a reply to the ticket's thread and touches the parent
// ticket's updated date in the same transaction. Editability of the
// ticket is deliberately not consulted.
func (s *TicketService) AddReply(ctx context.Context, ticketID int64, input ReplyInput) (*domain.TicketReply, error) {
	if details := validateReplyInput(input); len(details) > 0 {
		return nil, apperrors.NewValidationError("reply validation failed", details)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, ticketNotFound(err, ticketID)
	}

	now := s.now()
	reply := &domain.TicketReply{
		TicketID:    ticketID,
		Message:     strings.TrimSpace(input.Message),
		AuthorName:  strings.TrimSpace(input.AuthorName),
		AuthorEmail: strings.TrimSpace(input.AuthorEmail),
		CreatedDate: now,
	}
	if err := s.replies.Append(ctx, reply, now); err != nil {
		return nil, ticketNotFound(err, ticketID)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventTicketReplyAdded,
		Subject:   events.SubjectTicket,
		SubjectID: ticketID,
		Payload: events.TicketReplyAddedPayload{
			ReplyID:        reply.ID,
			AuthorName:     reply.AuthorName,
			AuthorEmail:    reply.AuthorEmail,
			MessagePreview: stringPreview(reply.Message, 120),
		},
	})
	return reply, nil
}

// ListReplies returns the ticket's thread in creation order.
func (s *TicketService) ListReplies(ctx context.Context, ticketID int64) ([]domain.TicketReply, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, ticketNotFound(err, ticketID)
	}
	return s.replies.ListByTicket(ctx, ticketID)
}

// CountReplies returns the number of replies on a ticket.
func (s *TicketService) CountReplies(ctx context.Context, ticketID int64) (int64, error) {
	return s.replies.CountByTicket(ctx, ticketID)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateTicketInput(input TicketInput) map[string]any {
	details := map[string]any{}
	requireNonEmpty(details, "title", input.Title)
	requireNonEmpty(details, "description", input.Description)
	requireNonEmpty(details, "category", input.Category)
	requireNonEmpty(details, "customer_name", input.CustomerName)
	requireNonEmpty(details, "customer_email", input.CustomerEmail)
	requireNonEmpty(details, "customer_phone", input.CustomerPhone)
	requireMaxLen(details, "description", input.Description, 2000)
	if input.Priority == "" {
		details["priority"] = "is required"
	} else if !input.Priority.Valid() {
		details["priority"] = "unknown ticket priority"
	}
	if input.Status != "" && !input.Status.Valid() {
		details["status"] = "unknown ticket status"
	}
	if input.OrderID <= 0 {
		details["order_id"] = "is required"
	}
	return details
}

func validateReplyInput(input ReplyInput) map[string]any {
	details := map[string]any{}
	requireNonEmpty(details, "message", input.Message)
	requireNonEmpty(details, "author_name", input.AuthorName)
	requireNonEmpty(details, "author_email", input.AuthorEmail)
	requireMaxLen(details, "message", input.Message, 2000)
	return details
}

func ticketNotFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return err
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
