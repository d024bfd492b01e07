package events

import (
	"time"

	"github.com/spec-kit/order-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated        EventType = "order_created"
	EventOrderStatusChanged  EventType = "order_status_changed"
	EventOrderDeleted        EventType = "order_deleted"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReplyAdded    EventType = "ticket_reply_added"
)

// SubjectKind names the entity an event refers to.
type SubjectKind string

const (
	SubjectOrder  SubjectKind = "order"
	SubjectTicket SubjectKind = "ticket"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   SubjectKind `json:"subject"`
	SubjectID int64       `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	CustomerName string             `json:"customer_name"`
	TotalAmount  float64            `json:"total_amount"`
	Currency     string             `json:"currency"`
	Status       domain.OrderStatus `json:"status"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	OrderID  int64                 `json:"order_id"`
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category string                `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketReplyAddedPayload payload.
type TicketReplyAddedPayload struct {
	ReplyID        int64  `json:"reply_id"`
	AuthorName     string `json:"author_name"`
	AuthorEmail    string `json:"author_email"`
	MessagePreview string `json:"message_preview"`
}
