package dto

import (
	"time"

	"github.com/spec-kit/order-desk/internal/domain"
)

// TicketRequest payload for create and full update. On create, when
// CopyCustomerFromOrder is set the handler fills blank customer fields
// from the linked order before calling the service.
type TicketRequest struct {
	OrderID               int64                 `json:"order_id"`
	Title                 string                `json:"title"`
	Description           string                `json:"description"`
	Priority              domain.TicketPriority `json:"priority"`
	Category              string                `json:"category"`
	CustomerName          string                `json:"customer_name"`
	CustomerEmail         string                `json:"customer_email"`
	CustomerPhone         string                `json:"customer_phone"`
	Status                domain.TicketStatus   `json:"status"`
	CopyCustomerFromOrder bool                  `json:"copy_customer_from_order"`
}

// TicketStatusRequest payload for the narrow status change.
type TicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse response.
type TicketResponse struct {
	ID            int64                 `json:"id"`
	OrderID       int64                 `json:"order_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Category      string                `json:"category"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	CustomerPhone string                `json:"customer_phone"`
	Status        domain.TicketStatus   `json:"status"`
	Editable      bool                  `json:"editable"`
	CreatedDate   time.Time             `json:"created_date"`
	UpdatedDate   time.Time             `json:"updated_date"`
	ResolvedDate  *time.Time            `json:"resolved_date,omitempty"`
}

// TicketDetailResponse adds the reply thread to the ticket view.
type TicketDetailResponse struct {
	TicketResponse
	ReplyCount int64           `json:"reply_count"`
	Replies    []ReplyResponse `json:"replies"`
}

// ReplyRequest payload. Creation time is server-assigned regardless of
// anything the client sends.
type ReplyRequest struct {
	Message     string `json:"message"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// ReplyResponse response.
type ReplyResponse struct {
	ID          int64     `json:"id"`
	TicketID    int64     `json:"ticket_id"`
	Message     string    `json:"message"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CreatedDate time.Time `json:"created_date"`
}
