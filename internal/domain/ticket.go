package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketStatuses lists every valid ticket status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// TicketPriorities lists every valid priority in display order.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// SuggestedCategories is the fixed list offered by the UI when creating a
// ticket. Category remains an open string domain; this list is never
// enforced on writes.
var SuggestedCategories = []string{
	"Food Quality Issue",
	"Delivery Problem",
	"Order Incorrect",
	"Payment Issue",
	"Customer Service",
	"Technical Problem",
	"Refund Request",
	"General Inquiry",
}

// Ticket is a customer-support case linked to exactly one order.
type Ticket struct {
	ID            int64
	OrderID       int64
	Title         string
	Description   string
	Priority      TicketPriority
	Category      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Status        TicketStatus
	CreatedDate   time.Time
	UpdatedDate   time.Time
	ResolvedDate  *time.Time
}

// Editable reports whether the ticket accepts a full-record update.
// Tickets in IN_PROGRESS or RESOLVED are locked; replies and narrow
// status changes remain allowed regardless.
func (t *Ticket) Editable() bool {
	return t.Status != TicketStatusInProgress && t.Status != TicketStatusResolved
}
