package domain

import "time"

// TicketReply is a single threaded message appended to a ticket, from
// either the customer or support staff. Replies are append-only.
type TicketReply struct {
	ID          int64
	TicketID    int64
	Message     string
	AuthorName  string
	AuthorEmail string
	CreatedDate time.Time
}
