package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketEditable(t *testing.T) {
	cases := []struct {
		status   TicketStatus
		editable bool
	}{
		{TicketStatusOpen, true},
		{TicketStatusInProgress, false},
		{TicketStatusResolved, false},
		{TicketStatusClosed, true},
	}

	for _, tc := range cases {
		ticket := Ticket{Status: tc.status}
		assert.Equal(t, tc.editable, ticket.Editable(), "status %s", tc.status)
	}
}

func TestTicketStatusValid(t *testing.T) {
	for _, status := range TicketStatuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, TicketStatus("PENDING").Valid())
	assert.False(t, TicketStatus("").Valid())
}

func TestTicketPriorityValid(t *testing.T) {
	for _, priority := range TicketPriorities {
		assert.True(t, priority.Valid())
	}
	assert.False(t, TicketPriority("CRITICAL").Valid())
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, OrderStatus("SHIPPED").Valid())
}
