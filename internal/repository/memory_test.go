package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-desk/internal/domain"
)

func seedOrderAndTicket(t *testing.T, store *MemoryStore) (*domain.Order, *domain.Ticket) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	order := &domain.Order{
		CustomerName:    "Kasun Perera",
		CustomerEmail:   "kasun.perera@example.lk",
		CustomerPhone:   "+94771234567",
		DeliveryAddress: "No. 12, Galle Road, Colombo 03",
		FoodItems:       "Chicken Kottu Roti",
		TotalAmount:     1500.00,
		Currency:        domain.DefaultCurrency,
		Status:          domain.OrderStatusPending,
		OrderDate:       now,
	}
	require.NoError(t, store.Orders().Create(ctx, order))

	ticket := &domain.Ticket{
		OrderID:       order.ID,
		Title:         "Order arrived cold",
		Description:   "The kottu was cold on arrival.",
		Priority:      domain.TicketPriorityHigh,
		Category:      "Food Quality Issue",
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Status:        domain.TicketStatusOpen,
		CreatedDate:   now,
		UpdatedDate:   now,
	}
	require.NoError(t, store.Tickets().Create(ctx, ticket))
	return order, ticket
}

func TestTicketCreateRequiresOrder(t *testing.T) {
	store := NewMemoryStore()
	err := store.Tickets().Create(context.Background(), &domain.Ticket{OrderID: 42})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplyAppendTouchesParentAtomically(t *testing.T) {
	store := NewMemoryStore()
	_, ticket := seedOrderAndTicket(t, store)
	ctx := context.Background()

	touchedAt := ticket.UpdatedDate.Add(2 * time.Hour)
	reply := &domain.TicketReply{
		TicketID:    ticket.ID,
		Message:     "Looking into it.",
		AuthorName:  "Support Team",
		AuthorEmail: "support@fooddesk.lk",
		CreatedDate: touchedAt,
	}
	require.NoError(t, store.Replies().Append(ctx, reply, touchedAt))
	assert.NotZero(t, reply.ID)

	parent, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, touchedAt, parent.UpdatedDate)
}

func TestReplyAppendMissingTicket(t *testing.T) {
	store := NewMemoryStore()
	err := store.Replies().Append(context.Background(), &domain.TicketReply{TicketID: 99}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplyListOrderBreaksTiesByID(t *testing.T) {
	store := NewMemoryStore()
	_, ticket := seedOrderAndTicket(t, store)
	ctx := context.Background()

	at := ticket.CreatedDate.Add(time.Hour)
	for _, msg := range []string{"first", "second"} {
		reply := &domain.TicketReply{
			TicketID:    ticket.ID,
			Message:     msg,
			AuthorName:  "Support Team",
			AuthorEmail: "support@fooddesk.lk",
			CreatedDate: at,
		}
		require.NoError(t, store.Replies().Append(ctx, reply, at))
	}

	replies, err := store.Replies().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "first", replies[0].Message)
	assert.Equal(t, "second", replies[1].Message)
}

func TestTicketDeleteCascadesReplies(t *testing.T) {
	store := NewMemoryStore()
	_, ticket := seedOrderAndTicket(t, store)
	ctx := context.Background()

	reply := &domain.TicketReply{
		TicketID:    ticket.ID,
		Message:     "Looking into it.",
		AuthorName:  "Support Team",
		AuthorEmail: "support@fooddesk.lk",
		CreatedDate: ticket.CreatedDate,
	}
	require.NoError(t, store.Replies().Append(ctx, reply, ticket.CreatedDate))

	require.NoError(t, store.Tickets().Delete(ctx, ticket.ID))

	count, err := store.Replies().CountByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
