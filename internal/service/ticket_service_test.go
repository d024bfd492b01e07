package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/repository"
	apperrors "github.com/spec-kit/order-desk/pkg/errorutil"
)

type ticketFixture struct {
	store   *repository.MemoryStore
	orders  *OrderService
	tickets *TicketService
	clock   *time.Time
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	at := testClockBase
	clock := func() time.Time { return at }
	// The fixture clock is advanced through the pointer so updated dates
	// are observable.
	f := &ticketFixture{store: store, clock: &at}
	f.orders = NewOrderService(OrderDependencies{
		OrderRepo: store.Orders(),
		Clock:     clock,
	})
	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo: store.Tickets(),
		ReplyRepo:  store.Replies(),
		OrderRepo:  store.Orders(),
		Clock:      clock,
	})
	return f
}

func (f *ticketFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *ticketFixture) createOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), validOrderInput())
	require.NoError(t, err)
	return order
}

func (f *ticketFixture) createTicket(t *testing.T, orderID int64) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), validTicketInputFor(orderID))
	require.NoError(t, err)
	return ticket
}

func validTicketInputFor(orderID int64) TicketInput {
	return TicketInput{
		OrderID:       orderID,
		Title:         "Order arrived cold",
		Description:   "The kottu was cold on arrival.",
		Priority:      domain.TicketPriorityHigh,
		Category:      "Food Quality Issue",
		CustomerName:  "Kasun Perera",
		CustomerEmail: "kasun.perera@example.lk",
		CustomerPhone: "+94771234567",
	}
}

func TestCreateTicketDefaultsAndStamps(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)

	ticket := f.createTicket(t, order.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, testClockBase, ticket.CreatedDate)
	assert.Equal(t, testClockBase, ticket.UpdatedDate)
	assert.Nil(t, ticket.ResolvedDate)
}

func TestCreateTicketRequiresExistingOrder(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.tickets.CreateTicket(context.Background(), validTicketInputFor(42))
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "order not found", domainErr.Message)
}

func TestCreateTicketReportsEveryViolatedField(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.tickets.CreateTicket(context.Background(), TicketInput{
		Title:    "Order arrived cold",
		Priority: "CRITICAL",
	})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "description")
	assert.Contains(t, domainErr.Details, "category")
	assert.Contains(t, domainErr.Details, "customer_name")
	assert.Contains(t, domainErr.Details, "customer_email")
	assert.Contains(t, domainErr.Details, "customer_phone")
	assert.Contains(t, domainErr.Details, "priority")
	assert.Contains(t, domainErr.Details, "order_id")
	assert.NotContains(t, domainErr.Details, "title")
}

func TestUpdateTicketGatesOnCurrentStatus(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)

	for _, tc := range []struct {
		status  domain.TicketStatus
		allowed bool
	}{
		{domain.TicketStatusOpen, true},
		{domain.TicketStatusInProgress, false},
		{domain.TicketStatusResolved, false},
		{domain.TicketStatusClosed, true},
	} {
		ticket := f.createTicket(t, order.ID)
		_, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, tc.status)
		require.NoError(t, err)

		input := validTicketInputFor(order.ID)
		input.Title = "Updated title"
		_, err = f.tickets.UpdateTicket(context.Background(), ticket.ID, input)
		if tc.allowed {
			assert.NoError(t, err, "status %s", tc.status)
		} else {
			require.Error(t, err, "status %s", tc.status)
			assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
		}
	}
}

func TestUpdateTicketRefusalLeavesRecordUntouched(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	_, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)
	before, err := f.tickets.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)

	f.advance(time.Hour)
	input := validTicketInputFor(order.ID)
	input.Title = "Should never land"
	_, err = f.tickets.UpdateTicket(context.Background(), ticket.ID, input)
	require.Error(t, err)

	after, err := f.tickets.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateTicketCanMoveIntoLockedStatus(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	input := validTicketInputFor(order.ID)
	input.Status = domain.TicketStatusInProgress
	updated, err := f.tickets.UpdateTicket(context.Background(), ticket.ID, input)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	// The ticket is now locked for further full updates.
	_, err = f.tickets.UpdateTicket(context.Background(), ticket.ID, validTicketInputFor(order.ID))
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestSetTicketStatusBypassesEditability(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	_, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	updated, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
}

func TestResolvedDateStampedAndNeverCleared(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	f.advance(2 * time.Hour)
	resolvedAt := *f.clock
	resolved, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedDate)
	assert.Equal(t, resolvedAt, *resolved.ResolvedDate)

	f.advance(time.Hour)
	reopened, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusOpen)
	require.NoError(t, err)
	require.NotNil(t, reopened.ResolvedDate)
	assert.Equal(t, resolvedAt, *reopened.ResolvedDate)

	// Re-entering RESOLVED re-stamps.
	f.advance(time.Hour)
	again, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, again.ResolvedDate)
	assert.Equal(t, resolvedAt.Add(2*time.Hour), *again.ResolvedDate)
}

func TestAddReplyIgnoresEditabilityAndTouchesTicket(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	_, err := f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	f.advance(3 * time.Hour)
	repliedAt := *f.clock
	reply, err := f.tickets.AddReply(context.Background(), ticket.ID, ReplyInput{
		Message:     "Following up on the refund.",
		AuthorName:  "Kasun Perera",
		AuthorEmail: "kasun.perera@example.lk",
	})
	require.NoError(t, err)
	assert.NotZero(t, reply.ID)
	assert.Equal(t, repliedAt, reply.CreatedDate)

	stored, err := f.tickets.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, repliedAt, stored.UpdatedDate)
	assert.Equal(t, domain.TicketStatusResolved, stored.Status)
}

func TestAddReplyValidation(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	_, err := f.tickets.AddReply(context.Background(), ticket.ID, ReplyInput{})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "message")
	assert.Contains(t, domainErr.Details, "author_name")
	assert.Contains(t, domainErr.Details, "author_email")

	_, err = f.tickets.AddReply(context.Background(), 999, ReplyInput{
		Message:     "hello",
		AuthorName:  "a",
		AuthorEmail: "a@example.lk",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListRepliesReturnsThreadInOrder(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	for _, msg := range []string{"first", "second", "third"} {
		f.advance(time.Minute)
		_, err := f.tickets.AddReply(context.Background(), ticket.ID, ReplyInput{
			Message:     msg,
			AuthorName:  "Support Team",
			AuthorEmail: "support@fooddesk.lk",
		})
		require.NoError(t, err)
	}

	replies, err := f.tickets.ListReplies(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, replies, 3)
	assert.Equal(t, "first", replies[0].Message)
	assert.Equal(t, "second", replies[1].Message)
	assert.Equal(t, "third", replies[2].Message)

	count, err := f.tickets.CountReplies(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListCategoriesReflectsStoredTickets(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)

	for _, category := range []string{"Delivery Problem", "Food Quality Issue", "Delivery Problem"} {
		input := validTicketInputFor(order.ID)
		input.Category = category
		_, err := f.tickets.CreateTicket(context.Background(), input)
		require.NoError(t, err)
	}

	categories, err := f.tickets.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Delivery Problem", "Food Quality Issue"}, categories)
}

func TestListTicketsFilterIsConjunctive(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ctx := context.Background()

	first := validTicketInputFor(order.ID)
	_, err := f.tickets.CreateTicket(ctx, first)
	require.NoError(t, err)

	second := validTicketInputFor(order.ID)
	second.Title = "Wrong items delivered"
	second.Category = "Order Incorrect"
	second.Priority = domain.TicketPriorityLow
	_, err = f.tickets.CreateTicket(ctx, second)
	require.NoError(t, err)

	all, err := f.tickets.ListTickets(ctx, TicketSearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	title := "wrong"
	byTitle, err := f.tickets.ListTickets(ctx, TicketSearchFilter{Title: &title})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Wrong items delivered", byTitle[0].Title)

	high := domain.TicketPriorityHigh
	none, err := f.tickets.ListTickets(ctx, TicketSearchFilter{Title: &title, Priority: &high})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByOrder(t *testing.T) {
	f := newTicketFixture(t)
	first := f.createOrder(t)
	second := f.createOrder(t)

	f.createTicket(t, first.ID)
	f.createTicket(t, first.ID)
	f.createTicket(t, second.ID)

	tickets, err := f.tickets.ListByOrder(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	_, err = f.tickets.ListByOrder(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestIsEditable(t *testing.T) {
	f := newTicketFixture(t)
	order := f.createOrder(t)
	ticket := f.createTicket(t, order.ID)

	editable, err := f.tickets.IsEditable(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, editable)

	_, err = f.tickets.SetTicketStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	editable, err = f.tickets.IsEditable(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.False(t, editable)
}
