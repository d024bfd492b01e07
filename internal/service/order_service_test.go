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

var testClockBase = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newOrderFixture(t *testing.T) (*OrderService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewOrderService(OrderDependencies{
		OrderRepo: store.Orders(),
		Clock:     fixedClock(testClockBase),
	})
	return svc, store
}

func validOrderInput() OrderInput {
	return OrderInput{
		CustomerName:    "Kasun Perera",
		CustomerEmail:   "kasun.perera@example.lk",
		CustomerPhone:   "+94771234567",
		DeliveryAddress: "No. 12, Galle Road, Colombo 03",
		FoodItems:       "Chicken Kottu Roti, Watalappan",
		TotalAmount:     1500.00,
	}
}

func TestCreateOrderAppliesDefaults(t *testing.T) {
	svc, _ := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), validOrderInput())
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.DefaultCurrency, order.Currency)
	assert.Equal(t, testClockBase, order.OrderDate)

	stored, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kasun Perera", stored.CustomerName)
	assert.Equal(t, 1500.00, stored.TotalAmount)
}

func TestCreateOrderReportsEveryViolatedField(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.CreateOrder(context.Background(), OrderInput{
		CustomerName: "Kasun Perera",
		TotalAmount:  -10,
		Status:       "SHIPPED",
	})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "customer_email")
	assert.Contains(t, domainErr.Details, "customer_phone")
	assert.Contains(t, domainErr.Details, "delivery_address")
	assert.Contains(t, domainErr.Details, "food_items")
	assert.Contains(t, domainErr.Details, "total_amount")
	assert.Contains(t, domainErr.Details, "status")
	assert.NotContains(t, domainErr.Details, "customer_name")
}

func TestSetOrderStatus(t *testing.T) {
	svc, _ := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), validOrderInput())
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)

	updated, err := svc.SetOrderStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, updated.Status)
	assert.Equal(t, order.CustomerName, updated.CustomerName)

	_, err = svc.SetOrderStatus(context.Background(), order.ID, "SHIPPED")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUpdateOrderKeepsOrderDateUnlessSupplied(t *testing.T) {
	svc, _ := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), validOrderInput())
	require.NoError(t, err)

	input := validOrderInput()
	input.TotalAmount = 2100.50
	updated, err := svc.UpdateOrder(context.Background(), order.ID, input)
	require.NoError(t, err)
	assert.Equal(t, order.OrderDate, updated.OrderDate)
	assert.Equal(t, 2100.50, updated.TotalAmount)

	backdated := testClockBase.Add(-72 * time.Hour)
	input.OrderDate = &backdated
	updated, err = svc.UpdateOrder(context.Background(), order.ID, input)
	require.NoError(t, err)
	assert.Equal(t, backdated, updated.OrderDate)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.GetOrder(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestDeleteOrderCascadesTicketsAndReplies(t *testing.T) {
	store := repository.NewMemoryStore()
	orderSvc := NewOrderService(OrderDependencies{
		OrderRepo: store.Orders(),
		Clock:     fixedClock(testClockBase),
	})
	ticketSvc := NewTicketService(TicketDependencies{
		TicketRepo: store.Tickets(),
		ReplyRepo:  store.Replies(),
		OrderRepo:  store.Orders(),
		Clock:      fixedClock(testClockBase),
	})

	ctx := context.Background()
	order, err := orderSvc.CreateOrder(ctx, validOrderInput())
	require.NoError(t, err)

	ticket, err := ticketSvc.CreateTicket(ctx, validTicketInputFor(order.ID))
	require.NoError(t, err)
	_, err = ticketSvc.AddReply(ctx, ticket.ID, ReplyInput{
		Message:     "We are on it.",
		AuthorName:  "Support Team",
		AuthorEmail: "support@fooddesk.lk",
	})
	require.NoError(t, err)

	require.NoError(t, orderSvc.DeleteOrder(ctx, order.ID))

	_, err = ticketSvc.GetTicket(ctx, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	count, err := store.Replies().CountByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListOrdersFilterIsConjunctive(t *testing.T) {
	svc, _ := newOrderFixture(t)
	ctx := context.Background()

	first := validOrderInput()
	_, err := svc.CreateOrder(ctx, first)
	require.NoError(t, err)

	second := validOrderInput()
	second.CustomerName = "Nimali Silva"
	second.CustomerEmail = "nimali.silva@example.lk"
	created, err := svc.CreateOrder(ctx, second)
	require.NoError(t, err)
	_, err = svc.SetOrderStatus(ctx, created.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)

	// Unset filter matches everything.
	all, err := svc.ListOrders(ctx, OrderSearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Case-insensitive substring on the name.
	name := "silva"
	byName, err := svc.ListOrders(ctx, OrderSearchFilter{CustomerName: &name})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Nimali Silva", byName[0].CustomerName)

	// Name and status must both hold.
	pending := domain.OrderStatusPending
	none, err := svc.ListOrders(ctx, OrderSearchFilter{CustomerName: &name, Status: &pending})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecentOrdersWindow(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(OrderDependencies{
		OrderRepo: store.Orders(),
		Clock:     fixedClock(testClockBase),
	})
	ctx := context.Background()

	recent, err := svc.CreateOrder(ctx, validOrderInput())
	require.NoError(t, err)

	old := validOrderInput()
	oldDate := testClockBase.Add(-45 * 24 * time.Hour)
	old.OrderDate = &oldDate
	created, err := svc.CreateOrder(ctx, old)
	require.NoError(t, err)
	_, err = svc.UpdateOrder(ctx, created.ID, old)
	require.NoError(t, err)

	orders, err := svc.RecentOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, recent.ID, orders[0].ID)
}
