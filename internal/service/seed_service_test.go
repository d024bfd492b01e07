package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/repository"
)

func newSeedFixture(seed int64) (*SeedService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	svc := NewSeedService(SeedDependencies{
		OrderRepo:  store.Orders(),
		TicketRepo: store.Tickets(),
		ReplyRepo:  store.Replies(),
		RandomSeed: seed,
		Clock:      fixedClock(testClockBase),
	})
	return svc, store
}

func TestSeedPopulatesEmptyStore(t *testing.T) {
	svc, store := newSeedFixture(1)
	ctx := context.Background()

	require.NoError(t, svc.Run(ctx))

	orders, err := store.Orders().ListWithFilter(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 10)
	for _, order := range orders {
		assert.True(t, order.Status.Valid())
		assert.Equal(t, domain.DefaultCurrency, order.Currency)
		assert.Positive(t, order.TotalAmount)
		assert.False(t, order.OrderDate.After(testClockBase))
	}

	tickets, err := store.Tickets().ListWithFilter(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Len(t, tickets, 8)
	for _, ticket := range tickets {
		assert.True(t, ticket.Status.Valid())
		assert.True(t, ticket.Priority.Valid())
		assert.Contains(t, domain.SuggestedCategories, ticket.Category)
		if ticket.Status == domain.TicketStatusResolved {
			assert.NotNil(t, ticket.ResolvedDate)
		} else {
			assert.Nil(t, ticket.ResolvedDate)
		}
	}
}

func TestSeedIsDeterministicForFixedSeed(t *testing.T) {
	ctx := context.Background()

	first, firstStore := newSeedFixture(7)
	require.NoError(t, first.Run(ctx))
	second, secondStore := newSeedFixture(7)
	require.NoError(t, second.Run(ctx))

	firstOrders, err := firstStore.Orders().ListWithFilter(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	secondOrders, err := secondStore.Orders().ListWithFilter(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, firstOrders, secondOrders)

	firstTickets, err := firstStore.Tickets().ListWithFilter(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	secondTickets, err := secondStore.Tickets().ListWithFilter(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, firstTickets, secondTickets)
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	svc, store := newSeedFixture(1)
	ctx := context.Background()

	existing := &domain.Order{
		CustomerName:    "Kasun Perera",
		CustomerEmail:   "kasun.perera@example.lk",
		CustomerPhone:   "+94771234567",
		DeliveryAddress: "No. 12, Galle Road, Colombo 03",
		FoodItems:       "Chicken Kottu Roti",
		TotalAmount:     1500.00,
		Currency:        domain.DefaultCurrency,
		Status:          domain.OrderStatusPending,
		OrderDate:       testClockBase,
	}
	require.NoError(t, store.Orders().Create(ctx, existing))

	require.NoError(t, svc.Run(ctx))

	count, err := store.Orders().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
