package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/order-desk/internal/domain"
)

// MemoryStore is an in-memory implementation of every repository
// interface, sharing one lock so cascading deletes stay consistent. It
// backs the service when no Postgres DSN is configured, and the tests.
type MemoryStore struct {
	mu           sync.RWMutex
	orders       map[int64]domain.Order
	tickets      map[int64]domain.Ticket
	replies      map[int64]domain.TicketReply
	nextOrderID  int64
	nextTicketID int64
	nextReplyID  int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:       make(map[int64]domain.Order),
		tickets:      make(map[int64]domain.Ticket),
		replies:      make(map[int64]domain.TicketReply),
		nextOrderID:  1,
		nextTicketID: 1,
		nextReplyID:  1,
	}
}

// Orders returns the store viewed as an OrderRepository.
func (s *MemoryStore) Orders() OrderRepository { return (*memoryOrderRepo)(s) }

// Tickets returns the store viewed as a TicketRepository.
func (s *MemoryStore) Tickets() TicketRepository { return (*memoryTicketRepo)(s) }

// Replies returns the store viewed as a TicketReplyRepository.
func (s *MemoryStore) Replies() TicketReplyRepository { return (*memoryReplyRepo)(s) }

// Stats returns the store viewed as a StatsRepository.
func (s *MemoryStore) Stats() StatsRepository { return (*memoryStatsRepo)(s) }

type memoryOrderRepo MemoryStore

func (r *memoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.nextOrderID
	r.nextOrderID++
	r.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (r *memoryOrderRepo) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return ErrNotFound
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	for ticketID, ticket := range r.tickets {
		if ticket.OrderID != id {
			continue
		}
		delete(r.tickets, ticketID)
		for replyID, reply := range r.replies {
			if reply.TicketID == ticketID {
				delete(r.replies, replyID)
			}
		}
	}
	return nil
}

func (r *memoryOrderRepo) ListWithFilter(_ context.Context, filter OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Order
	for _, order := range r.orders {
		if !matchSubstring(order.CustomerName, filter.CustomerName) {
			continue
		}
		if filter.CustomerEmail != nil && strings.TrimSpace(*filter.CustomerEmail) != "" &&
			!strings.EqualFold(order.CustomerEmail, strings.TrimSpace(*filter.CustomerEmail)) {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.OrderedFrom != nil && order.OrderDate.Before(*filter.OrderedFrom) {
			continue
		}
		if filter.OrderedTo != nil && order.OrderDate.After(*filter.OrderedTo) {
			continue
		}
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryOrderRepo) ListRecent(ctx context.Context, since time.Time) ([]domain.Order, error) {
	orders, err := r.ListWithFilter(ctx, OrderFilter{OrderedFrom: &since})
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })
	return orders, nil
}

func (r *memoryOrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

type memoryTicketRepo MemoryStore

func (r *memoryTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[ticket.OrderID]; !ok {
		return ErrNotFound
	}
	ticket.ID = r.nextTicketID
	r.nextTicketID++
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memoryTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ticket, nil
}

func (r *memoryTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return ErrNotFound
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memoryTicketRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	for replyID, reply := range r.replies {
		if reply.TicketID == id {
			delete(r.replies, replyID)
		}
	}
	return nil
}

func (r *memoryTicketRepo) ListWithFilter(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if !matchSubstring(ticket.Title, filter.Title) ||
			!matchSubstring(ticket.Description, filter.Description) ||
			!matchSubstring(ticket.CustomerName, filter.CustomerName) ||
			!matchSubstring(ticket.Category, filter.Category) {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.CreatedFrom != nil && ticket.CreatedDate.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && ticket.CreatedDate.After(*filter.CreatedTo) {
			continue
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryTicketRepo) ListByOrder(_ context.Context, orderID int64) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.OrderID == orderID {
			result = append(result, ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedDate.Before(result[j].CreatedDate) })
	return result, nil
}

func (r *memoryTicketRepo) ListRecent(ctx context.Context, since time.Time) ([]domain.Ticket, error) {
	tickets, err := r.ListWithFilter(ctx, TicketFilter{CreatedFrom: &since})
	if err != nil {
		return nil, err
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedDate.After(tickets[j].CreatedDate) })
	return tickets, nil
}

func (r *memoryTicketRepo) DistinctCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var categories []string
	for _, ticket := range r.tickets {
		if _, ok := seen[ticket.Category]; ok {
			continue
		}
		seen[ticket.Category] = struct{}{}
		categories = append(categories, ticket.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

type memoryReplyRepo MemoryStore

func (r *memoryReplyRepo) Append(_ context.Context, reply *domain.TicketReply, touchedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[reply.TicketID]
	if !ok {
		return ErrNotFound
	}
	ticket.UpdatedDate = touchedAt
	r.tickets[ticket.ID] = ticket

	reply.ID = r.nextReplyID
	r.nextReplyID++
	r.replies[reply.ID] = *reply
	return nil
}

func (r *memoryReplyRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketReply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.TicketReply
	for _, reply := range r.replies {
		if reply.TicketID == ticketID {
			result = append(result, reply)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedDate.Equal(result[j].CreatedDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedDate.Before(result[j].CreatedDate)
	})
	return result, nil
}

func (r *memoryReplyRepo) CountByTicket(_ context.Context, ticketID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, reply := range r.replies {
		if reply.TicketID == ticketID {
			count++
		}
	}
	return count, nil
}

type memoryStatsRepo MemoryStore

func (r *memoryStatsRepo) CountOrdersByStatus(_ context.Context) (map[domain.OrderStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.OrderStatus]int64)
	for _, order := range r.orders {
		counts[order.Status]++
	}
	return counts, nil
}

func (r *memoryStatsRepo) CountTicketsByStatus(_ context.Context) (map[domain.TicketStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.TicketStatus]int64)
	for _, ticket := range r.tickets {
		counts[ticket.Status]++
	}
	return counts, nil
}

func (r *memoryStatsRepo) CountTicketsByPriority(_ context.Context) (map[domain.TicketPriority]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.TicketPriority]int64)
	for _, ticket := range r.tickets {
		counts[ticket.Priority]++
	}
	return counts, nil
}

func (r *memoryStatsRepo) CountTicketsByCategory(_ context.Context) ([]domain.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int64)
	for _, ticket := range r.tickets {
		counts[ticket.Category]++
	}
	result := make([]domain.CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, domain.CategoryCount{Category: category, Count: count})
	}
	sortByCountDesc(result, func(row domain.CategoryCount) (int64, string) {
		return row.Count, row.Category
	})
	return result, nil
}

func (r *memoryStatsRepo) TopCustomersByTickets(_ context.Context) ([]domain.CustomerActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[[2]string]int64)
	for _, ticket := range r.tickets {
		counts[[2]string{ticket.CustomerName, ticket.CustomerEmail}]++
	}
	return customerActivityRows(counts), nil
}

func (r *memoryStatsRepo) TopCustomersByOrders(_ context.Context) ([]domain.CustomerActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[[2]string]int64)
	for _, order := range r.orders {
		counts[[2]string{order.CustomerName, order.CustomerEmail}]++
	}
	return customerActivityRows(counts), nil
}

func customerActivityRows(counts map[[2]string]int64) []domain.CustomerActivity {
	result := make([]domain.CustomerActivity, 0, len(counts))
	for key, count := range counts {
		result = append(result, domain.CustomerActivity{
			CustomerName:  key[0],
			CustomerEmail: key[1],
			Count:         count,
		})
	}
	sortByCountDesc(result, func(row domain.CustomerActivity) (int64, string) {
		return row.Count, row.CustomerName
	})
	return result
}

func sortByCountDesc[T any](rows []T, key func(T) (int64, string)) {
	sort.Slice(rows, func(i, j int) bool {
		ci, ni := key(rows[i])
		cj, nj := key(rows[j])
		if ci != cj {
			return ci > cj
		}
		return ni < nj
	})
}

func matchSubstring(value string, filter *string) bool {
	if filter == nil || strings.TrimSpace(*filter) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(*filter)))
}
