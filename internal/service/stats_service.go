package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/repository"
)

const dashboardCacheKey = "stats:dashboard"

// StatsService serves read-only rollups for the dashboard. When a Redis
// client is provided, the full dashboard snapshot is cached briefly; the
// individual distributions always hit the store.
type StatsService struct {
	stats    repository.StatsRepository
	cache    *redis.Client
	logger   *zap.Logger
	cacheTTL time.Duration
}

// StatsDependencies bundles collaborators for the stats service.
type StatsDependencies struct {
	StatsRepo repository.StatsRepository
	Cache     *redis.Client
	Logger    *zap.Logger
	CacheTTL  time.Duration
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsService{
		stats:    deps.StatsRepo,
		cache:    deps.Cache,
		logger:   logger,
		cacheTTL: ttl,
	}
}

// OrderStatusDistribution returns a count for each of the 6 order
// statuses, zero-filled.
func (s *StatsService) OrderStatusDistribution(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	counts, err := s.stats.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	full := make(map[domain.OrderStatus]int64, len(domain.OrderStatuses))
	for _, status := range domain.OrderStatuses {
		full[status] = counts[status]
	}
	return full, nil
}

// TicketStatusDistribution returns a count for each of the 4 ticket
// statuses, zero-filled.
func (s *StatsService) TicketStatusDistribution(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	counts, err := s.stats.CountTicketsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	full := make(map[domain.TicketStatus]int64, len(domain.TicketStatuses))
	for _, status := range domain.TicketStatuses {
		full[status] = counts[status]
	}
	return full, nil
}

// TicketPriorityDistribution returns a count for each of the 4
// priorities, zero-filled.
func (s *StatsService) TicketPriorityDistribution(ctx context.Context) (map[domain.TicketPriority]int64, error) {
	counts, err := s.stats.CountTicketsByPriority(ctx)
	if err != nil {
		return nil, err
	}
	full := make(map[domain.TicketPriority]int64, len(domain.TicketPriorities))
	for _, priority := range domain.TicketPriorities {
		full[priority] = counts[priority]
	}
	return full, nil
}

// TicketsByCategory returns per-category ticket counts, highest first.
func (s *StatsService) TicketsByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.stats.CountTicketsByCategory(ctx)
}

// TopCustomersByTickets returns customers ranked by ticket count. A
// positive limit truncates the ranking; fewer groups than the limit are
// returned as-is.
func (s *StatsService) TopCustomersByTickets(ctx context.Context, limit int) ([]domain.CustomerActivity, error) {
	rows, err := s.stats.TopCustomersByTickets(ctx)
	if err != nil {
		return nil, err
	}
	return truncateActivity(rows, limit), nil
}

// TopCustomersByOrders returns customers ranked by order count.
func (s *StatsService) TopCustomersByOrders(ctx context.Context, limit int) ([]domain.CustomerActivity, error) {
	rows, err := s.stats.TopCustomersByOrders(ctx)
	if err != nil {
		return nil, err
	}
	return truncateActivity(rows, limit), nil
}

// Dashboard assembles the full snapshot. The separate count queries are
// not atomic with each other; the snapshot is good enough for display.
func (s *StatsService) Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	if cached := s.cachedDashboard(ctx); cached != nil {
		return cached, nil
	}

	ordersByStatus, err := s.OrderStatusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	ticketsByStatus, err := s.TicketStatusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	ticketsByPriority, err := s.TicketPriorityDistribution(ctx)
	if err != nil {
		return nil, err
	}
	ticketsByCategory, err := s.stats.CountTicketsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	topByTickets, err := s.TopCustomersByTickets(ctx, 5)
	if err != nil {
		return nil, err
	}
	topByOrders, err := s.TopCustomersByOrders(ctx, 5)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.DashboardSnapshot{
		OrdersByStatus:        ordersByStatus,
		TicketsByStatus:       ticketsByStatus,
		TicketsByPriority:     ticketsByPriority,
		TicketsByCategory:     ticketsByCategory,
		TopCustomersByTickets: topByTickets,
		TopCustomersByOrders:  topByOrders,
	}
	for _, count := range ordersByStatus {
		snapshot.TotalOrders += count
	}
	for _, count := range ticketsByStatus {
		snapshot.TotalTickets += count
	}

	s.storeDashboard(ctx, snapshot)
	return snapshot, nil
}

func (s *StatsService) cachedDashboard(ctx context.Context) *domain.DashboardSnapshot {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var snapshot domain.DashboardSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("dashboard cache decode failed", zap.Error(err))
		return nil
	}
	return &snapshot
}

func (s *StatsService) storeDashboard(ctx context.Context, snapshot *domain.DashboardSnapshot) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("dashboard cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func truncateActivity(rows []domain.CustomerActivity, limit int) []domain.CustomerActivity {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
