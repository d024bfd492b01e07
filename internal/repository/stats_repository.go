package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/order-desk/internal/domain"
)

// StatsRepository serves the read-only aggregations behind the dashboard.
// Each method is a single grouped count query; cross-method atomicity is
// not provided.
type StatsRepository interface {
	CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
	CountTicketsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
	CountTicketsByPriority(ctx context.Context) (map[domain.TicketPriority]int64, error)
	CountTicketsByCategory(ctx context.Context) ([]domain.CategoryCount, error)
	TopCustomersByTickets(ctx context.Context) ([]domain.CustomerActivity, error)
	TopCustomersByOrders(ctx context.Context) ([]domain.CustomerActivity, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates the postgres-backed repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatus]int64)
	for rows.Next() {
		var status domain.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *statsRepository) CountTicketsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *statsRepository) CountTicketsByPriority(ctx context.Context) (map[domain.TicketPriority]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketPriority]int64)
	for rows.Next() {
		var priority domain.TicketPriority
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		counts[priority] = count
	}
	return counts, rows.Err()
}

func (r *statsRepository) CountTicketsByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	const query = `
        SELECT category, COUNT(*) AS ticket_count
        FROM tickets GROUP BY category
        ORDER BY ticket_count DESC, category ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategoryCount
	for rows.Next() {
		var row domain.CategoryCount
		if err := rows.Scan(&row.Category, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) TopCustomersByTickets(ctx context.Context) ([]domain.CustomerActivity, error) {
	const query = `
        SELECT customer_name, customer_email, COUNT(*) AS ticket_count
        FROM tickets GROUP BY customer_name, customer_email
        ORDER BY ticket_count DESC, customer_name ASC`
	return r.queryCustomerActivity(ctx, query)
}

func (r *statsRepository) TopCustomersByOrders(ctx context.Context) ([]domain.CustomerActivity, error) {
	const query = `
        SELECT customer_name, customer_email, COUNT(*) AS order_count
        FROM orders GROUP BY customer_name, customer_email
        ORDER BY order_count DESC, customer_name ASC`
	return r.queryCustomerActivity(ctx, query)
}

func (r *statsRepository) queryCustomerActivity(ctx context.Context, query string) ([]domain.CustomerActivity, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomerActivity(rows)
}

func scanCustomerActivity(rows pgx.Rows) ([]domain.CustomerActivity, error) {
	var result []domain.CustomerActivity
	for rows.Next() {
		var row domain.CustomerActivity
		if err := rows.Scan(&row.CustomerName, &row.CustomerEmail, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
