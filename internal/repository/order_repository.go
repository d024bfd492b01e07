package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/order-desk/internal/domain"
)

// OrderFilter captures search parameters for order listings. Unset fields
// apply no constraint; all set fields are ANDed together.
type OrderFilter struct {
	CustomerName  *string // substring, case-insensitive
	CustomerEmail *string // exact, case-insensitive
	Status        *domain.OrderStatus
	OrderedFrom   *time.Time
	OrderedTo     *time.Time
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int64) error
	ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	ListRecent(ctx context.Context, since time.Time) ([]domain.Order, error)
	Count(ctx context.Context) (int64, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates the postgres-backed repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, customer_name, customer_email, customer_phone, delivery_address,
               food_items, total_amount, currency, status, order_date, special_instructions`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (customer_name, customer_email, customer_phone, delivery_address,
            food_items, total_amount, currency, status, order_date, special_instructions)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.DeliveryAddress,
		order.FoodItems,
		order.TotalAmount,
		order.Currency,
		order.Status,
		order.OrderDate,
		order.SpecialInstructions,
	).Scan(&order.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.DeliveryAddress,
		&order.FoodItems,
		&order.TotalAmount,
		&order.Currency,
		&order.Status,
		&order.OrderDate,
		&order.SpecialInstructions,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !order.Status.Valid() {
		return nil, fmt.Errorf("order %d: unknown status %q in store", order.ID, order.Status)
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET customer_name=$1, customer_email=$2, customer_phone=$3,
            delivery_address=$4, food_items=$5, total_amount=$6, currency=$7,
            status=$8, order_date=$9, special_instructions=$10
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.DeliveryAddress,
		order.FoodItems,
		order.TotalAmount,
		order.Currency,
		order.Status,
		order.OrderDate,
		order.SpecialInstructions,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	// Dependent tickets and replies go with it via ON DELETE CASCADE.
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	base := `SELECT ` + orderColumns + ` FROM orders`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerName != nil && strings.TrimSpace(*filter.CustomerName) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.CustomerName))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(customer_name) LIKE $%d", len(args)))
	}
	if filter.CustomerEmail != nil && strings.TrimSpace(*filter.CustomerEmail) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.CustomerEmail)))
		clauses = append(clauses, fmt.Sprintf("LOWER(customer_email) = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.OrderedFrom != nil {
		args = append(args, *filter.OrderedFrom)
		clauses = append(clauses, fmt.Sprintf("order_date >= $%d", len(args)))
	}
	if filter.OrderedTo != nil {
		args = append(args, *filter.OrderedTo)
		clauses = append(clauses, fmt.Sprintf("order_date <= $%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s", base, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListRecent(ctx context.Context, since time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_date >= $1 ORDER BY order_date DESC`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&order.CustomerEmail,
			&order.CustomerPhone,
			&order.DeliveryAddress,
			&order.FoodItems,
			&order.TotalAmount,
			&order.Currency,
			&order.Status,
			&order.OrderDate,
			&order.SpecialInstructions,
		); err != nil {
			return nil, err
		}
		if !order.Status.Valid() {
			return nil, fmt.Errorf("order %d: unknown status %q in store", order.ID, order.Status)
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
