package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/events"
	"github.com/spec-kit/order-desk/internal/repository"
	apperrors "github.com/spec-kit/order-desk/pkg/errorutil"
)

const recentWindow = 30 * 24 * time.Hour

// OrderService coordinates order lifecycle workflows.
type OrderService struct {
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// OrderInput describes an order create/update payload.
type OrderInput struct {
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	DeliveryAddress     string
	FoodItems           string
	TotalAmount         float64
	Currency            string
	Status              domain.OrderStatus
	OrderDate           *time.Time
	SpecialInstructions string
}

// OrderSearchFilter describes listing filters. Unset fields match all.
type OrderSearchFilter struct {
	CustomerName  *string
	CustomerEmail *string
	Status        *domain.OrderStatus
	OrderedFrom   *time.Time
	OrderedTo     *time.Time
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateOrder validates the payload, stamps the order date and persists a
// new order. Defaults: currency LKR, status PENDING.
func (s *OrderService) CreateOrder(ctx context.Context, input OrderInput) (*domain.Order, error) {
	if details := validateOrderInput(input); len(details) > 0 {
		return nil, apperrors.NewValidationError("order validation failed", details)
	}

	order := &domain.Order{
		CustomerName:        strings.TrimSpace(input.CustomerName),
		CustomerEmail:       strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(input.CustomerPhone),
		DeliveryAddress:     strings.TrimSpace(input.DeliveryAddress),
		FoodItems:           strings.TrimSpace(input.FoodItems),
		TotalAmount:         input.TotalAmount,
		Currency:            input.Currency,
		Status:              input.Status,
		OrderDate:           s.now(),
		SpecialInstructions: strings.TrimSpace(input.SpecialInstructions),
	}
	if order.Currency == "" {
		order.Currency = domain.DefaultCurrency
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:      events.EventOrderCreated,
		Subject:   events.SubjectOrder,
		SubjectID: order.ID,
		Payload: events.OrderCreatedPayload{
			CustomerName: order.CustomerName,
			TotalAmount:  order.TotalAmount,
			Currency:     order.Currency,
			Status:       order.Status,
		},
	})
	return order, nil
}

// GetOrder returns the stored record.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, orderNotFound(err, id)
	}
	return order, nil
}

// ListOrders returns orders matching the conjunction of set filter fields.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderSearchFilter) ([]domain.Order, error) {
	return s.orders.ListWithFilter(ctx, repository.OrderFilter{
		CustomerName:  filter.CustomerName,
		CustomerEmail: filter.CustomerEmail,
		Status:        filter.Status,
		OrderedFrom:   filter.OrderedFrom,
		OrderedTo:     filter.OrderedTo,
	})
}

// RecentOrders returns orders placed in the last 30 days, newest first.
func (s *OrderService) RecentOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListRecent(ctx, s.now().Add(-recentWindow))
}

// UpdateOrder replaces the mutable fields of an order. The order date is
// kept unless the input supplies one.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, input OrderInput) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, orderNotFound(err, id)
	}
	if details := validateOrderInput(input); len(details) > 0 {
		return nil, apperrors.NewValidationError("order validation failed", details)
	}

	order.CustomerName = strings.TrimSpace(input.CustomerName)
	order.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	order.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	order.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	order.FoodItems = strings.TrimSpace(input.FoodItems)
	order.TotalAmount = input.TotalAmount
	order.SpecialInstructions = strings.TrimSpace(input.SpecialInstructions)
	if input.Currency != "" {
		order.Currency = input.Currency
	}
	if input.Status != "" {
		order.Status = input.Status
	}
	if input.OrderDate != nil {
		order.OrderDate = *input.OrderDate
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, orderNotFound(err, id)
	}
	return order, nil
}

// SetOrderStatus changes only the status field.
func (s *OrderService) SetOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("order validation failed", map[string]any{
			"status": "unknown order status",
		})
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, orderNotFound(err, id)
	}
	oldStatus := order.Status
	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, orderNotFound(err, id)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventOrderStatusChanged,
		Subject:   events.SubjectOrder,
		SubjectID: order.ID,
		Payload: events.OrderStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return order, nil
}

// DeleteOrder removes the order; dependent tickets and their replies
// cascade at the store level.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return orderNotFound(err, id)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventOrderDeleted,
		Subject:   events.SubjectOrder,
		SubjectID: id,
	})
	return nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateOrderInput(input OrderInput) map[string]any {
	details := map[string]any{}
	requireNonEmpty(details, "customer_name", input.CustomerName)
	requireNonEmpty(details, "customer_email", input.CustomerEmail)
	requireNonEmpty(details, "customer_phone", input.CustomerPhone)
	requireNonEmpty(details, "delivery_address", input.DeliveryAddress)
	requireNonEmpty(details, "food_items", input.FoodItems)
	requireMaxLen(details, "delivery_address", input.DeliveryAddress, 500)
	requireMaxLen(details, "food_items", input.FoodItems, 1000)
	requireMaxLen(details, "special_instructions", input.SpecialInstructions, 500)
	if input.TotalAmount <= 0 {
		details["total_amount"] = "must be positive"
	}
	if input.Status != "" && !input.Status.Valid() {
		details["status"] = "unknown order status"
	}
	return details
}

func requireNonEmpty(details map[string]any, field, value string) {
	if strings.TrimSpace(value) == "" {
		details[field] = "is required"
	}
}

func requireMaxLen(details map[string]any, field, value string, max int) {
	if _, required := details[field]; required {
		return
	}
	if len(value) > max {
		details[field] = "exceeds maximum length"
	}
}

func orderNotFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("order", map[string]any{"id": id})
	}
	return err
}
