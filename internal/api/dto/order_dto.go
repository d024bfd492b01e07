package dto

import (
	"time"

	"github.com/spec-kit/order-desk/internal/domain"
)

// OrderRequest payload for create and full update.
type OrderRequest struct {
	CustomerName        string             `json:"customer_name"`
	CustomerEmail       string             `json:"customer_email"`
	CustomerPhone       string             `json:"customer_phone"`
	DeliveryAddress     string             `json:"delivery_address"`
	FoodItems           string             `json:"food_items"`
	TotalAmount         float64            `json:"total_amount"`
	Currency            string             `json:"currency"`
	Status              domain.OrderStatus `json:"status"`
	OrderDate           *time.Time         `json:"order_date"`
	SpecialInstructions string             `json:"special_instructions"`
}

// OrderStatusRequest payload for the narrow status change.
type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// OrderResponse response.
type OrderResponse struct {
	ID                  int64              `json:"id"`
	CustomerName        string             `json:"customer_name"`
	CustomerEmail       string             `json:"customer_email"`
	CustomerPhone       string             `json:"customer_phone"`
	DeliveryAddress     string             `json:"delivery_address"`
	FoodItems           string             `json:"food_items"`
	TotalAmount         float64            `json:"total_amount"`
	Currency            string             `json:"currency"`
	Status              domain.OrderStatus `json:"status"`
	OrderDate           time.Time          `json:"order_date"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
}
