package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is the cart contents frozen at checkout.
type Order struct {
	ID         string          `json:"id"`
	CartID     string          `json:"cartId"`
	CustomerID string          `json:"customerId"`
	Lines      []CartLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type PlaceOrderRequest struct {
	CartID     string `json:"cartId"`
	CustomerID string `json:"customerId"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
