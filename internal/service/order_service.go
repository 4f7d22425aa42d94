package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

type OrderService struct {
	orders    OrderRepo
	customers CustomerRepo
	log       *slog.Logger
}

func NewOrderService(orders OrderRepo, customers CustomerRepo, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{orders: orders, customers: customers, log: log}
}

// Place converts a cart into a pending order and deletes the cart.
func (s *OrderService) Place(ctx context.Context, req models.PlaceOrderRequest) (models.Order, error) {
	if err := models.ValidateCartID(req.CartID); err != nil {
		return models.Order{}, err
	}
	if _, err := uuid.Parse(req.CustomerID); err != nil {
		return models.Order{}, models.ErrCustomerNotFound
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return models.Order{}, err
	}
	if customer.Status != models.CustomerActive {
		return models.Order{}, fmt.Errorf("%w: customer is %s", models.ErrInvalidStatus, customer.Status)
	}

	now := time.Now().UTC()
	order, err := s.orders.CreateFromCart(ctx, models.Order{
		ID:         uuid.NewString(),
		CartID:     req.CartID,
		CustomerID: customer.ID,
		Status:     models.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return models.Order{}, err
	}

	s.log.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("cart_id", order.CartID),
		slog.String("customer_id", order.CustomerID),
		slog.String("total", order.Total.StringFixed(2)))
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Order{}, models.ErrOrderNotFound
	}
	return s.orders.Get(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.Order{}, models.ErrOrderNotFound
	}
	return s.orders.UpdateStatus(ctx, id, status)
}
