// Package checkout turns the device's cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Cheertaboi/storefront-cart/internal/cache"
	"github.com/Cheertaboi/storefront-cart/internal/cartsync"
	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/session"
)

const ordersKey = "orders"

// maxRecentOrders bounds the order ids kept on the device.
const maxRecentOrders = 20

type Orders interface {
	PlaceOrder(ctx context.Context, cartID, customerID string) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
}

type Service struct {
	cart    *cartsync.Synchronizer
	session *session.Session
	orders  Orders
	store   cache.Store
	notify  cartsync.Notifier
	log     *slog.Logger
}

func New(cart *cartsync.Synchronizer, sess *session.Session, orders Orders, store cache.Store, notify cartsync.Notifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if notify == nil {
		notify = cartsync.LogNotifier{Log: log}
	}
	return &Service{cart: cart, session: sess, orders: orders, store: store, notify: notify, log: log}
}

// Checkout places an order for the authoritative cart. Without a signed-in
// customer a guest is created from guestEmail; with neither it returns
// session.ErrNoCustomer. On success the cart identifier is discarded.
func (s *Service) Checkout(ctx context.Context, guestEmail string) (models.Order, error) {
	cart, err := s.cart.Fetch(ctx, "")
	if err != nil {
		return models.Order{}, err
	}
	if cart.IsEmpty() {
		return models.Order{}, models.ErrEmptyCart
	}

	customer, err := s.session.Current(ctx)
	if errors.Is(err, session.ErrNoCustomer) && guestEmail != "" {
		customer, err = s.session.Guest(ctx, guestEmail)
	}
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.PlaceOrder(ctx, cart.ID, customer.ID)
	if err != nil {
		s.notify.Notify(ctx, cartsync.Notification{
			Level:   cartsync.LevelError,
			Message: "Checkout failed: " + cartsync.UserMessage(err),
			Err:     err,
		})
		if errors.Is(err, models.ErrCartNotFound) {
			_ = s.cart.Discard(ctx)
		}
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	if err := s.cart.Discard(ctx); err != nil {
		s.log.WarnContext(ctx, "discard cart after checkout", slog.Any("err", err))
	}
	if err := s.remember(ctx, order.ID); err != nil {
		s.log.WarnContext(ctx, "remember order", slog.Any("err", err))
	}

	s.log.InfoContext(ctx, "checkout complete",
		slog.String("order_id", order.ID),
		slog.String("customer_id", customer.ID),
		slog.String("total", order.Total.StringFixed(2)))
	s.notify.Notify(ctx, cartsync.Notification{
		Level:   cartsync.LevelInfo,
		Message: fmt.Sprintf("Order %s placed", order.ID),
	})
	return order, nil
}

// OrderStatus fetches an order from the backend.
func (s *Service) OrderStatus(ctx context.Context, orderID string) (models.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// RecentOrders lists order ids placed from this device, newest first.
func (s *Service) RecentOrders(ctx context.Context) ([]string, error) {
	var ids []string
	err := cache.GetJSON(ctx, s.store, ordersKey, &ids)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	return ids, err
}

func (s *Service) remember(ctx context.Context, orderID string) error {
	ids, err := s.RecentOrders(ctx)
	if err != nil {
		return err
	}
	ids = append([]string{orderID}, ids...)
	if len(ids) > maxRecentOrders {
		ids = ids[:maxRecentOrders]
	}
	return cache.SetJSON(ctx, s.store, ordersKey, ids)
}
