package service

import (
	"context"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

// Repos required by the services (interfaces to allow the in-memory and
// Postgres implementations to be swapped).

type CartRepo interface {
	Get(ctx context.Context, cartID string) (models.Cart, error)
	AddLine(ctx context.Context, cartID string, line models.CartLine) (models.Cart, error)
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error)
	// RemoveLine deletes the cart along with its last line, atomically.
	RemoveLine(ctx context.Context, cartID, productID string) (models.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

type CustomerRepo interface {
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	GetByID(ctx context.Context, id string) (models.Customer, error)
	GetByEmail(ctx context.Context, email string) (models.Customer, error)
	UpdateStatus(ctx context.Context, id string, status models.CustomerStatus) (models.Customer, error)
}

type OrderRepo interface {
	CreateFromCart(ctx context.Context, order models.Order) (models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
}
