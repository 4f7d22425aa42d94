package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/repository"
	"github.com/Cheertaboi/storefront-cart/internal/service"
	"github.com/Cheertaboi/storefront-cart/pkg/db"
)

var dec = decimal.RequireFromString

type repos struct {
	carts     service.CartRepo
	customers service.CustomerRepo
	orders    service.OrderRepo
}

// backends returns the memory repositories, plus Postgres when
// CART_TEST_DSN points at a database.
func backends(t *testing.T) map[string]repos {
	t.Helper()
	mem := repository.NewMemory()
	out := map[string]repos{
		"memory": {carts: mem.Carts(), customers: mem.Customers(), orders: mem.Orders()},
	}

	dsn := os.Getenv("CART_TEST_DSN")
	if dsn == "" {
		return out
	}
	conn, err := db.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))
	out["postgres"] = repos{
		carts:     repository.NewCartRepo(conn),
		customers: repository.NewCustomerRepo(conn),
		orders:    repository.NewOrderRepo(conn),
	}
	return out
}

func productIDs(c models.Cart) []string {
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func newCustomer(email string) models.Customer {
	now := time.Now().UTC()
	return models.Customer{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      "Test",
		Status:    models.CustomerActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCartRepo(t *testing.T) {
	ctx := context.Background()
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			cartID := uuid.NewString()

			_, err := r.carts.Get(ctx, cartID)
			require.ErrorIs(t, err, models.ErrCartNotFound)

			_, err = r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "apple", Price: dec("1.5"), Quantity: 2})
			require.NoError(t, err)
			_, err = r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "pear", Price: dec("2"), Quantity: 1})
			require.NoError(t, err)

			cart, err := r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "apple", Price: dec("1.25"), Quantity: 1})
			require.NoError(t, err)
			assert.Equal(t, []string{"apple", "pear"}, productIDs(cart))
			apple, _ := cart.Line("apple")
			assert.Equal(t, 3, apple.Quantity)
			assert.True(t, dec("1.25").Equal(apple.Price), apple.Price.String())

			cart, err = r.carts.SetQuantity(ctx, cartID, "pear", 5)
			require.NoError(t, err)
			assert.Equal(t, 8, cart.ItemCount())

			_, err = r.carts.SetQuantity(ctx, cartID, "plum", 1)
			assert.ErrorIs(t, err, models.ErrLineNotFound)
			_, err = r.carts.RemoveLine(ctx, cartID, "plum")
			assert.ErrorIs(t, err, models.ErrLineNotFound)

			cart, err = r.carts.RemoveLine(ctx, cartID, "apple")
			require.NoError(t, err)
			assert.Equal(t, []string{"pear"}, productIDs(cart))

			require.NoError(t, r.carts.Delete(ctx, cartID))
			assert.ErrorIs(t, r.carts.Delete(ctx, cartID), models.ErrCartNotFound)
			_, err = r.carts.SetQuantity(ctx, cartID, "pear", 1)
			assert.ErrorIs(t, err, models.ErrCartNotFound)
		})
	}
}

func TestCartRepo_RemovingLastLineDeletesCart(t *testing.T) {
	ctx := context.Background()
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			cartID := uuid.NewString()
			_, err := r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "apple", Price: dec("1"), Quantity: 1})
			require.NoError(t, err)

			cart, err := r.carts.RemoveLine(ctx, cartID, "apple")
			require.NoError(t, err)
			assert.True(t, cart.IsEmpty())

			_, err = r.carts.Get(ctx, cartID)
			require.ErrorIs(t, err, models.ErrCartNotFound)

			// the identifier can be reused for a fresh cart
			cart, err = r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "pear", Price: dec("2"), Quantity: 1})
			require.NoError(t, err)
			assert.Equal(t, []string{"pear"}, productIDs(cart))
		})
	}
}

func TestCustomerRepo(t *testing.T) {
	ctx := context.Background()
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			email := uuid.NewString() + "@example.com"

			created, err := r.customers.Create(ctx, newCustomer(email))
			require.NoError(t, err)

			_, err = r.customers.Create(ctx, newCustomer(email))
			assert.ErrorIs(t, err, models.ErrEmailTaken)

			guest := newCustomer(email)
			guest.Guest = true
			_, err = r.customers.Create(ctx, guest)
			require.NoError(t, err, "guests may reuse a registered email")

			got, err := r.customers.GetByEmail(ctx, email)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)

			updated, err := r.customers.UpdateStatus(ctx, created.ID, models.CustomerSuspended)
			require.NoError(t, err)
			assert.Equal(t, models.CustomerSuspended, updated.Status)

			_, err = r.customers.GetByID(ctx, uuid.NewString())
			assert.ErrorIs(t, err, models.ErrCustomerNotFound)
		})
	}
}

func TestOrderRepo_CreateFromCart(t *testing.T) {
	ctx := context.Background()
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			customer, err := r.customers.Create(ctx, newCustomer(uuid.NewString()+"@example.com"))
			require.NoError(t, err)

			cartID := uuid.NewString()
			_, err = r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "apple", Price: dec("2"), Quantity: 3})
			require.NoError(t, err)
			_, err = r.carts.AddLine(ctx, cartID, models.CartLine{ProductID: "pear", Price: dec("0.5"), Quantity: 2})
			require.NoError(t, err)

			now := time.Now().UTC()
			order, err := r.orders.CreateFromCart(ctx, models.Order{
				ID:         uuid.NewString(),
				CartID:     cartID,
				CustomerID: customer.ID,
				Status:     models.OrderPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
			require.NoError(t, err)
			assert.True(t, dec("7").Equal(order.Total), order.Total.String())
			assert.Len(t, order.Lines, 2)

			_, err = r.carts.Get(ctx, cartID)
			assert.ErrorIs(t, err, models.ErrCartNotFound, "placing an order consumes the cart")

			got, err := r.orders.Get(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"apple", "pear"}, productIDs(models.Cart{Lines: got.Lines}))

			shipped, err := r.orders.UpdateStatus(ctx, order.ID, models.OrderShipped)
			require.NoError(t, err)
			assert.Equal(t, models.OrderShipped, shipped.Status)

			_, err = r.orders.CreateFromCart(ctx, models.Order{ID: uuid.NewString(), CartID: cartID, CustomerID: customer.ID})
			assert.ErrorIs(t, err, models.ErrCartNotFound)

			_, err = r.orders.Get(ctx, uuid.NewString())
			assert.ErrorIs(t, err, models.ErrOrderNotFound)
		})
	}
}
