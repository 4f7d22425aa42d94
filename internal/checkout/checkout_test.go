package checkout_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/storefront-cart/internal/api/apitest"
	"github.com/Cheertaboi/storefront-cart/internal/cache"
	"github.com/Cheertaboi/storefront-cart/internal/cartapi"
	"github.com/Cheertaboi/storefront-cart/internal/cartsync"
	"github.com/Cheertaboi/storefront-cart/internal/checkout"
	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/session"
)

var dec = decimal.RequireFromString

type harness struct {
	cart     *cartsync.Synchronizer
	session  *session.Session
	checkout *checkout.Service
}

func newHarness(t *testing.T) harness {
	t.Helper()
	srv := apitest.NewServer(t)
	client, err := cartapi.New(srv.URL, 5*time.Second)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := cache.NewMemoryStore()
	cart := cartsync.New(client, store, cartsync.WithLogger(log))
	sess := session.New(client, store, log)
	return harness{
		cart:     cart,
		session:  sess,
		checkout: checkout.New(cart, sess, client, store, nil, log),
	}
}

func TestCheckout_Guest(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.cart.AddLine(ctx, "console", dec("499"), 1)
	require.NoError(t, err)
	_, err = h.cart.AddLine(ctx, "controller", dec("69.5"), 2)
	require.NoError(t, err)

	order, err := h.checkout.Checkout(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, "638", order.Total.String())
	assert.Equal(t, models.OrderPending, order.Status)

	local, err := h.cart.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, local.ID, "cart identifier is discarded after checkout")

	customer, err := h.session.Current(ctx)
	require.NoError(t, err)
	assert.True(t, customer.Guest)
	assert.Equal(t, customer.ID, order.CustomerID)

	status, err := h.checkout.OrderStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, status.ID)

	recent, err := h.checkout.RecentOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{order.ID}, recent)
}

func TestCheckout_RegisteredCustomer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	reg, err := h.session.Register(ctx, "ray@example.com", "Ray", "password123")
	require.NoError(t, err)
	_, err = h.cart.AddLine(ctx, "drone", dec("899"), 1)
	require.NoError(t, err)

	order, err := h.checkout.Checkout(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, order.CustomerID)
}

func TestCheckout_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyCart", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.checkout.Checkout(ctx, "guest@example.com")
		require.ErrorIs(t, err, models.ErrEmptyCart)
	})

	t.Run("NoCustomer", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.cart.AddLine(ctx, "a", dec("1"), 1)
		require.NoError(t, err)
		_, err = h.checkout.Checkout(ctx, "")
		require.ErrorIs(t, err, session.ErrNoCustomer)

		local, err := h.cart.Cart(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, local.ID, "cart survives a refused checkout")
	})

	t.Run("InactiveCustomer", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.session.Guest(ctx, "idle@example.com")
		require.NoError(t, err)
		_, err = h.session.UpdateStatus(ctx, models.CustomerInactive)
		require.NoError(t, err)
		_, err = h.cart.AddLine(ctx, "a", dec("1"), 1)
		require.NoError(t, err)

		_, err = h.checkout.Checkout(ctx, "")
		require.ErrorIs(t, err, models.ErrInvalidStatus)
	})
}
