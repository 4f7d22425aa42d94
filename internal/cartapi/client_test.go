package cartapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/storefront-cart/internal/api/apitest"
	"github.com/Cheertaboi/storefront-cart/internal/cartapi"
	"github.com/Cheertaboi/storefront-cart/internal/models"
)

var dec = decimal.RequireFromString

func newClient(t *testing.T, url string) *cartapi.Client {
	t.Helper()
	c, err := cartapi.New(url, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestClient_CartLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	c := newClient(t, srv.URL)
	cartID := uuid.NewString()

	cart, err := c.AddItem(ctx, cartID, models.CartLine{ProductID: "gpu", Price: dec("749"), Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, cartID, cart.ID)
	assert.Equal(t, 1, cart.ItemCount())

	cart, err = c.UpdateItem(ctx, cartID, "gpu", 2)
	require.NoError(t, err)
	assert.Equal(t, "1498", cart.Total().String())

	cart, err = c.GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	_, err = c.UpdateItem(ctx, cartID, "psu", 1)
	require.ErrorIs(t, err, models.ErrLineNotFound)

	cart, err = c.DeleteItem(ctx, cartID, "gpu")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	_, err = c.GetCart(ctx, cartID)
	require.ErrorIs(t, err, models.ErrCartNotFound)

	var apiErr *cartapi.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_ClearCart(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, apitest.NewServer(t).URL)
	cartID := uuid.NewString()

	_, err := c.AddItem(ctx, cartID, models.CartLine{ProductID: "x", Price: dec("1"), Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, c.ClearCart(ctx, cartID))
	require.ErrorIs(t, c.ClearCart(ctx, cartID), models.ErrCartNotFound)
}

func TestClient_CustomersAndOrders(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, apitest.NewServer(t).URL)

	reg, err := c.CreateCustomer(ctx, models.CreateCustomerRequest{Email: "kim@example.com", Name: "Kim", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.False(t, reg.Guest)

	got, err := c.Login(ctx, "kim@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)

	_, err = c.Login(ctx, "kim@example.com", "bad")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	got, err = c.GetCustomer(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", got.Name)

	got, err = c.UpdateCustomerStatus(ctx, reg.ID, models.CustomerActive)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerActive, got.Status)

	cartID := uuid.NewString()
	_, err = c.AddItem(ctx, cartID, models.CartLine{ProductID: "keyboard", Price: dec("120"), Quantity: 1})
	require.NoError(t, err)

	order, err := c.PlaceOrder(ctx, cartID, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)

	fetched, err := c.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(fetched.Total))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).GetCart(context.Background(), uuid.NewString())
	var apiErr *cartapi.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad_gateway", apiErr.Code)
	assert.Equal(t, "upstream down", apiErr.Message())
	assert.Nil(t, errors.Unwrap(apiErr))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).GetCart(context.Background(), uuid.NewString())
	require.Error(t, err)
	var apiErr *cartapi.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := cartapi.New("not a url", 0)
	assert.Error(t, err)
}
