package cartapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

func (c *Client) PlaceOrder(ctx context.Context, cartID, customerID string) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPost, "/orders", models.PlaceOrderRequest{CartID: cartID, CustomerID: customerID}, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}
