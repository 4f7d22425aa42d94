package cartapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

func (c *Client) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, http.MethodPost, "/customers", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, http.MethodPost, "/customers/login", models.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) UpdateCustomerStatus(ctx context.Context, id string, status models.CustomerStatus) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, http.MethodPatch, "/customers/"+url.PathEscape(id)+"/status", models.UpdateCustomerStatusRequest{Status: status}, &out)
	return out, err
}
