// Package cartapi is the storefront's client for the cart, customer and order
// REST endpoints. Calls are never retried.
package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

// APIError is a non-2xx answer from the backend. It unwraps to the models
// sentinel named by Code, when there is one.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return models.ErrorFromCode(e.Code)
}

// Message is the text shown to shoppers: the backend detail when present.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Code
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL. A zero timeout leaves http.Client's
// default (none) in place.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("cartapi: invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Code = body.Error
		apiErr.Detail = body.Detail
	} else {
		apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
		apiErr.Detail = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func cartPath(cartID string) string {
	return "/carts/" + url.PathEscape(cartID)
}

func (c *Client) AddItem(ctx context.Context, cartID string, line models.CartLine) (models.Cart, error) {
	var resp models.CartResponse
	err := c.do(ctx, http.MethodPost, cartPath(cartID)+"/items", models.AddLineRequest{
		ProductID: line.ProductID,
		Price:     line.Price,
		Quantity:  line.Quantity,
	}, &resp)
	return resp.Cart(), err
}

func (c *Client) GetCart(ctx context.Context, cartID string) (models.Cart, error) {
	var resp models.CartResponse
	err := c.do(ctx, http.MethodGet, cartPath(cartID), nil, &resp)
	return resp.Cart(), err
}

func (c *Client) UpdateItem(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error) {
	var resp models.CartResponse
	err := c.do(ctx, http.MethodPatch, cartPath(cartID)+"/items/"+url.PathEscape(productID), models.UpdateLineRequest{Quantity: quantity}, &resp)
	return resp.Cart(), err
}

func (c *Client) DeleteItem(ctx context.Context, cartID, productID string) (models.Cart, error) {
	var resp models.CartResponse
	err := c.do(ctx, http.MethodDelete, cartPath(cartID)+"/items/"+url.PathEscape(productID), nil, &resp)
	return resp.Cart(), err
}

func (c *Client) ClearCart(ctx context.Context, cartID string) error {
	return c.do(ctx, http.MethodDelete, cartPath(cartID), nil, nil)
}
