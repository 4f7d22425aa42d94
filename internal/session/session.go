// Package session remembers which customer is using the device. The record
// is written after the backend authenticates or creates the customer.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Cheertaboi/storefront-cart/internal/cache"
	"github.com/Cheertaboi/storefront-cart/internal/models"
)

const customerKey = "customer"

var ErrNoCustomer = errors.New("no customer signed in")

type Remote interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (models.Customer, error)
	Login(ctx context.Context, email, password string) (models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	UpdateCustomerStatus(ctx context.Context, id string, status models.CustomerStatus) (models.Customer, error)
}

type Session struct {
	remote Remote
	store  cache.Store
	log    *slog.Logger
}

func New(remote Remote, store cache.Store, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{remote: remote, store: store, log: log}
}

func (s *Session) Register(ctx context.Context, email, name, password string) (models.Customer, error) {
	c, err := s.remote.CreateCustomer(ctx, models.CreateCustomerRequest{Email: email, Name: name, Password: password})
	if err != nil {
		return models.Customer{}, fmt.Errorf("register: %w", err)
	}
	return c, s.remember(ctx, c)
}

func (s *Session) Login(ctx context.Context, email, password string) (models.Customer, error) {
	c, err := s.remote.Login(ctx, email, password)
	if err != nil {
		return models.Customer{}, fmt.Errorf("login: %w", err)
	}
	return c, s.remember(ctx, c)
}

// Guest creates a passwordless customer for checking out without an account.
func (s *Session) Guest(ctx context.Context, email string) (models.Customer, error) {
	c, err := s.remote.CreateCustomer(ctx, models.CreateCustomerRequest{Email: email, Guest: true})
	if err != nil {
		return models.Customer{}, fmt.Errorf("guest: %w", err)
	}
	return c, s.remember(ctx, c)
}

// Current returns the locally remembered customer, or ErrNoCustomer.
func (s *Session) Current(ctx context.Context) (models.Customer, error) {
	var c models.Customer
	err := cache.GetJSON(ctx, s.store, customerKey, &c)
	if errors.Is(err, cache.ErrCacheMiss) {
		return models.Customer{}, ErrNoCustomer
	}
	if err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// Refresh replaces the local record with the backend's. A customer the
// backend no longer knows is forgotten.
func (s *Session) Refresh(ctx context.Context) (models.Customer, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	c, err := s.remote.GetCustomer(ctx, cur.ID)
	if errors.Is(err, models.ErrCustomerNotFound) {
		if derr := s.Logout(ctx); derr != nil {
			return models.Customer{}, derr
		}
		return models.Customer{}, ErrNoCustomer
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("refresh customer: %w", err)
	}
	return c, s.remember(ctx, c)
}

func (s *Session) UpdateStatus(ctx context.Context, status models.CustomerStatus) (models.Customer, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	c, err := s.remote.UpdateCustomerStatus(ctx, cur.ID, status)
	if err != nil {
		return models.Customer{}, fmt.Errorf("update status: %w", err)
	}
	return c, s.remember(ctx, c)
}

// Logout forgets the customer on this device only.
func (s *Session) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, customerKey)
}

func (s *Session) remember(ctx context.Context, c models.Customer) error {
	if err := cache.SetJSON(ctx, s.store, customerKey, c); err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	s.log.DebugContext(ctx, "customer remembered", slog.String("customer_id", c.ID), slog.Bool("guest", c.Guest))
	return nil
}
