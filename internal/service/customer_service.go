package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

const minPasswordLen = 8

type CustomerService struct {
	repo CustomerRepo
	log  *slog.Logger
	// bcrypt cost; tests lower it
	cost int
}

func NewCustomerService(repo CustomerRepo, log *slog.Logger) *CustomerService {
	if log == nil {
		log = slog.Default()
	}
	return &CustomerService{repo: repo, log: log, cost: bcrypt.DefaultCost}
}

// Create registers a customer. Guests need only an email; registered
// customers also need a password of at least eight characters.
func (s *CustomerService) Create(ctx context.Context, req models.CreateCustomerRequest) (models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return models.Customer{}, fmt.Errorf("%w: email", models.ErrInvalidCustomer)
	}

	now := time.Now().UTC()
	c := models.Customer{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Guest:     req.Guest,
		Status:    models.CustomerActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if !req.Guest {
		if len(req.Password) < minPasswordLen {
			return models.Customer{}, fmt.Errorf("%w: password too short", models.ErrInvalidCustomer)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
		if err != nil {
			return models.Customer{}, fmt.Errorf("hash password: %w", err)
		}
		c.PasswordHash = string(hash)
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return models.Customer{}, err
	}
	s.log.Info("customer created", slog.String("customer_id", created.ID), slog.Bool("guest", created.Guest))
	return created, nil
}

// Login checks credentials of a registered customer. Unknown emails and
// wrong passwords both return ErrInvalidCredentials.
func (s *CustomerService) Login(ctx context.Context, req models.LoginRequest) (models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrCustomerNotFound) {
			return models.Customer{}, models.ErrInvalidCredentials
		}
		return models.Customer{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)); err != nil {
		return models.Customer{}, models.ErrInvalidCredentials
	}
	if c.Status == models.CustomerSuspended {
		return models.Customer{}, fmt.Errorf("%w: account suspended", models.ErrInvalidCredentials)
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (models.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Customer{}, models.ErrCustomerNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) UpdateStatus(ctx context.Context, id string, status models.CustomerStatus) (models.Customer, error) {
	if !status.Valid() {
		return models.Customer{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.Customer{}, models.ErrCustomerNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
