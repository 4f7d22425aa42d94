package service

import (
	"context"
	"log/slog"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

type CartService struct {
	repo CartRepo
	log  *slog.Logger
}

func NewCartService(repo CartRepo, log *slog.Logger) *CartService {
	if log == nil {
		log = slog.Default()
	}
	return &CartService{repo: repo, log: log}
}

func (s *CartService) Get(ctx context.Context, cartID string) (models.Cart, error) {
	if err := models.ValidateCartID(cartID); err != nil {
		return models.Cart{}, err
	}
	return s.repo.Get(ctx, cartID)
}

// AddLine creates the cart on first use. Adding a product already in the cart
// increases its quantity.
func (s *CartService) AddLine(ctx context.Context, cartID string, line models.CartLine) (models.Cart, error) {
	if err := models.ValidateCartID(cartID); err != nil {
		return models.Cart{}, err
	}
	if err := models.ValidateLine(line); err != nil {
		return models.Cart{}, err
	}
	cart, err := s.repo.AddLine(ctx, cartID, line)
	if err != nil {
		return models.Cart{}, err
	}
	s.log.Debug("cart line added",
		slog.String("cart_id", cartID),
		slog.String("product_id", line.ProductID),
		slog.Int("quantity", line.Quantity))
	return cart, nil
}

func (s *CartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error) {
	if err := models.ValidateCartID(cartID); err != nil {
		return models.Cart{}, err
	}
	if err := models.ValidateQuantity(quantity); err != nil {
		return models.Cart{}, err
	}
	return s.repo.SetQuantity(ctx, cartID, productID, quantity)
}

// RemoveLine drops a line. The repository deletes a cart left without lines,
// so the next fetch of that identifier reports cart_not_found.
func (s *CartService) RemoveLine(ctx context.Context, cartID, productID string) (models.Cart, error) {
	if err := models.ValidateCartID(cartID); err != nil {
		return models.Cart{}, err
	}
	cart, err := s.repo.RemoveLine(ctx, cartID, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if cart.IsEmpty() {
		s.log.Debug("empty cart deleted", slog.String("cart_id", cartID))
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	if err := models.ValidateCartID(cartID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, cartID)
}
