package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value that no longer fits NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

// ValidateCartID checks that id is a UUID, the only identifier shape clients generate.
func ValidateCartID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCartID, id)
	}
	return nil
}

func ValidateQuantity(q int) error {
	if q < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}
	return nil
}

func ValidateLine(l CartLine) error {
	if strings.TrimSpace(l.ProductID) == "" {
		return ErrInvalidProduct
	}
	if err := ValidatePrice(l.Price); err != nil {
		return err
	}
	return ValidateQuantity(l.Quantity)
}

// ValidatePrice accepts non-negative amounts with at most two decimal places.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThanOrEqual(maxPrice) || !p.Equal(p.Round(2)) {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, p.String())
	}
	return nil
}
