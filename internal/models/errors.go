package models

import "errors"

// Each sentinel's message doubles as its wire code in error responses.
var (
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrInvalidProduct     = errors.New("invalid_product")
	ErrInvalidCartID      = errors.New("invalid_cart_id")
	ErrCartNotFound       = errors.New("cart_not_found")
	ErrLineNotFound       = errors.New("line_not_found")
	ErrEmptyCart          = errors.New("empty_cart")
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrCustomerNotFound   = errors.New("customer_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrOrderNotFound      = errors.New("order_not_found")
)

var knownErrors = []error{
	ErrInvalidQuantity,
	ErrInvalidPrice,
	ErrInvalidProduct,
	ErrInvalidCartID,
	ErrCartNotFound,
	ErrLineNotFound,
	ErrEmptyCart,
	ErrInvalidCustomer,
	ErrCustomerNotFound,
	ErrEmailTaken,
	ErrInvalidCredentials,
	ErrInvalidStatus,
	ErrOrderNotFound,
}

// ErrorCode returns the wire code of the first known sentinel wrapped by err,
// or "internal_error".
func ErrorCode(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal_error"
}

// ErrorFromCode is the inverse of ErrorCode. Unknown codes return nil.
func ErrorFromCode(code string) error {
	for _, known := range knownErrors {
		if known.Error() == code {
			return known
		}
	}
	return nil
}
