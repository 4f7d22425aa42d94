package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product in a cart. Lines are unique by ProductID.
type CartLine struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is price x quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Total is the sum of price x quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for productID, if present.
func (c Cart) Line(productID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Clone returns a deep copy so snapshots survive later edits.
func (c Cart) Clone() Cart {
	out := c
	if c.Lines != nil {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}

// WithLine appends a new line, or adds quantity to the existing line for the
// same product. The price of an existing line is replaced by the new price.
func (c Cart) WithLine(line CartLine) Cart {
	out := c.Clone()
	for i, l := range out.Lines {
		if l.ProductID == line.ProductID {
			out.Lines[i].Quantity += line.Quantity
			out.Lines[i].Price = line.Price
			return out
		}
	}
	out.Lines = append(out.Lines, line)
	return out
}

// WithQuantity sets the quantity of an existing line. The second return value
// is false when the product is not in the cart.
func (c Cart) WithQuantity(productID string, quantity int) (Cart, bool) {
	out := c.Clone()
	for i, l := range out.Lines {
		if l.ProductID == productID {
			out.Lines[i].Quantity = quantity
			return out, true
		}
	}
	return out, false
}

// Without drops the line for productID. The second return value is false when
// the product is not in the cart.
func (c Cart) Without(productID string) (Cart, bool) {
	out := c.Clone()
	for i, l := range out.Lines {
		if l.ProductID == productID {
			out.Lines = append(out.Lines[:i], out.Lines[i+1:]...)
			return out, true
		}
	}
	return out, false
}

// CartResponse is the wire shape of a cart returned by the backend.
type CartResponse struct {
	ID        string          `json:"id"`
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func NewCartResponse(c Cart) CartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []CartLine{}
	}
	return CartResponse{
		ID:        c.ID,
		Lines:     lines,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		UpdatedAt: c.UpdatedAt,
	}
}

func (r CartResponse) Cart() Cart {
	return Cart{ID: r.ID, Lines: r.Lines, UpdatedAt: r.UpdatedAt}
}

type AddLineRequest struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}
