// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"

	"techshop/internal/domain/product"
)

var (
	// ErrInvalidQuantity is returned when an add is attempted with qty < 1.
	ErrInvalidQuantity = errors.New("cart: quantity must be a positive integer")

	// ErrSync wraps remote persistence failures surfaced by the cart manager.
	ErrSync = errors.New("cart: sync failed")
)

// LineItem is one product-quantity pair in a cart.
// The product id is the line key: a cart never holds two lines for one product.
type LineItem struct {
	ID          string  `json:"id" firestore:"id"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description" firestore:"description"`
	Price       float64 `json:"price" firestore:"price"`
	Image       string  `json:"image" firestore:"image"`
	Quantity    int     `json:"quantity" firestore:"quantity"`
}

// Add merges qty of p into lines. An existing line for p.ID has its quantity
// incremented; otherwise a new line is appended. qty must be >= 1.
func Add(lines []LineItem, p product.Product, qty int) ([]LineItem, error) {
	if qty < 1 {
		return lines, ErrInvalidQuantity
	}
	if strings.TrimSpace(p.ID) == "" {
		return lines, errors.New("cart: product id is empty")
	}

	out := Clone(lines)
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity += qty
			return out, nil
		}
	}
	out = append(out, LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Quantity:    qty,
	})
	return out, nil
}

// SetQuantity sets the quantity of the line with the given product id.
// qty < 1 is a no-op: the line keeps its current quantity and is not removed
// (removal goes through Remove only). A missing id is also a no-op.
func SetQuantity(lines []LineItem, id string, qty int) []LineItem {
	if qty < 1 {
		return lines
	}
	out := Clone(lines)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = qty
			break
		}
	}
	return out
}

// Remove drops the line with the given product id, if present.
func Remove(lines []LineItem, id string) []LineItem {
	out := make([]LineItem, 0, len(lines))
	for _, ln := range lines {
		if ln.ID != id {
			out = append(out, ln)
		}
	}
	return out
}

// Total is the derived cart total: sum of price x quantity over all lines.
// It is recomputed on every call and never persisted.
func Total(lines []LineItem) float64 {
	var sum float64
	for _, ln := range lines {
		sum += ln.Price * float64(ln.Quantity)
	}
	return sum
}

// Clone returns an independent copy of lines (nil becomes an empty slice).
func Clone(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}
