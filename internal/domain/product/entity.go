// internal/domain/product/entity.go
package product

import "strings"

// Product is one catalog entry shown on the storefront.
// The catalog is a static in-memory list; there is no product persistence.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	InStock     bool    `json:"inStock"`
}

// Filter narrows the catalog. Zero values mean "no constraint".
type Filter struct {
	Category    string
	MinPrice    float64
	MaxPrice    float64
	InStockOnly bool
	OnSale      bool
}

// onSalePriceCeiling is the placeholder "on sale" rule carried over from the
// storefront UI: items under this price count as on sale.
const onSalePriceCeiling = 1000

// Apply reports whether p passes the filter.
func (f Filter) Apply(p Product) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.InStockOnly && !p.InStock {
		return false
	}
	if f.OnSale && p.Price >= onSalePriceCeiling {
		return false
	}
	return true
}

// FilterProducts returns the products passing f, preserving catalog order.
func FilterProducts(list []Product, f Filter) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if f.Apply(p) {
			out = append(out, p)
		}
	}
	return out
}

// FindByID returns (Product{}, false) when id is not in list.
func FindByID(list []Product, id string) (Product, bool) {
	id = strings.TrimSpace(id)
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
