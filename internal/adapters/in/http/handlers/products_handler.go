// internal/adapters/in/http/handlers/products_handler.go
package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"techshop/internal/domain/product"
)

// ProductsHandler serves the static catalog under /products.
type ProductsHandler struct {
	catalog []product.Product
}

func NewProductsHandler(catalog []product.Product) http.Handler {
	return &ProductsHandler{catalog: catalog}
}

func (h *ProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Printf("[ProductsHandler] method=%s path=%s query=%s", r.Method, r.URL.Path, r.URL.RawQuery)

	switch {
	// GET /products?category=&minPrice=&maxPrice=&inStock=&onSale=
	case r.Method == http.MethodGet && (r.URL.Path == "/products" || r.URL.Path == "/products/"):
		h.list(w, r)

	// GET /products/{id}
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/products/")
		h.get(w, id)

	case strings.HasPrefix(r.URL.Path, "/products"):
		methodNotAllowed(w)

	default:
		notFound(w)
	}
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, product.FilterProducts(h.catalog, f))
}

func (h *ProductsHandler) get(w http.ResponseWriter, id string) {
	p, ok := product.FindByID(h.catalog, id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func parseFilter(r *http.Request) (product.Filter, error) {
	q := r.URL.Query()
	f := product.Filter{Category: strings.TrimSpace(q.Get("category"))}

	var err error
	if f.MinPrice, err = parsePrice(q.Get("minPrice")); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(q.Get("maxPrice")); err != nil {
		return f, err
	}
	f.InStockOnly = parseBool(q.Get("inStock"))
	f.OnSale = parseBool(q.Get("onSale"))
	return f, nil
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "1") || strings.EqualFold(s, "true")
}
