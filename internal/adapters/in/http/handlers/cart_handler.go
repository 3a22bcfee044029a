// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	cartapp "techshop/internal/application/cart"
	"techshop/internal/application/checkout"
	"techshop/internal/domain/product"
)

// CartHandler exposes the cart manager under /cart. Line items are added by
// product id against the catalog, mirroring the storefront's "add to cart"
// buttons.
type CartHandler struct {
	uc      *cartapp.Manager
	catalog []product.Product
}

func NewCartHandler(uc *cartapp.Manager, catalog []product.Product) http.Handler {
	return &CartHandler{uc: uc, catalog: catalog}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Printf("[CartHandler] method=%s path=%s", r.Method, r.URL.Path)

	switch {
	// GET /cart
	case r.Method == http.MethodGet && (r.URL.Path == "/cart" || r.URL.Path == "/cart/"):
		h.get(w)

	// POST /cart/items  body: { productId, quantity }
	case r.Method == http.MethodPost && r.URL.Path == "/cart/items":
		h.addItem(w, r)

	// PATCH /cart/items/{id}  body: { quantity }
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/cart/items/"):
		id := strings.TrimPrefix(r.URL.Path, "/cart/items/")
		h.updateItem(w, r, id)

	// DELETE /cart/items/{id}
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/cart/items/"):
		id := strings.TrimPrefix(r.URL.Path, "/cart/items/")
		h.removeItem(w, r, id)

	// DELETE /cart
	case r.Method == http.MethodDelete && (r.URL.Path == "/cart" || r.URL.Path == "/cart/"):
		h.clear(w, r)

	default:
		notFound(w)
	}
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) get(w http.ResponseWriter) {
	h.writeCart(w, http.StatusOK)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if !decodeBody(w, r, &req) {
		return
	}
	p, ok := product.FindByID(h.catalog, strings.TrimSpace(req.ProductID))
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if err := h.uc.AddToCart(r.Context(), p, qty); err != nil {
		writeDomainErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request, id string) {
	var req updateItemReq
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.uc.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		writeDomainErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.RemoveFromCart(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.ClearCart(r.Context()); err != nil {
		writeDomainErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, code int) {
	lines := h.uc.Lines()
	writeJSON(w, code, map[string]any{
		"items":   lines,
		"summary": checkout.Summarize(h.uc.Total()),
		"loading": h.uc.Loading(),
	})
}
