// internal/adapters/in/http/handlers/checkout_handler.go
package handlers

import (
	"log"
	"net/http"

	"techshop/internal/application/checkout"
)

// CheckoutHandler turns the current cart into an order.
type CheckoutHandler struct {
	uc *checkout.Usecase
}

func NewCheckoutHandler(uc *checkout.Usecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Printf("[CheckoutHandler] method=%s path=%s", r.Method, r.URL.Path)

	if r.URL.Path != "/checkout" && r.URL.Path != "/checkout/" {
		notFound(w)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	order, err := h.uc.PlaceOrder(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
