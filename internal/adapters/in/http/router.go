// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"techshop/internal/adapters/in/http/handlers"
	cartapp "techshop/internal/application/cart"
	"techshop/internal/application/checkout"
	session "techshop/internal/application/session"
	"techshop/internal/domain/product"
)

// RouterDeps collects everything the HTTP surface needs, injected from the
// composition root. Nil entries leave the corresponding routes unmounted, so
// the catalog still serves when the hosted backend is unreachable.
type RouterDeps struct {
	Catalog    []product.Product
	SessionUC  *session.Manager
	CartUC     *cartapp.Manager
	CheckoutUC *checkout.Usecase

	Profiles handlers.ProfileReader
	Avatars  handlers.AvatarUploader
}

// NewRouter sets up routing for the storefront API.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/products", handlers.NewProductsHandler(deps.Catalog))
	mux.Handle("/products/", handlers.NewProductsHandler(deps.Catalog))

	if deps.SessionUC != nil {
		mux.Handle("/auth/", handlers.NewAuthHandler(deps.SessionUC))
	}

	if deps.CartUC != nil {
		cart := handlers.NewCartHandler(deps.CartUC, deps.Catalog)
		mux.Handle("/cart", cart)
		mux.Handle("/cart/", cart)
	}

	if deps.CheckoutUC != nil {
		mux.Handle("/checkout", handlers.NewCheckoutHandler(deps.CheckoutUC))
	}

	if deps.SessionUC != nil && deps.Profiles != nil {
		prof := handlers.NewProfileHandler(deps.SessionUC, deps.Profiles, deps.Avatars)
		mux.Handle("/profile", prof)
		mux.Handle("/profile/", prof)
	}

	return mux
}
