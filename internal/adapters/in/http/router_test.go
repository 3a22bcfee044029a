package httpin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"techshop/internal/domain/product"
)

func TestRouter_Healthz(t *testing.T) {
	h := NewRouter(RouterDeps{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_CatalogAlwaysMounted(t *testing.T) {
	h := NewRouter(RouterDeps{Catalog: product.Catalog()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_BackendRoutesUnmountedWithoutDeps(t *testing.T) {
	h := NewRouter(RouterDeps{Catalog: product.Catalog()})
	for _, target := range []string{"/auth/me", "/cart", "/checkout", "/profile"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}
