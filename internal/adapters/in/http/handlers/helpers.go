// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"techshop/internal/application/checkout"
	cartdom "techshop/internal/domain/cart"
	"techshop/internal/domain/identity"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

// writeDomainErr maps the domain sentinels onto HTTP status codes.
func writeDomainErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakCredential),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrEmptyCart):
		code = http.StatusBadRequest
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrNotSignedIn):
		code = http.StatusUnauthorized
	case errors.Is(err, identity.ErrEmailInUse):
		code = http.StatusConflict
	case errors.Is(err, identity.ErrTooManyAttempts):
		code = http.StatusTooManyRequests
	case errors.Is(err, cartdom.ErrSync):
		code = http.StatusBadGateway
	}
	writeError(w, code, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
