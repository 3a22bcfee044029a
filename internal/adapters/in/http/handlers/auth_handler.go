// internal/adapters/in/http/handlers/auth_handler.go
package handlers

import (
	"log"
	"net/http"

	session "techshop/internal/application/session"
	"techshop/internal/domain/identity"
)

// AuthHandler exposes the session manager under /auth.
type AuthHandler struct {
	uc *session.Manager
}

func NewAuthHandler(uc *session.Manager) http.Handler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Printf("[AuthHandler] method=%s path=%s", r.Method, r.URL.Path)

	switch {
	// POST /auth/signup  body: { email, password, displayName }
	case r.Method == http.MethodPost && r.URL.Path == "/auth/signup":
		h.signUp(w, r)

	// POST /auth/login  body: { email, password }
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		h.logIn(w, r)

	// POST /auth/logout
	case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
		h.logOut(w, r)

	// DELETE /auth/account
	case r.Method == http.MethodDelete && r.URL.Path == "/auth/account":
		h.deleteAccount(w, r)

	// PATCH /auth/profile  body: { displayName?, photoUrl? }
	case r.Method == http.MethodPatch && r.URL.Path == "/auth/profile":
		h.updateProfile(w, r)

	// GET /auth/me
	case r.Method == http.MethodGet && r.URL.Path == "/auth/me":
		h.me(w)

	default:
		notFound(w)
	}
}

type credentialsReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.uc.SignUp(r.Context(), req.Email, req.Password, req.DisplayName); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.meBody())
}

func (h *AuthHandler) logIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.uc.LogIn(r.Context(), req.Email, req.Password); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.meBody())
}

func (h *AuthHandler) logOut(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.LogOut(r.Context()); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (h *AuthHandler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteAccount(r.Context()); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type profilePatchReq struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoUrl"`
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profilePatchReq
	if !decodeBody(w, r, &req) {
		return
	}
	patch := identity.ProfilePatch{DisplayName: req.DisplayName, PhotoURL: req.PhotoURL}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "empty profile patch")
		return
	}
	if err := h.uc.UpdateProfile(r.Context(), patch); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.meBody())
}

func (h *AuthHandler) me(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, h.meBody())
}

func (h *AuthHandler) meBody() map[string]any {
	return map[string]any{
		"identity": h.uc.Identity(),
		"loading":  h.uc.Loading(),
	}
}
