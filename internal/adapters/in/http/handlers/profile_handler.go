// internal/adapters/in/http/handlers/profile_handler.go
package handlers

import (
	"context"
	"io"
	"log"
	"net/http"

	"techshop/internal/domain/identity"
	"techshop/internal/domain/profile"
)

// Display caps for the profile page. Histories keep growing in the document;
// only the most recent slice is shown.
const (
	maxBrowsingShown  = 10
	maxPurchasesShown = 20
)

const maxAvatarBytes = 5 << 20

// SessionView is the slice of the session manager the profile page reads.
type SessionView interface {
	Identity() *identity.Identity
	UpdateProfile(ctx context.Context, patch identity.ProfilePatch) error
}

// ProfileReader loads the stored profile document.
type ProfileReader interface {
	Get(ctx context.Context, uid string) (*profile.Profile, error)
}

// AvatarUploader stores an avatar image and returns its public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, uid, filename, contentType string, src io.Reader) (string, error)
}

// ProfileHandler serves the account page data under /profile.
type ProfileHandler struct {
	session  SessionView
	profiles ProfileReader
	avatars  AvatarUploader
}

func NewProfileHandler(session SessionView, profiles ProfileReader, avatars AvatarUploader) http.Handler {
	return &ProfileHandler{session: session, profiles: profiles, avatars: avatars}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Printf("[ProfileHandler] method=%s path=%s", r.Method, r.URL.Path)

	switch {
	// GET /profile
	case r.Method == http.MethodGet && (r.URL.Path == "/profile" || r.URL.Path == "/profile/"):
		h.get(w, r)

	// POST /profile/avatar  multipart form, field "avatar"
	case r.Method == http.MethodPost && r.URL.Path == "/profile/avatar":
		h.uploadAvatar(w, r)

	default:
		notFound(w)
	}
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	id := h.session.Identity()
	if id == nil {
		writeDomainErr(w, identity.ErrNotSignedIn)
		return
	}

	doc, err := h.profiles.Get(r.Context(), id.UID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	body := map[string]any{
		"identity":        id,
		"browsingHistory": []profile.BrowsingEntry{},
		"purchaseHistory": []profile.Order{},
	}
	if doc != nil {
		body["createdAt"] = doc.CreatedAt
		body["browsingHistory"] = recentBrowsing(doc.BrowsingHistory, maxBrowsingShown)
		body["purchaseHistory"] = recentOrders(doc.PurchaseHistory, maxPurchasesShown)
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *ProfileHandler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	id := h.session.Identity()
	if id == nil {
		writeDomainErr(w, identity.ErrNotSignedIn)
		return
	}
	if h.avatars == nil {
		writeError(w, http.StatusNotImplemented, "avatar storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	url, err := h.avatars.Upload(r.Context(), id.UID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := h.session.UpdateProfile(r.Context(), identity.ProfilePatch{PhotoURL: &url}); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"photoUrl": url})
}

// recentBrowsing returns the newest max entries, newest first. Appends go to
// the end of the stored array.
func recentBrowsing(entries []profile.BrowsingEntry, max int) []profile.BrowsingEntry {
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	out := make([]profile.BrowsingEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out
}

func recentOrders(orders []profile.Order, max int) []profile.Order {
	if len(orders) > max {
		orders = orders[len(orders)-max:]
	}
	out := make([]profile.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		out = append(out, orders[i])
	}
	return out
}
