// internal/domain/identity/entity.go
package identity

import "strings"

// Identity is the signed-in principal as held in memory by the session
// manager: backend-reported session fields overlaid by the stored profile
// document. The presentation layer only ever sees copies.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Principal carries the fields the identity provider reports for a session.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// StoredProfile is the subset of the profile document that participates in
// the identity merge.
type StoredProfile struct {
	Email       string
	DisplayName string
	PhotoURL    string
}

// Merge builds the in-memory Identity from the backend principal and the
// stored profile document. Stored fields win on conflict; profile may be nil
// (no document yet), in which case the principal fields stand alone.
//
// This is the single merge point: it is applied at startup and on every
// session-change notification, never re-implemented at call sites.
func Merge(p Principal, profile *StoredProfile) Identity {
	id := Identity{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
	if profile == nil {
		return id
	}
	if v := strings.TrimSpace(profile.Email); v != "" {
		id.Email = v
	}
	if v := strings.TrimSpace(profile.DisplayName); v != "" {
		id.DisplayName = v
	}
	if v := strings.TrimSpace(profile.PhotoURL); v != "" {
		id.PhotoURL = v
	}
	return id
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	DisplayName *string
	PhotoURL    *string
}

// IsEmpty reports whether the patch carries no fields.
func (p ProfilePatch) IsEmpty() bool {
	return p.DisplayName == nil && p.PhotoURL == nil
}

// ApplyTo shallow-merges the patch over id and returns the result.
func (p ProfilePatch) ApplyTo(id Identity) Identity {
	if p.DisplayName != nil {
		id.DisplayName = *p.DisplayName
	}
	if p.PhotoURL != nil {
		id.PhotoURL = *p.PhotoURL
	}
	return id
}
