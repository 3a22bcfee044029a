// internal/adapters/out/firebaseauth/gateway.go
package firebaseauth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/mail"
	"strings"
	"sync"

	fbauth "firebase.google.com/go/v4/auth"

	"techshop/internal/domain/identity"
)

// sessionKey is the local device storage key holding the signed-in uid, so a
// restarted process reports the existing session on its first notification.
const sessionKey = "session"

// minPasswordLen mirrors the provider's own minimum.
const minPasswordLen = 6

// SessionStore is the slice of local device storage the gateway needs.
type SessionStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Gateway is the identity-provider client: principal lifecycle through the
// Admin SDK, password sign-in through the Identity Toolkit REST API, and the
// session-change notification feed the session manager subscribes to.
//
// The gateway owns the current principal; everyone else gets copies.
type Gateway struct {
	fb    *fbauth.Client
	rest  *identityToolkitClient
	store SessionStore

	mu      sync.Mutex
	current *identity.Principal
	started bool
	nextSub int
	subs    map[int]func(*identity.Principal)
}

// NewGateway wires the gateway. webAPIKey is the Firebase Web API key used by
// the REST sign-in endpoint.
func NewGateway(fb *fbauth.Client, store SessionStore, webAPIKey string) *Gateway {
	return &Gateway{
		fb:    fb,
		rest:  newIdentityToolkitClient("", webAPIKey),
		store: store,
		subs:  map[int]func(*identity.Principal){},
	}
}

type storedSession struct {
	UID string `json:"uid"`
}

// Start restores any persisted session and fires the first session-change
// notification (principal or none). Call once, before serving.
func (g *Gateway) Start(ctx context.Context) error {
	if g == nil || g.fb == nil || g.store == nil {
		return errors.New("firebaseauth: gateway not configured")
	}

	var p *identity.Principal
	if raw, ok, err := g.store.Get(sessionKey); err != nil {
		log.Printf("[auth] WARN: reading persisted session failed: %v", err)
	} else if ok {
		var s storedSession
		if err := json.Unmarshal([]byte(raw), &s); err != nil || strings.TrimSpace(s.UID) == "" {
			log.Printf("[auth] WARN: persisted session unparseable, discarding")
			_ = g.store.Remove(sessionKey)
		} else if rec, err := g.fb.GetUser(ctx, s.UID); err != nil {
			// Stale session (user deleted or unreachable): report none.
			log.Printf("[auth] persisted session for uid=%s not restorable: %v", s.UID, err)
			_ = g.store.Remove(sessionKey)
		} else {
			p = principalFromRecord(rec)
		}
	}

	g.mu.Lock()
	g.current = p
	g.started = true
	g.mu.Unlock()

	g.notify()
	return nil
}

// SubscribeSession registers fn on the session-change feed and returns its
// unsubscribe handle. If Start already ran, fn immediately receives the
// current state so late subscribers never miss the initial notification.
func (g *Gateway) SubscribeSession(fn func(*identity.Principal)) func() {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	started := g.started
	cur := copyPrincipal(g.current)
	g.mu.Unlock()

	if started {
		fn(cur)
	}
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// Current returns a copy of the signed-in principal, or nil.
func (g *Gateway) Current() *identity.Principal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyPrincipal(g.current)
}

// CreatePrincipal registers a new email+password principal, sets its display
// name, and establishes the session.
func (g *Gateway) CreatePrincipal(ctx context.Context, email, password, displayName string) (identity.Principal, error) {
	if g == nil || g.fb == nil {
		return identity.Principal{}, errors.New("firebaseauth: gateway not configured")
	}

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return identity.Principal{}, identity.ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return identity.Principal{}, identity.ErrWeakCredential
	}

	rec, err := g.fb.CreateUser(ctx, (&fbauth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return identity.Principal{}, identity.ErrEmailInUse
		}
		return identity.Principal{}, err
	}

	// Display name is a separate principal update, matching the provider's
	// create-then-update flow.
	if name := strings.TrimSpace(displayName); name != "" {
		if rec2, err := g.fb.UpdateUser(ctx, rec.UID, (&fbauth.UserToUpdate{}).DisplayName(name)); err != nil {
			log.Printf("[auth] WARN: setting display name for uid=%s failed: %v", rec.UID, err)
		} else {
			rec = rec2
		}
	}

	p := principalFromRecord(rec)
	g.establish(p)
	return *p, nil
}

// SignIn verifies the credentials and establishes the session. The caller is
// expected to react to the resulting session-change notification rather than
// to the return value.
func (g *Gateway) SignIn(ctx context.Context, email, password string) error {
	if g == nil || g.fb == nil {
		return errors.New("firebaseauth: gateway not configured")
	}

	uid, err := g.rest.signInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	rec, err := g.fb.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	g.establish(principalFromRecord(rec))
	return nil
}

// SignOut drops the session. Idempotent when no session is active.
func (g *Gateway) SignOut(ctx context.Context) error {
	if g == nil {
		return errors.New("firebaseauth: gateway not configured")
	}
	if err := g.store.Remove(sessionKey); err != nil {
		return errors.Join(identity.ErrSession, err)
	}

	g.mu.Lock()
	had := g.current != nil
	g.current = nil
	g.mu.Unlock()

	if had {
		g.notify()
	}
	return nil
}

// UpdatePrincipal applies the patch to the signed-in principal. The provider
// does not emit a session-change for profile updates; the session manager
// adjusts its in-memory identity itself.
func (g *Gateway) UpdatePrincipal(ctx context.Context, patch identity.ProfilePatch) error {
	if g == nil || g.fb == nil {
		return errors.New("firebaseauth: gateway not configured")
	}
	cur := g.Current()
	if cur == nil {
		return identity.ErrNotSignedIn
	}
	if patch.IsEmpty() {
		return nil
	}

	upd := &fbauth.UserToUpdate{}
	if patch.DisplayName != nil {
		upd = upd.DisplayName(*patch.DisplayName)
	}
	if patch.PhotoURL != nil {
		upd = upd.PhotoURL(*patch.PhotoURL)
	}
	rec, err := g.fb.UpdateUser(ctx, cur.UID, upd)
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.current != nil && g.current.UID == rec.UID {
		g.current = principalFromRecord(rec)
	}
	g.mu.Unlock()
	return nil
}

// DeletePrincipal removes the signed-in principal from the provider and drops
// the session.
func (g *Gateway) DeletePrincipal(ctx context.Context) error {
	if g == nil || g.fb == nil {
		return errors.New("firebaseauth: gateway not configured")
	}
	cur := g.Current()
	if cur == nil {
		return identity.ErrNotSignedIn
	}
	if err := g.fb.DeleteUser(ctx, cur.UID); err != nil {
		return err
	}

	_ = g.store.Remove(sessionKey)
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
	g.notify()
	return nil
}

// establish records p as the current session, persists it, and notifies.
func (g *Gateway) establish(p *identity.Principal) {
	if raw, err := json.Marshal(storedSession{UID: p.UID}); err == nil {
		if err := g.store.Set(sessionKey, string(raw)); err != nil {
			log.Printf("[auth] WARN: persisting session failed: %v", err)
		}
	}

	g.mu.Lock()
	g.current = p
	g.mu.Unlock()
	g.notify()
}

// notify delivers the current state to all subscribers. Callbacks run outside
// the gateway lock; each subscriber gets its own copy.
func (g *Gateway) notify() {
	g.mu.Lock()
	fns := make([]func(*identity.Principal), 0, len(g.subs))
	for _, fn := range g.subs {
		fns = append(fns, fn)
	}
	cur := g.current
	g.mu.Unlock()

	for _, fn := range fns {
		fn(copyPrincipal(cur))
	}
}

func principalFromRecord(rec *fbauth.UserRecord) *identity.Principal {
	if rec == nil {
		return nil
	}
	return &identity.Principal{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		PhotoURL:    rec.PhotoURL,
	}
}

func copyPrincipal(p *identity.Principal) *identity.Principal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
