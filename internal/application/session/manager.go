// internal/application/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"techshop/internal/domain/identity"
	"techshop/internal/domain/profile"
)

// AuthGateway is the identity-provider port (firebaseauth.Gateway).
type AuthGateway interface {
	CreatePrincipal(ctx context.Context, email, password, displayName string) (identity.Principal, error)
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	UpdatePrincipal(ctx context.Context, patch identity.ProfilePatch) error
	DeletePrincipal(ctx context.Context) error
	SubscribeSession(fn func(*identity.Principal)) func()
}

// ProfileRepo is the slice of the profile repository the session manager uses.
type ProfileRepo interface {
	Get(ctx context.Context, uid string) (*profile.Profile, error)
	Create(ctx context.Context, p profile.Profile) error
	MergeDisplayName(ctx context.Context, uid, displayName string) error
	Delete(ctx context.Context, uid string) error
}

// CartDocDeleter removes the remote cart document during account deletion.
type CartDocDeleter interface {
	Delete(ctx context.Context, uid string) error
}

// Manager owns the authenticated-identity lifecycle: the current identity (or
// none), the loading flag, and the sign-up/in/out, delete-account and
// update-profile operations. It holds the process's single subscription to
// the provider's session-change notifications.
type Manager struct {
	gw       AuthGateway
	profiles ProfileRepo
	carts    CartDocDeleter
	now      func() time.Time

	mu       sync.Mutex
	identity *identity.Identity
	loading  bool
	nextSub  int
	subs     map[int]func(*identity.Identity)
	unsub    func()
}

func NewManager(gw AuthGateway, profiles ProfileRepo, carts CartDocDeleter) *Manager {
	return &Manager{
		gw:       gw,
		profiles: profiles,
		carts:    carts,
		now:      time.Now,
		loading:  true,
		subs:     map[int]func(*identity.Identity){},
	}
}

// WithNow overrides the clock (tests).
func (m *Manager) WithNow(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Start registers the single session-change subscription for the manager's
// lifetime. The gateway guarantees one notification up front, so loading
// clears as soon as the initial session state is known.
func (m *Manager) Start(ctx context.Context) error {
	if m == nil || m.gw == nil || m.profiles == nil {
		return errors.New("session: manager not configured")
	}
	if m.unsub != nil {
		return errors.New("session: already started")
	}
	m.unsub = m.gw.SubscribeSession(func(p *identity.Principal) {
		m.onSessionChange(ctx, p)
	})
	return nil
}

// Close releases the session subscription.
func (m *Manager) Close() {
	if m == nil || m.unsub == nil {
		return
	}
	m.unsub()
	m.unsub = nil
}

// onSessionChange mirrors the provider's session into local state: merge with
// the stored profile when signed in, absent otherwise. Loading always clears
// once the notification is processed.
func (m *Manager) onSessionChange(ctx context.Context, p *identity.Principal) {
	var next *identity.Identity
	if p != nil {
		var stored *identity.StoredProfile
		prof, err := m.profiles.Get(ctx, p.UID)
		if err != nil {
			// The provider session stands even if the profile read failed;
			// fall back to the principal fields alone.
			log.Printf("[session] WARN: profile fetch for uid=%s failed: %v", p.UID, err)
		} else {
			stored = prof.Stored()
		}
		id := identity.Merge(*p, stored)
		next = &id
	}

	m.mu.Lock()
	m.identity = next
	m.loading = false
	m.mu.Unlock()

	m.broadcast()
}

// Identity returns a copy of the current identity, or nil when signed out.
func (m *Manager) Identity() *identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	cp := *m.identity
	return &cp
}

// Loading reports whether an operation (or the initial notification) is in
// flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// SubscribeIdentity feeds every identity transition to fn (nil = signed out)
// and returns the unsubscribe handle. The cart manager uses this to pick its
// persistence target.
func (m *Manager) SubscribeIdentity(fn func(*identity.Identity)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) broadcast() {
	m.mu.Lock()
	fns := make([]func(*identity.Identity), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	cur := m.identity
	m.mu.Unlock()

	for _, fn := range fns {
		if cur == nil {
			fn(nil)
		} else {
			cp := *cur
			fn(&cp)
		}
	}
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

// SignUp creates the principal, writes the initial profile document (empty
// history lists), and sets the merged identity. Navigation is the caller's
// concern.
func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	p, err := m.gw.CreatePrincipal(ctx, email, password, displayName)
	if err != nil {
		return err
	}

	prof := profile.New(p, displayName, m.now())
	if err := m.profiles.Create(ctx, prof); err != nil {
		return fmt.Errorf("session: creating profile document: %w", err)
	}

	id := identity.Merge(p, prof.Stored())
	m.mu.Lock()
	m.identity = &id
	m.mu.Unlock()
	m.broadcast()
	return nil
}

// LogIn verifies the credentials. On success the identity is populated by the
// session-change notification, never here, so the merge logic stays in one
// place.
func (m *Manager) LogIn(ctx context.Context, email, password string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	return m.gw.SignIn(ctx, email, password)
}

// LogOut drops the session. Idempotent with no active session; on success the
// identity is cleared directly rather than waiting for the notification.
func (m *Manager) LogOut(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.gw.SignOut(ctx); err != nil {
		return errors.Join(identity.ErrSession, err)
	}

	m.mu.Lock()
	m.identity = nil
	m.mu.Unlock()
	m.broadcast()
	return nil
}

// DeleteAccount removes the profile document, the remote cart document, and
// the principal, in that order. The first failure stops the sequence; there
// is no compensation, so partial deletion is an observable outcome.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	cur := m.Identity()
	if cur == nil {
		return nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.profiles.Delete(ctx, cur.UID); err != nil {
		return errors.Join(identity.ErrDeletion, fmt.Errorf("deleting profile document: %w", err))
	}
	if m.carts != nil {
		if err := m.carts.Delete(ctx, cur.UID); err != nil {
			return errors.Join(identity.ErrDeletion, fmt.Errorf("deleting cart document: %w", err))
		}
	}
	if err := m.gw.DeletePrincipal(ctx); err != nil {
		return errors.Join(identity.ErrDeletion, fmt.Errorf("deleting principal: %w", err))
	}

	m.mu.Lock()
	m.identity = nil
	m.mu.Unlock()
	m.broadcast()
	return nil
}

// UpdateProfile applies the patch to the backend principal, merges a changed
// display name into the profile document, and shallow-merges the patch over
// the in-memory identity. No-op when signed out.
func (m *Manager) UpdateProfile(ctx context.Context, patch identity.ProfilePatch) error {
	cur := m.Identity()
	if cur == nil {
		return nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.gw.UpdatePrincipal(ctx, patch); err != nil {
		return err
	}
	if patch.DisplayName != nil {
		if err := m.profiles.MergeDisplayName(ctx, cur.UID, *patch.DisplayName); err != nil {
			return fmt.Errorf("session: merging display name: %w", err)
		}
	}

	m.mu.Lock()
	if m.identity != nil {
		id := patch.ApplyTo(*m.identity)
		m.identity = &id
	}
	m.mu.Unlock()
	m.broadcast()
	return nil
}
