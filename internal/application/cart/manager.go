// internal/application/cart/manager.go
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	cartdom "techshop/internal/domain/cart"
	"techshop/internal/domain/identity"
	"techshop/internal/domain/product"
	"techshop/internal/domain/profile"
)

// HistoryAppender records browsing-history entries on the profile document.
type HistoryAppender interface {
	AppendBrowsing(ctx context.Context, uid string, e profile.BrowsingEntry) error
}

// IdentityFeed is the session manager's identity-transition feed.
type IdentityFeed interface {
	SubscribeIdentity(fn func(*identity.Identity)) func()
}

// Manager owns the cart line items and their persistence. The target (guest
// local storage vs. remote document with live subscription) is re-selected on
// every identity transition; the two stores are never merged.
type Manager struct {
	remote  RemoteRepo
	local   LocalStore
	history HistoryAppender
	now     func() time.Time

	mu      sync.Mutex
	lines   []cartdom.LineItem
	loading bool
	st      store
	uid     string // "" = guest
	started bool
	unsub   func()
}

func NewManager(remote RemoteRepo, local LocalStore, history HistoryAppender) *Manager {
	return &Manager{
		remote:  remote,
		local:   local,
		history: history,
		now:     time.Now,
		loading: true,
	}
}

// WithNow overrides the clock (tests).
func (m *Manager) WithNow(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Bind attaches the manager to the identity feed. The first delivered value
// selects the initial persistence target; ctx bounds the lifetime of any
// remote subscription.
func (m *Manager) Bind(ctx context.Context, feed IdentityFeed) error {
	if m == nil || m.local == nil {
		return errors.New("cart: manager not configured")
	}
	if m.unsub != nil {
		return errors.New("cart: already bound")
	}
	m.unsub = feed.SubscribeIdentity(func(id *identity.Identity) {
		m.reinit(ctx, id)
	})
	return nil
}

// Close releases the identity subscription and any live cart subscription.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.mu.Lock()
	st := m.st
	m.st = nil
	m.mu.Unlock()
	if st != nil {
		st.release()
	}
}

// reinit tears down the previous target and re-derives lines from the new
// one. Identity updates that keep the same uid (e.g. a profile edit) do not
// re-initialize.
func (m *Manager) reinit(ctx context.Context, id *identity.Identity) {
	uid := ""
	if id != nil {
		uid = id.UID
	}

	m.mu.Lock()
	if m.started && m.uid == uid {
		m.mu.Unlock()
		return
	}
	old := m.st
	m.started = true
	m.uid = uid
	m.loading = true
	m.lines = []cartdom.LineItem{}

	var st store
	if uid == "" {
		st = &guestStore{ls: m.local}
	} else {
		st = &remoteStore{repo: m.remote, uid: uid}
	}
	m.st = st
	m.mu.Unlock()

	if old != nil {
		old.release()
	}

	err := st.open(ctx, func(lines []cartdom.LineItem) {
		m.mu.Lock()
		// Drop deliveries from a stale target after another transition.
		if m.st != st {
			m.mu.Unlock()
			return
		}
		m.lines = cartdom.Clone(lines)
		m.loading = false
		m.mu.Unlock()
	})
	if err != nil {
		log.Printf("[cart] WARN: initializing cart target (uid=%q): %v", uid, err)
		m.mu.Lock()
		if m.st == st {
			m.loading = false
		}
		m.mu.Unlock()
	}
}

// Lines returns a copy of the current line items.
func (m *Manager) Lines() []cartdom.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cartdom.Clone(m.lines)
}

// Total is the derived cart total, recomputed on every call.
func (m *Manager) Total() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cartdom.Total(m.lines)
}

// Loading reports whether the current target has delivered its first value.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) target() (store, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == nil {
		return nil, "", errors.New("cart: not initialized")
	}
	return m.st, m.uid, nil
}

// AddToCart merges qty of p into the cart and persists. When authenticated, a
// browsing-history entry is appended separately; its failure is logged and
// never fails the add.
func (m *Manager) AddToCart(ctx context.Context, p product.Product, qty int) error {
	st, uid, err := m.target()
	if err != nil {
		return err
	}

	m.mu.Lock()
	next, err := cartdom.Add(m.lines, p, qty)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if err := st.mutate(ctx, next); err != nil {
		return err
	}

	if uid != "" && m.history != nil {
		entry := profile.BrowsingEntry{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			ViewedAt:  m.now(),
		}
		if err := m.history.AppendBrowsing(ctx, uid, entry); err != nil {
			log.Printf("[cart] WARN: browsing-history append failed (uid=%s product=%s): %v", uid, p.ID, err)
		}
	}
	return nil
}

// RemoveFromCart drops the line with that product id, if present.
func (m *Manager) RemoveFromCart(ctx context.Context, id string) error {
	st, _, err := m.target()
	if err != nil {
		return err
	}

	m.mu.Lock()
	next := cartdom.Remove(m.lines, id)
	m.mu.Unlock()

	return st.mutate(ctx, next)
}

// UpdateQuantity sets a line's quantity. qty < 1 is a no-op: nothing is
// persisted, nothing is removed, no error. Removal only happens through
// RemoveFromCart.
func (m *Manager) UpdateQuantity(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		return nil
	}
	st, _, err := m.target()
	if err != nil {
		return err
	}

	m.mu.Lock()
	next := cartdom.SetQuantity(m.lines, id, qty)
	m.mu.Unlock()

	return st.mutate(ctx, next)
}

// ClearCart empties the cart: an empty line list on the remote document, or
// removal of the local storage key for guests.
func (m *Manager) ClearCart(ctx context.Context) error {
	st, _, err := m.target()
	if err != nil {
		return err
	}
	if err := st.clear(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.lines = []cartdom.LineItem{}
	m.mu.Unlock()
	return nil
}
