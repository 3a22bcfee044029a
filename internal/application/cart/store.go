// internal/application/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	cartdom "techshop/internal/domain/cart"
)

// guestCartKey is the fixed local device storage key for the guest cart blob.
const guestCartKey = "cart"

// store is the closed set of cart persistence targets. Exactly one is active
// at a time, selected per identity transition: guestStore (local device
// storage, write-through) or remoteStore (cart document + live subscription).
//
// open delivers the target's current lines through onLines at least once;
// mutate persists a new line list (and, for targets without a subscription,
// echoes it back through onLines); clear empties the target; release tears
// down any subscription.
type store interface {
	open(ctx context.Context, onLines func([]cartdom.LineItem)) error
	mutate(ctx context.Context, lines []cartdom.LineItem) error
	clear(ctx context.Context) error
	release()
}

// LocalStore is the local device storage port (localstore.FileStore).
type LocalStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// guestStore keeps the cart in local device storage: a single JSON blob that
// is rewritten on every mutation so the next guest session loads it back.
type guestStore struct {
	ls      LocalStore
	onLines func([]cartdom.LineItem)
}

func (s *guestStore) open(_ context.Context, onLines func([]cartdom.LineItem)) error {
	s.onLines = onLines

	lines := []cartdom.LineItem{}
	raw, ok, err := s.ls.Get(guestCartKey)
	if err != nil {
		return fmt.Errorf("guest cart: read failed: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			// Unparseable blob: start empty rather than wedging the cart.
			log.Printf("[cart] WARN: guest cart blob unparseable, starting empty: %v", err)
			lines = []cartdom.LineItem{}
		}
	}
	onLines(lines)
	return nil
}

func (s *guestStore) mutate(_ context.Context, lines []cartdom.LineItem) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("guest cart: encode failed: %w", err)
	}
	if err := s.ls.Set(guestCartKey, string(raw)); err != nil {
		return fmt.Errorf("guest cart: write failed: %w", err)
	}
	s.onLines(cartdom.Clone(lines))
	return nil
}

// clear removes the storage key entirely instead of writing an empty blob.
func (s *guestStore) clear(_ context.Context) error {
	if err := s.ls.Remove(guestCartKey); err != nil {
		return fmt.Errorf("guest cart: remove failed: %w", err)
	}
	s.onLines([]cartdom.LineItem{})
	return nil
}

func (s *guestStore) release() {}

// RemoteRepo is the cart-document port (firestore.CartRepositoryFS).
type RemoteRepo interface {
	EnsureExists(ctx context.Context, uid string) error
	SetItems(ctx context.Context, uid string, items []cartdom.LineItem) error
	Watch(ctx context.Context, uid string, fn func([]cartdom.LineItem)) (func(), error)
}

// remoteStore mirrors the per-user cart document. Lines flow back through the
// live subscription only; mutate never touches local state directly, so the
// document's own write ordering stays authoritative.
type remoteStore struct {
	repo      RemoteRepo
	uid       string
	releaseFn func()
}

func (s *remoteStore) open(ctx context.Context, onLines func([]cartdom.LineItem)) error {
	if err := s.repo.EnsureExists(ctx, s.uid); err != nil {
		return fmt.Errorf("%w: ensuring cart document: %v", cartdom.ErrSync, err)
	}
	release, err := s.repo.Watch(ctx, s.uid, onLines)
	if err != nil {
		return fmt.Errorf("%w: opening cart subscription: %v", cartdom.ErrSync, err)
	}
	s.releaseFn = release
	return nil
}

func (s *remoteStore) mutate(ctx context.Context, lines []cartdom.LineItem) error {
	if err := s.repo.SetItems(ctx, s.uid, lines); err != nil {
		return fmt.Errorf("%w: %v", cartdom.ErrSync, err)
	}
	return nil
}

func (s *remoteStore) clear(ctx context.Context) error {
	return s.mutate(ctx, []cartdom.LineItem{})
}

func (s *remoteStore) release() {
	if s.releaseFn != nil {
		s.releaseFn()
		s.releaseFn = nil
	}
}
