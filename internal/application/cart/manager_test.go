package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "techshop/internal/domain/cart"
	"techshop/internal/domain/identity"
	"techshop/internal/domain/product"
	"techshop/internal/domain/profile"
)

// --- Fakes ---

type memLocal struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newMemLocal() *memLocal { return &memLocal{values: map[string]string{}} }

func (s *memLocal) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memLocal) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memLocal) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// fakeRemote is an in-memory cart-document store whose SetItems synchronously
// drives registered watchers, like a Firestore snapshot stream would.
type fakeRemote struct {
	mu       sync.Mutex
	docs     map[string][]cartdom.LineItem
	watchers map[string][]func([]cartdom.LineItem)
	setErr   error
	watchErr error
	setCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:     map[string][]cartdom.LineItem{},
		watchers: map[string][]func([]cartdom.LineItem){},
	}
}

func (r *fakeRemote) EnsureExists(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[uid]; !ok {
		r.docs[uid] = []cartdom.LineItem{}
	}
	return nil
}

func (r *fakeRemote) SetItems(_ context.Context, uid string, items []cartdom.LineItem) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.mu.Lock()
	r.docs[uid] = cartdom.Clone(items)
	fns := append([]func([]cartdom.LineItem){}, r.watchers[uid]...)
	r.setCalls++
	r.mu.Unlock()
	for _, fn := range fns {
		fn(cartdom.Clone(items))
	}
	return nil
}

func (r *fakeRemote) Watch(_ context.Context, uid string, fn func([]cartdom.LineItem)) (func(), error) {
	if r.watchErr != nil {
		return nil, r.watchErr
	}
	r.mu.Lock()
	r.watchers[uid] = append(r.watchers[uid], fn)
	cur := cartdom.Clone(r.docs[uid])
	r.mu.Unlock()

	fn(cur)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if fns := r.watchers[uid]; len(fns) > 0 {
			r.watchers[uid] = fns[:len(fns)-1]
		}
	}, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	entries []profile.BrowsingEntry
	err     error
}

func (h *fakeHistory) AppendBrowsing(_ context.Context, _ string, e profile.BrowsingEntry) error {
	if h.err != nil {
		return h.err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

type fakeFeed struct {
	mu   sync.Mutex
	subs []func(*identity.Identity)
}

func (f *fakeFeed) SubscribeIdentity(fn func(*identity.Identity)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeFeed) emit(id *identity.Identity) {
	f.mu.Lock()
	fns := append([]func(*identity.Identity){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

func testProduct(id string, price float64) product.Product {
	return product.Product{ID: id, Name: "Product " + id, Description: "desc", Price: price, Image: "img-" + id}
}

func newBoundManager(t *testing.T) (*Manager, *fakeRemote, *memLocal, *fakeHistory, *fakeFeed) {
	t.Helper()
	remote := newFakeRemote()
	local := newMemLocal()
	history := &fakeHistory{}
	feed := &fakeFeed{}
	m := NewManager(remote, local, history).WithNow(func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	})
	require.NoError(t, m.Bind(context.Background(), feed))
	return m, remote, local, history, feed
}

func guestBlob(t *testing.T, local *memLocal) []cartdom.LineItem {
	t.Helper()
	raw, ok, err := local.Get(guestCartKey)
	require.NoError(t, err)
	require.True(t, ok)
	var lines []cartdom.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))
	return lines
}

// --- Tests ---

func TestGuest_ScenarioAddMergeNoopRemove(t *testing.T) {
	m, _, _, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(nil)
	assert.False(t, m.Loading())

	p1 := testProduct("p1", 10)

	require.NoError(t, m.AddToCart(ctx, p1, 2))
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, 2, m.Lines()[0].Quantity)
	assert.Equal(t, 20.0, m.Total())

	require.NoError(t, m.AddToCart(ctx, p1, 1))
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, 3, m.Lines()[0].Quantity)
	assert.Equal(t, 30.0, m.Total())

	require.NoError(t, m.UpdateQuantity(ctx, "p1", 0))
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, 3, m.Lines()[0].Quantity)

	require.NoError(t, m.RemoveFromCart(ctx, "p1"))
	assert.Empty(t, m.Lines())
	assert.Equal(t, 0.0, m.Total())
}

func TestGuest_WriteThroughRoundTrip(t *testing.T) {
	m, _, local, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(nil)

	require.NoError(t, m.AddToCart(ctx, testProduct("p1", 10), 2))
	require.NoError(t, m.AddToCart(ctx, testProduct("p2", 5), 1))
	assert.Equal(t, m.Lines(), guestBlob(t, local))

	require.NoError(t, m.UpdateQuantity(ctx, "p2", 4))
	assert.Equal(t, m.Lines(), guestBlob(t, local))

	require.NoError(t, m.RemoveFromCart(ctx, "p1"))
	assert.Equal(t, m.Lines(), guestBlob(t, local))

	// a fresh manager over the same device storage reproduces the lines
	m2 := NewManager(newFakeRemote(), local, nil)
	feed2 := &fakeFeed{}
	require.NoError(t, m2.Bind(ctx, feed2))
	feed2.emit(nil)
	assert.Equal(t, m.Lines(), m2.Lines())
}

func TestGuest_ClearRemovesStorageKey(t *testing.T) {
	m, _, local, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(nil)

	require.NoError(t, m.AddToCart(ctx, testProduct("p1", 10), 1))
	_, ok, _ := local.Get(guestCartKey)
	require.True(t, ok)

	require.NoError(t, m.ClearCart(ctx))
	assert.Empty(t, m.Lines())
	_, ok, _ = local.Get(guestCartKey)
	assert.False(t, ok, "guest clear must remove the key, not write an empty blob")
}

func TestGuest_UnparseableBlobStartsEmpty(t *testing.T) {
	m, _, local, _, feed := newBoundManager(t)
	require.NoError(t, local.Set(guestCartKey, "{not json"))
	feed.emit(nil)

	assert.False(t, m.Loading())
	assert.Empty(t, m.Lines())
}

func TestSignIn_ReplacesGuestLinesWithRemote(t *testing.T) {
	m, remote, local, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(nil)

	require.NoError(t, m.AddToCart(ctx, testProduct("guest-item", 10), 1))
	remote.docs["u1"] = []cartdom.LineItem{{ID: "remote-item", Name: "Remote", Price: 42, Quantity: 2}}

	feed.emit(&identity.Identity{UID: "u1"})

	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "remote-item", lines[0].ID)
	assert.False(t, m.Loading())

	// never merged: remote doc does not grow the guest item, and the guest
	// blob is untouched for the next guest session
	assert.Len(t, remote.docs["u1"], 1)
	blob := guestBlob(t, local)
	require.Len(t, blob, 1)
	assert.Equal(t, "guest-item", blob[0].ID)
}

func TestAuth_MutationsFlowThroughSubscription(t *testing.T) {
	m, remote, _, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(&identity.Identity{UID: "u1"})

	require.NoError(t, m.AddToCart(ctx, testProduct("p1", 10), 2))
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, 2, m.Lines()[0].Quantity)
	assert.Equal(t, m.Lines(), remote.docs["u1"])

	require.NoError(t, m.UpdateQuantity(ctx, "p1", 5))
	assert.Equal(t, 5, m.Lines()[0].Quantity)

	require.NoError(t, m.ClearCart(ctx))
	assert.Empty(t, m.Lines())
	assert.Empty(t, remote.docs["u1"])
}

func TestAuth_EnsuresDocumentExists(t *testing.T) {
	m, remote, _, _, feed := newBoundManager(t)
	feed.emit(&identity.Identity{UID: "new-user"})

	_, ok := remote.docs["new-user"]
	assert.True(t, ok)
	assert.Empty(t, m.Lines())
	assert.False(t, m.Loading())
}

func TestAuth_AddAppendsBrowsingHistory(t *testing.T) {
	m, _, _, history, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(&identity.Identity{UID: "u1"})

	p := testProduct("p9", 99)
	require.NoError(t, m.AddToCart(ctx, p, 1))

	require.Len(t, history.entries, 1)
	assert.Equal(t, "p9", history.entries[0].ProductID)
	assert.Equal(t, p.Name, history.entries[0].Name)
	assert.Equal(t, p.Image, history.entries[0].Image)
	assert.False(t, history.entries[0].ViewedAt.IsZero())
}

func TestAuth_HistoryFailureDoesNotFailAdd(t *testing.T) {
	m, remote, _, history, feed := newBoundManager(t)
	ctx := context.Background()
	history.err = errors.New("history unavailable")
	feed.emit(&identity.Identity{UID: "u1"})

	require.NoError(t, m.AddToCart(ctx, testProduct("p1", 10), 1))
	assert.Len(t, remote.docs["u1"], 1)
}

func TestGuest_NoBrowsingHistory(t *testing.T) {
	m, _, _, history, feed := newBoundManager(t)
	feed.emit(nil)

	require.NoError(t, m.AddToCart(context.Background(), testProduct("p1", 10), 1))
	assert.Empty(t, history.entries)
}

func TestAuth_RemoteWriteFailureIsSyncError(t *testing.T) {
	m, remote, _, _, feed := newBoundManager(t)
	feed.emit(&identity.Identity{UID: "u1"})
	remote.setErr = errors.New("firestore unavailable")

	err := m.AddToCart(context.Background(), testProduct("p1", 10), 1)
	assert.ErrorIs(t, err, cartdom.ErrSync)
}

func TestSignOut_RestoresGuestLines(t *testing.T) {
	m, _, _, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(nil)
	require.NoError(t, m.AddToCart(ctx, testProduct("guest-item", 10), 3))

	feed.emit(&identity.Identity{UID: "u1"})
	assert.Empty(t, m.Lines())

	feed.emit(nil)
	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "guest-item", lines[0].ID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestIdentityChange_SwitchesTargets(t *testing.T) {
	m, remote, _, _, feed := newBoundManager(t)
	remote.docs["u1"] = []cartdom.LineItem{{ID: "a", Price: 1, Quantity: 1}}
	remote.docs["u2"] = []cartdom.LineItem{{ID: "b", Price: 2, Quantity: 2}}

	feed.emit(&identity.Identity{UID: "u1"})
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, "a", m.Lines()[0].ID)

	feed.emit(&identity.Identity{UID: "u2"})
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, "b", m.Lines()[0].ID)
}

func TestSameIdentityEmitDoesNotReinit(t *testing.T) {
	m, remote, _, _, feed := newBoundManager(t)
	ctx := context.Background()
	feed.emit(&identity.Identity{UID: "u1"})
	require.NoError(t, m.AddToCart(ctx, testProduct("p1", 10), 1))
	before := remote.setCalls

	// e.g. a display-name update rebroadcasts the same uid
	feed.emit(&identity.Identity{UID: "u1", DisplayName: "renamed"})
	assert.Equal(t, before, remote.setCalls)
	require.Len(t, m.Lines(), 1)
}

func TestMutationBeforeBindFails(t *testing.T) {
	m := NewManager(newFakeRemote(), newMemLocal(), nil)
	err := m.AddToCart(context.Background(), testProduct("p1", 10), 1)
	assert.Error(t, err)
}

func TestAdd_InvalidQuantity(t *testing.T) {
	m, _, _, _, feed := newBoundManager(t)
	feed.emit(nil)

	err := m.AddToCart(context.Background(), testProduct("p1", 10), 0)
	assert.ErrorIs(t, err, cartdom.ErrInvalidQuantity)
	assert.Empty(t, m.Lines())
}
