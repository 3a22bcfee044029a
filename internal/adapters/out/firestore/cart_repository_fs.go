// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "techshop/internal/domain/cart"
)

// CartRepositoryFS persists the authenticated cart document.
//
// Collection design:
// - collection: carts
// - docId: uid (docId is the source of truth)
// - fields: items([]LineItem)
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

type cartDoc struct {
	Items []cartdom.LineItem `firestore:"items"`
}

// Get returns (nil, false, nil) when the document does not exist.
func (r *CartRepositoryFS) Get(ctx context.Context, uid string) ([]cartdom.LineItem, bool, error) {
	if r == nil || r.Client == nil {
		return nil, false, errors.New("cart_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, false, errors.New("cart_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, false, err
	}
	return doc.Items, true, nil
}

// EnsureExists creates an empty cart document when none exists yet, so the
// live subscription always has a target.
func (r *CartRepositoryFS) EnsureExists(ctx context.Context, uid string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.New("cart_repository_fs: uid is empty")
	}

	_, found, err := r.Get(ctx, uid)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = r.col().Doc(uid).Set(ctx, cartDoc{Items: []cartdom.LineItem{}})
	return err
}

// SetItems merge-writes the whole line list into the cart document.
func (r *CartRepositoryFS) SetItems(ctx context.Context, uid string, items []cartdom.LineItem) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.New("cart_repository_fs: uid is empty")
	}
	if items == nil {
		items = []cartdom.LineItem{}
	}

	_, err := r.col().Doc(uid).Set(ctx, map[string]any{"items": items}, firestore.MergeAll)
	return err
}

// Delete removes the cart document (account deletion path).
func (r *CartRepositoryFS) Delete(ctx context.Context, uid string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.New("cart_repository_fs: uid is empty")
	}
	_, err := r.col().Doc(uid).Delete(ctx)
	return err
}

// Watch opens the live subscription on the cart document and delivers the
// current line list to fn on every snapshot (empty when the document is
// missing). The returned release func stops the stream; it must be called
// when the identity changes or the owning scope ends.
func (r *CartRepositoryFS) Watch(ctx context.Context, uid string, fn func([]cartdom.LineItem)) (func(), error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: uid is empty")
	}

	ctx, cancel := context.WithCancel(ctx)
	iter := r.col().Doc(uid).Snapshots(ctx)

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("[cart_fs] watch uid=%s stopped: %v", uid, err)
				}
				return
			}
			if !snap.Exists() {
				fn([]cartdom.LineItem{})
				continue
			}
			var doc cartDoc
			if err := snap.DataTo(&doc); err != nil {
				log.Printf("[cart_fs] watch uid=%s: bad snapshot: %v", uid, err)
				continue
			}
			if doc.Items == nil {
				doc.Items = []cartdom.LineItem{}
			}
			fn(doc.Items)
		}
	}()

	return func() {
		cancel()
		iter.Stop()
	}, nil
}
