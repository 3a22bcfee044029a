// internal/adapters/out/firestore/profile_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	profiledom "techshop/internal/domain/profile"
)

// ProfileRepositoryFS persists the per-user profile document.
//
// Collection design:
// - collection: users
// - docId: uid
// - fields: uid, email, displayName, createdAt, browsingHistory, purchaseHistory
//
// History lists grow append-only via ArrayUnion; nothing here ever rewrites
// them wholesale.
type ProfileRepositoryFS struct {
	Client *firestore.Client
}

func NewProfileRepositoryFS(client *firestore.Client) *ProfileRepositoryFS {
	return &ProfileRepositoryFS{Client: client}
}

func (r *ProfileRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

func (r *ProfileRepositoryFS) guard(uid string) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("profile_repository_fs: firestore client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", errors.New("profile_repository_fs: uid is empty")
	}
	return uid, nil
}

// Get returns (nil, nil) when no profile document exists.
func (r *ProfileRepositoryFS) Get(ctx context.Context, uid string) (*profiledom.Profile, error) {
	uid, err := r.guard(uid)
	if err != nil {
		return nil, err
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var p profiledom.Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	// docId is the source of truth even if the stored uid field drifts.
	p.UID = uid
	return &p, nil
}

// Create writes the full sign-up document.
func (r *ProfileRepositoryFS) Create(ctx context.Context, p profiledom.Profile) error {
	uid, err := r.guard(p.UID)
	if err != nil {
		return err
	}
	_, err = r.col().Doc(uid).Set(ctx, p)
	return err
}

// MergeDisplayName merge-writes only the displayName field, leaving the rest
// of the document untouched.
func (r *ProfileRepositoryFS) MergeDisplayName(ctx context.Context, uid, displayName string) error {
	uid, err := r.guard(uid)
	if err != nil {
		return err
	}
	_, err = r.col().Doc(uid).Set(ctx, map[string]any{"displayName": displayName}, firestore.MergeAll)
	return err
}

// AppendBrowsing appends one browsing-history entry.
func (r *ProfileRepositoryFS) AppendBrowsing(ctx context.Context, uid string, e profiledom.BrowsingEntry) error {
	uid, err := r.guard(uid)
	if err != nil {
		return err
	}
	_, err = r.col().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "browsingHistory", Value: firestore.ArrayUnion(e)},
	})
	return err
}

// AppendOrder appends one purchase-history record.
func (r *ProfileRepositoryFS) AppendOrder(ctx context.Context, uid string, o profiledom.Order) error {
	uid, err := r.guard(uid)
	if err != nil {
		return err
	}
	_, err = r.col().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "purchaseHistory", Value: firestore.ArrayUnion(o)},
	})
	return err
}

// Delete removes the profile document (account deletion path).
func (r *ProfileRepositoryFS) Delete(ctx context.Context, uid string) error {
	uid, err := r.guard(uid)
	if err != nil {
		return err
	}
	_, err = r.col().Doc(uid).Delete(ctx)
	return err
}
