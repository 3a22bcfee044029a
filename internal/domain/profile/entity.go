// internal/domain/profile/entity.go
package profile

import (
	"time"

	"techshop/internal/domain/cart"
	"techshop/internal/domain/identity"
)

// Profile is the per-user document stored under users/{uid}. It augments the
// identity-provider principal with a creation timestamp and the two
// append-only history lists.
type Profile struct {
	UID             string          `json:"uid" firestore:"uid"`
	Email           string          `json:"email" firestore:"email"`
	DisplayName     string          `json:"displayName" firestore:"displayName"`
	CreatedAt       time.Time       `json:"createdAt" firestore:"createdAt"`
	BrowsingHistory []BrowsingEntry `json:"browsingHistory" firestore:"browsingHistory"`
	PurchaseHistory []Order         `json:"purchaseHistory" firestore:"purchaseHistory"`
}

// BrowsingEntry records one product view. Entries are append-only; nothing
// reads them back into the cart.
type BrowsingEntry struct {
	ProductID string    `json:"productId" firestore:"productId"`
	Name      string    `json:"name" firestore:"name"`
	Image     string    `json:"image" firestore:"image"`
	ViewedAt  time.Time `json:"viewedAt" firestore:"viewedAt"`
}

// Order is one purchase-history record, written once at checkout.
type Order struct {
	OrderID string      `json:"orderId" firestore:"orderId"`
	Date    time.Time   `json:"date" firestore:"date"`
	Total   float64     `json:"total" firestore:"total"`
	Items   []OrderItem `json:"items" firestore:"items"`
	Status  string      `json:"status" firestore:"status"`
}

// OrderItem is a line snapshot frozen into an order.
type OrderItem struct {
	ID       string  `json:"id" firestore:"id"`
	Name     string  `json:"name" firestore:"name"`
	Price    float64 `json:"price" firestore:"price"`
	Quantity int     `json:"quantity" firestore:"quantity"`
	Image    string  `json:"image" firestore:"image"`
}

// StatusProcessing is the initial status of every new order.
const StatusProcessing = "processing"

// New builds the sign-up profile document: principal fields, the chosen
// display name, and empty history lists.
func New(p identity.Principal, displayName string, now time.Time) Profile {
	return Profile{
		UID:             p.UID,
		Email:           p.Email,
		DisplayName:     displayName,
		CreatedAt:       now,
		BrowsingHistory: []BrowsingEntry{},
		PurchaseHistory: []Order{},
	}
}

// Stored returns the merge view of the profile for identity.Merge.
func (p *Profile) Stored() *identity.StoredProfile {
	if p == nil {
		return nil
	}
	return &identity.StoredProfile{
		Email:       p.Email,
		DisplayName: p.DisplayName,
	}
}

// OrderItemsFromLines freezes cart lines into order items.
func OrderItemsFromLines(lines []cart.LineItem) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, OrderItem{
			ID:       ln.ID,
			Name:     ln.Name,
			Price:    ln.Price,
			Quantity: ln.Quantity,
			Image:    ln.Image,
		})
	}
	return items
}
