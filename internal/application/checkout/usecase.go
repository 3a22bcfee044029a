// internal/application/checkout/usecase.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	cartdom "techshop/internal/domain/cart"
	"techshop/internal/domain/identity"
	"techshop/internal/domain/profile"
)

// Pricing constants carried over from the storefront's order summary.
const (
	freeShippingThreshold = 100.0
	flatShipping          = 10.0
	taxRate               = 0.08
)

var ErrEmptyCart = errors.New("checkout: cart is empty")

// SessionView is the slice of the session manager checkout reads.
type SessionView interface {
	Identity() *identity.Identity
}

// CartView is the slice of the cart manager checkout drives.
type CartView interface {
	Lines() []cartdom.LineItem
	Total() float64
	ClearCart(ctx context.Context) error
}

// OrderAppender writes the order into the profile's purchase history.
type OrderAppender interface {
	AppendOrder(ctx context.Context, uid string, o profile.Order) error
}

// Mailer sends the order confirmation. Optional; failures never fail the
// order.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Usecase places orders: it requires an active identity, freezes the cart
// into a purchase-history record, then clears the cart. There is no rollback
// between the two writes; if the clear fails the order stands with the cart
// left non-empty.
type Usecase struct {
	session  SessionView
	cart     CartView
	profiles OrderAppender
	mailer   Mailer
	mailFrom string
	now      func() time.Time
	orderID  func() string
}

func NewUsecase(session SessionView, cart CartView, profiles OrderAppender, mailer Mailer, mailFrom string) *Usecase {
	return &Usecase{
		session:  session,
		cart:     cart,
		profiles: profiles,
		mailer:   mailer,
		mailFrom: mailFrom,
		now:      time.Now,
		orderID:  func() string { return "ORD-" + uuid.NewString() },
	}
}

// WithNow overrides the clock (tests).
func (u *Usecase) WithNow(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// WithOrderID overrides order-id generation (tests).
func (u *Usecase) WithOrderID(gen func() string) *Usecase {
	u.orderID = gen
	return u
}

// Summary is the order breakdown shown before and after checkout.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Summarize prices the given subtotal: free shipping over the threshold, flat
// rate under it, plus tax.
func Summarize(subtotal float64) Summary {
	shipping := flatShipping
	if subtotal > freeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * taxRate
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

// PlaceOrder runs the checkout flow and returns the recorded order.
// identity.ErrNotSignedIn is returned before anything is written; the caller
// redirects to sign-in.
func (u *Usecase) PlaceOrder(ctx context.Context) (*profile.Order, error) {
	id := u.session.Identity()
	if id == nil {
		return nil, identity.ErrNotSignedIn
	}

	lines := u.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	sum := Summarize(u.cart.Total())
	order := profile.Order{
		OrderID: u.orderID(),
		Date:    u.now(),
		Total:   sum.Total,
		Items:   profile.OrderItemsFromLines(lines),
		Status:  profile.StatusProcessing,
	}

	if err := u.profiles.AppendOrder(ctx, id.UID, order); err != nil {
		return nil, fmt.Errorf("checkout: recording order: %w", err)
	}

	if err := u.cart.ClearCart(ctx); err != nil {
		// Order is recorded; the cart is left non-empty. Known asymmetry.
		log.Printf("[checkout] WARN: order %s recorded but cart clear failed: %v", order.OrderID, err)
	}

	u.sendConfirmation(ctx, id, order, sum)
	return &order, nil
}

// sendConfirmation mails the receipt; fire-and-forget.
func (u *Usecase) sendConfirmation(ctx context.Context, id *identity.Identity, order profile.Order, sum Summary) {
	if u.mailer == nil || id.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Order %s placed on %s\n\nSubtotal: $%.2f\nShipping: $%.2f\nTax: $%.2f\nTotal: $%.2f\n\nStatus: %s\n",
		order.OrderID, order.Date.Format(time.RFC1123),
		sum.Subtotal, sum.Shipping, sum.Tax, sum.Total, order.Status,
	)
	if err := u.mailer.Send(ctx, u.mailFrom, id.Email, "Your TechShop order "+order.OrderID, body); err != nil {
		log.Printf("[checkout] WARN: confirmation mail for %s failed: %v", order.OrderID, err)
	}
}
