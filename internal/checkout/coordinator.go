package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/storeville/buyer-gateway/internal/auth"
	"github.com/storeville/buyer-gateway/internal/backend"
	"github.com/storeville/buyer-gateway/internal/cart"
	"github.com/storeville/buyer-gateway/internal/catalog"
)

var (
	// ErrLoginRequired: caller redirects the buyer to the login flow.
	ErrLoginRequired = errors.New("login required")

	// ErrInFlight: a submission is already running for this session.
	// Double-clicks get rejected here instead of producing two orders.
	ErrInFlight = errors.New("order submission already in progress")
)

// ValidationError is a local rejection; no network call was made and no
// state changed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

const DefaultCity = "Addis Ababa"

// Draft is the buyer-entered shipping and payment form. Transient: it lives
// only for the duration of one PlaceOrder call.
type Draft struct {
	BuyerName     string `json:"buyer_name"`
	BuyerPhone    string `json:"buyer_phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PaymentMethod string `json:"payment_method"`
}

type Result struct {
	Reference string `json:"order_reference"`
}

// OrderSubmitter is the one backend call checkout needs.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, token string, req backend.OrderRequest) (backend.OrderResult, error)
}

// Publisher receives a notification after a confirmed submission.
type Publisher interface {
	OrderPlaced(reference, storeSlug, paymentMethod string, itemCount int)
}

// Coordinator turns a populated cart plus a draft into a submitted order.
// One per session; the in-flight guard is the only exclusion it needs.
type Coordinator struct {
	api      OrderSubmitter
	events   Publisher // optional
	inFlight atomic.Bool

	mu     sync.Mutex
	status Status
}

func New(api OrderSubmitter, events Publisher) *Coordinator {
	return &Coordinator{api: api, events: events, status: StatusIdle}
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coordinator) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// PlaceOrder runs one checkout attempt:
//
//	Validating -> LoginRequired | RejectedLocally | Submitting -> Succeeded | Failed
//
// Local rejections never touch the network. Only a confirmed success clears
// the cart; any failure leaves it intact for retry.
func (c *Coordinator) PlaceOrder(ctx context.Context, cs *cart.Store, sess *auth.Session, draft Draft, profile *catalog.StoreProfile) (Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer c.inFlight.Store(false)

	c.setStatus(StatusValidating)

	if !sess.IsAuthenticated() {
		c.setStatus(StatusLoginRequired)
		return Result{}, ErrLoginRequired
	}

	lines := cs.Lines()
	if verr := validate(lines, &draft, profile); verr != nil {
		c.setStatus(StatusRejected)
		return Result{}, verr
	}

	c.setStatus(StatusSubmitting)

	items := make([]backend.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, backend.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	req := backend.OrderRequest{
		Items:           items,
		BuyerName:       draft.BuyerName,
		BuyerPhone:      draft.BuyerPhone,
		ShippingAddress: draft.Address + ", " + draft.City,
		PaymentMethod:   draft.PaymentMethod,
	}

	res, err := c.api.SubmitOrder(ctx, sess.Token(), req)
	if err != nil {
		c.setStatus(StatusFailed)
		if errors.Is(err, backend.ErrUnauthorized) {
			// token ditolak backend = sesi tidak valid lagi
			sess.Logout()
			return Result{}, fmt.Errorf("%w: session expired", ErrLoginRequired)
		}
		return Result{}, err // cart untouched, buyer may retry
	}

	cs.Clear()
	if c.events != nil {
		c.events.OrderPlaced(res.Reference, profileSlug(profile), draft.PaymentMethod, len(items))
	}
	c.setStatus(StatusSucceeded)
	return Result{Reference: res.Reference}, nil
}

// validate normalizes the draft in place and rejects before any network
// call. Payment-method gating is the one real branch of business logic this
// side of the backend: non-COD methods need seller-configured account details.
func validate(lines []cart.Line, draft *Draft, profile *catalog.StoreProfile) error {
	if len(lines) == 0 {
		return &ValidationError{Reason: "cart is empty"}
	}
	if draft.BuyerName == "" {
		return &ValidationError{Reason: "buyer name is required"}
	}
	if draft.BuyerPhone == "" {
		return &ValidationError{Reason: "buyer phone is required"}
	}
	if draft.Address == "" {
		return &ValidationError{Reason: "delivery address is required"}
	}
	if draft.City == "" {
		draft.City = DefaultCity
	}
	if draft.PaymentMethod == "" {
		draft.PaymentMethod = catalog.PaymentMethodCOD
	}
	if !profile.HasPaymentAccount(draft.PaymentMethod) {
		return &ValidationError{Reason: fmt.Sprintf(
			"payment method %q has no account details configured for this store; choose another method or cash on delivery",
			draft.PaymentMethod)}
	}
	return nil
}

func profileSlug(p *catalog.StoreProfile) string {
	if p == nil {
		return ""
	}
	return p.Slug
}
