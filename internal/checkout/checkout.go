// Package checkout runs the create-order-then-pay workflow for one session.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NV18Codes/khaddar-storefront/internal/api"
	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

type State string

const (
	StateEditing    State = "EDITING"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrSubmitInProgress = errors.New("checkout submission already in progress")
)

// OrdersAPI is the slice of the order API the flow needs.
type OrdersAPI interface {
	Create(ctx context.Context, draft domain.OrderDraft) (api.CreateOrderResult, error)
	Pay(ctx context.Context, orderID string) error
}

// CartStore is the slice of the session store the flow needs.
type CartStore interface {
	Cart(ctx context.Context, sid string) (domain.Cart, error)
	ClearCart(ctx context.Context, sid string) error
}

// Result describes a completed checkout.
type Result struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
}

// Flow is the checkout state machine for one session:
// Editing → Submitting → Succeeded | Failed. A failed flow is retryable and
// a retry reuses the attempt's idempotency key, so the server can collapse a
// second create-order after a payment failure into the existing order.
type Flow struct {
	mu         sync.Mutex
	state      State
	sid        string
	attemptKey string
	result     *Result

	orders OrdersAPI
	carts  CartStore
	log    *zap.Logger
}

func NewFlow(sid string, orders OrdersAPI, carts CartStore, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{
		state:  StateEditing,
		sid:    sid,
		orders: orders,
		carts:  carts,
		log:    log,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates the shipping form and, if it passes, runs the two
// dependent calls: create-order, then submit-payment for the returned id.
// Create-order failure aborts before any payment call. Payment failure after
// a successful create leaves the cart intact and the flow retryable. A
// Submit on an already succeeded flow returns the existing result without
// touching the network, which makes duplicate success handling harmless.
//
// The mutex is released while the store and order API calls are in flight:
// State() stays responsive and reports Submitting for the duration, and a
// concurrent Submit gets ErrSubmitInProgress instead of queueing up.
func (f *Flow) Submit(ctx context.Context, shipping domain.ShippingDetails) (*Result, error) {
	f.mu.Lock()

	switch f.state {
	case StateSucceeded:
		result := f.result
		f.mu.Unlock()
		return result, nil
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	if err := ValidateShipping(shipping); err != nil {
		f.state = StateEditing
		f.mu.Unlock()
		return nil, err
	}

	// One idempotency key per attempt. It survives a failure so the retry is
	// deduplicated server-side, and resets after success.
	if f.attemptKey == "" {
		f.attemptKey = uuid.NewString()
	}
	attemptKey := f.attemptKey
	prev := f.state
	f.state = StateSubmitting
	f.mu.Unlock()

	cart, err := f.carts.Cart(ctx, f.sid)
	if err != nil {
		f.setState(prev)
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		f.setState(StateEditing)
		return nil, ErrEmptyCart
	}

	draft := domain.NewOrderDraft(cart, shipping, attemptKey)

	created, err := f.orders.Create(ctx, draft)
	if err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := f.orders.Pay(ctx, created.OrderID); err != nil {
		// The order now exists server-side in a non-paid state. No
		// compensation is attempted here; the retry rides on the same
		// idempotency key.
		f.setState(StateFailed)
		f.log.Warn("payment failed after order creation",
			zap.String("order_id", created.OrderID), zap.Error(err))
		return nil, fmt.Errorf("pay order %s: %w", created.OrderID, err)
	}

	// Clearing is best-effort once the order is paid: failing the flow here
	// would re-run checkout for an order that already went through.
	if err := f.carts.ClearCart(ctx, f.sid); err != nil {
		f.log.Error("clear cart after successful checkout failed",
			zap.String("order_id", created.OrderID), zap.Error(err))
	}

	amount := created.Amount
	if amount == 0 {
		amount = draft.Total
	}

	f.mu.Lock()
	f.state = StateSucceeded
	f.result = &Result{OrderID: created.OrderID, Amount: amount}
	f.attemptKey = ""
	result := f.result
	f.mu.Unlock()
	return result, nil
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

const (
	sweepInterval = time.Minute
	flowTTL       = time.Hour
)

type registryEntry struct {
	flow     *Flow
	lastSeen time.Time
}

// Registry hands out one Flow per session. Flows idle for longer than
// flowTTL are swept; an evicted flow restarts in Editing, which only costs a
// stale Failed attempt its reused idempotency key.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	orders OrdersAPI
	carts  CartStore
	log    *zap.Logger

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

func NewRegistry(orders OrdersAPI, carts CartStore, log *zap.Logger) *Registry {
	r := &Registry{
		entries:   make(map[string]*registryEntry),
		orders:    orders,
		carts:     carts,
		log:       log,
		stopSweep: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.sweepLoop()

	return r
}

func (r *Registry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(time.Now())
		case <-r.stopSweep:
			return
		}
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, e := range r.entries {
		if now.Sub(e.lastSeen) <= flowTTL {
			continue
		}
		// never evict a flow with calls in flight
		if e.flow.State() == StateSubmitting {
			continue
		}
		delete(r.entries, sid)
	}
}

// Stop terminates the sweep goroutine.
func (r *Registry) Stop() {
	close(r.stopSweep)
	r.wg.Wait()
}

func (r *Registry) Flow(sid string) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sid]
	if !ok {
		e = &registryEntry{flow: NewFlow(sid, r.orders, r.carts, r.log)}
		r.entries[sid] = e
	}
	e.lastSeen = time.Now()
	return e.flow
}

// Forget drops the session's flow, typically on logout. A succeeded flow is
// also dropped when its session starts a fresh cart.
func (r *Registry) Forget(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sid)
}
