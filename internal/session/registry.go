package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/storeville/buyer-gateway/internal/auth"
	"github.com/storeville/buyer-gateway/internal/cart"
	"github.com/storeville/buyer-gateway/internal/checkout"
	"github.com/storeville/buyer-gateway/internal/snapshot"
)

// Session bundles the per-device state: one cart, one auth token, one
// checkout coordinator. Explicit objects, no ambient globals; tests build
// a fresh one per case.
type Session struct {
	ID       string
	Cart     *cart.Store
	Auth     *auth.Session
	Checkout *checkout.Coordinator
}

// Registry hands out sessions keyed by the buyer's cookie. A session ID it
// has never seen in memory (first visit, or gateway restart) is restored
// from the snapshot store, which is the gateway's page-reload semantics.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	snaps  snapshot.Store
	writer *snapshot.Writer
	api    checkout.OrderSubmitter
	events checkout.Publisher
}

func NewRegistry(snaps snapshot.Store, writer *snapshot.Writer, api checkout.OrderSubmitter, events checkout.Publisher) *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		snaps:    snaps,
		writer:   writer,
		api:      api,
		events:   events,
	}
}

func NewID() string { return uuid.NewString() }

func cartKey(id string) string  { return "cart:" + id }
func tokenKey(id string) string { return "token:" + id }

// Get returns the live session for id, restoring or creating it as needed.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := &Session{
		ID:       id,
		Cart:     cart.Restore(ctx, cartKey(id), r.snaps, r.writer),
		Auth:     auth.Restore(ctx, tokenKey(id), r.snaps, r.writer),
		Checkout: checkout.New(r.api, r.events),
	}
	r.sessions[id] = s
	return s
}
