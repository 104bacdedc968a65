package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/storeville/buyer-gateway/internal/catalog"
	"github.com/storeville/buyer-gateway/internal/snapshot"
)

// Line is one product plus quantity in the buyer's in-progress order.
// Product is the snapshot taken at add time and never refreshed; the backend
// re-resolves price and stock at order submission.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Store holds the buyer's cart for one session. Mutations update memory
// synchronously and schedule a fire-and-forget snapshot write, so a read
// right after a mutation always sees the new state.
//
// Invariants: at most one line per product id, 1 <= qty <= snapshot stock,
// insertion order = display order.
type Store struct {
	mu     sync.Mutex
	lines  []Line
	key    string
	writer *snapshot.Writer
}

// Restore loads a previously persisted cart. Absent or malformed snapshots
// yield an empty cart; the cart is convenience state, never worth an error.
func Restore(ctx context.Context, key string, snaps snapshot.Store, writer *snapshot.Writer) *Store {
	s := &Store{key: key, writer: writer}
	b, err := snaps.Load(ctx, key)
	if err != nil {
		return s
	}
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return s // corrupt snapshot = start fresh
	}
	for _, l := range lines {
		if l.Product.ID == 0 || l.Quantity < 1 || l.Quantity > l.Product.Stock {
			return &Store{key: key, writer: writer}
		}
	}
	s.lines = lines
	return s
}

func (s *Store) AddItem(p catalog.Product, qty int) {
	if p.Stock < 1 {
		return // nothing to sell, silently ignore
	}
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID {
			s.lines[i].Quantity = clamp(s.lines[i].Quantity+qty, 1, s.lines[i].Product.Stock)
			s.persistLocked()
			return
		}
	}
	s.lines = append(s.lines, Line{Product: p, Quantity: clamp(qty, 1, p.Stock)})
	s.persistLocked()
}

func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persistLocked()
			return
		}
	}
	// absent = no-op, bukan error
}

// UpdateQuantity sets the quantity for a product already in the cart.
// qty < 1 behaves as RemoveItem, matching the "set to zero" UI control.
func (s *Store) UpdateQuantity(productID int64, qty int) {
	if qty < 1 {
		s.RemoveItem(productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines[i].Quantity = clamp(qty, 1, s.lines[i].Product.Stock)
			s.persistLocked()
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persistLocked()
}

// Lines returns a copy in display order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Subtotal is recomputed on every call, never cached. A price string that
// fails to parse contributes zero: display data, fail open.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		price, err := decimal.NewFromString(l.Product.Price)
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// persistLocked enqueues the current snapshot; caller holds s.mu.
func (s *Store) persistLocked() {
	if s.writer == nil {
		return
	}
	b, err := json.Marshal(s.lines)
	if err != nil {
		return
	}
	s.writer.Enqueue(s.key, b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
