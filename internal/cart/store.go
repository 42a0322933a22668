package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hivemart/hivemart-backend/pkg/logger"
	"github.com/hivemart/hivemart-backend/pkg/metrics"
)

// Store holds the in-memory cart for one client session. Mutations are
// synchronous and atomic; every successful mutation is written through to the
// local adapter before the next caller observes the new state. The drawer
// visibility flag is held separately from the line items so data mutations
// can be exercised headlessly.
type Store struct {
	mu         sync.Mutex
	items      []LineItem
	version    uint64
	drawerOpen bool

	local   *LocalAdapter
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// StoreOptions configures a session cart store.
type StoreOptions struct {
	Local   *LocalAdapter
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// NewStore builds a store, rehydrating line items from the local adapter when
// one is provided. A corrupt or missing slot yields an empty cart.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		local:   opts.Local,
		logg:    opts.Logger,
		metrics: opts.Metrics,
	}
	if s.local != nil {
		s.items = s.local.Load()
	}
	return s
}

// AddItem merges quantity into the existing slot for (product, variant) or
// appends a new line item. Non-positive quantities default to 1.
func (s *Store) AddItem(product Product, variant *Variant, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	slot := SlotKey(product.ID, variantID(variant))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Slot() == slot {
			s.items[i].Quantity += quantity
			s.afterMutationLocked("add_item")
			return
		}
	}

	s.items = append(s.items, LineItem{Product: product, Variant: variant, Quantity: quantity})
	s.afterMutationLocked("add_item")
}

// RemoveItem deletes the line item for the given slot. Unknown slots are a
// no-op, not an error.
func (s *Store) RemoveItem(slot string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Slot() == slot {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.afterMutationLocked("remove_item")
			return
		}
	}
}

// UpdateQuantity replaces the quantity on the matching line item. A quantity
// of zero or below removes the item instead. Unknown slots are a no-op.
func (s *Store) UpdateQuantity(slot string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Slot() != slot {
			continue
		}
		if quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.afterMutationLocked("remove_item")
			return
		}
		s.items[i].Quantity = quantity
		s.afterMutationLocked("update_quantity")
		return
	}
}

// Clear empties all line items.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.afterMutationLocked("clear")
}

// Items returns a copy of the current line items.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// TotalItems is the sum of all line-item quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of each line item's discounted subtotal.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(Subtotal(item))
	}
	return total
}

// Snapshot returns the current items together with the version counter, for
// merge flows that must detect mutations made while a sync is in flight.
func (s *Store) Snapshot() ([]LineItem, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items), s.version
}

// Adopt replaces the cart contents only when the version still matches the
// snapshot the caller merged against. Returns false when a mutation raced in.
func (s *Store) Adopt(items []LineItem, expectVersion uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != expectVersion {
		return false
	}
	s.items = cloneItems(items)
	s.afterMutationLocked("adopt")
	return true
}

// Replace swaps in a new line-item list unconditionally.
func (s *Store) Replace(items []LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneItems(items)
	s.afterMutationLocked("replace")
}

// OpenDrawer marks the cart UI visible. Presentation state only.
func (s *Store) OpenDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = true
}

// CloseDrawer marks the cart UI hidden.
func (s *Store) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
}

// DrawerOpen reports the UI visibility flag.
func (s *Store) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// afterMutationLocked bumps the version and writes the new state through to
// the local slot. Persistence failures are logged, never surfaced: the
// in-memory cart stays authoritative.
func (s *Store) afterMutationLocked(op string) {
	s.version++
	s.metrics.IncMutation(op)

	if s.local == nil {
		return
	}
	if err := s.local.Save(s.items); err != nil && s.logg != nil {
		s.logg.Error(context.Background(), "cart write-through failed", err)
	}
}

func cloneItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
