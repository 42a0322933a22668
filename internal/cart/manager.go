package cart

import (
	"sync"

	"github.com/hivemart/hivemart-backend/pkg/localstore"
	"github.com/hivemart/hivemart-backend/pkg/logger"
	"github.com/hivemart/hivemart-backend/pkg/metrics"
)

const slotPrefix = "cart:"

// Manager owns one injectable Store per client session. Consumers receive a
// store by reference instead of reaching for an ambient singleton.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	slots   localstore.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewManager builds a session store registry over the local slot facility.
func NewManager(slots localstore.Store, logg *logger.Logger, m *metrics.CartMetrics) *Manager {
	return &Manager{
		stores:  map[string]*Store{},
		slots:   slots,
		logg:    logg,
		metrics: m,
	}
}

// ForSession returns the session's cart store, creating and rehydrating it
// from the session's local slot on first use.
func (m *Manager) ForSession(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store
	}

	store := NewStore(StoreOptions{
		Local:   NewLocalAdapter(m.slots, slotPrefix+sessionID, m.logg),
		Logger:  m.logg,
		Metrics: m.metrics,
	})
	m.stores[sessionID] = store
	return store
}

// Drop forgets the in-memory store for a session. The persisted slot is left
// intact so the cart survives a reconnect.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
