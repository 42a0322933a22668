package cart

import (
	"context"
	"encoding/json"

	"github.com/hivemart/hivemart-backend/pkg/localstore"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

// LocalAdapter serializes the line-item list to a durable string-keyed slot.
// It has no knowledge of remote storage: it is a pure local cache and the
// sole source of truth across restarts.
type LocalAdapter struct {
	slots localstore.Store
	key   string
	logg  *logger.Logger
}

// NewLocalAdapter binds an adapter to one slot key.
func NewLocalAdapter(slots localstore.Store, key string, logg *logger.Logger) *LocalAdapter {
	return &LocalAdapter{slots: slots, key: key, logg: logg}
}

// Load reads and decodes the persisted line items. A missing slot yields an
// empty cart; a corrupt slot is logged and likewise yields an empty cart,
// never an error to the caller.
func (a *LocalAdapter) Load() []LineItem {
	raw, ok, err := a.slots.Get(a.key)
	if err != nil {
		a.warn("cart slot read failed", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		a.warn("cart slot corrupt, starting empty", err)
		return nil
	}
	return items
}

// Save overwrites the slot with the given line items.
func (a *LocalAdapter) Save(items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return a.slots.Set(a.key, string(raw))
}

func (a *LocalAdapter) warn(msg string, err error) {
	if a.logg == nil {
		return
	}
	ctx := a.logg.WithField(context.Background(), "slot_key", a.key)
	ctx = a.logg.WithField(ctx, "error", err.Error())
	a.logg.Warn(ctx, msg)
}
