package cart

import (
	"testing"

	"github.com/hivemart/hivemart-backend/pkg/localstore"
)

func TestManagerReturnsSameStorePerSession(t *testing.T) {
	t.Parallel()

	manager := NewManager(localstore.NewMemoryStore(), nil, nil)

	first := manager.ForSession("s1")
	second := manager.ForSession("s1")
	other := manager.ForSession("s2")

	if first != second {
		t.Fatal("same session must share one store")
	}
	if first == other {
		t.Fatal("different sessions must not share a store")
	}
}

func TestManagerDropKeepsPersistedSlot(t *testing.T) {
	t.Parallel()

	slots := localstore.NewMemoryStore()
	manager := NewManager(slots, nil, nil)

	store := manager.ForSession("s1")
	store.AddItem(honeyProduct(), nil, 2)

	manager.Drop("s1")

	reborn := manager.ForSession("s1")
	if reborn == store {
		t.Fatal("dropped session should get a fresh store")
	}
	if got := reborn.TotalItems(); got != 2 {
		t.Fatalf("persisted slot must survive drop, got %d items", got)
	}
}
