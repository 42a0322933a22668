package cart

import "testing"

func TestNewRedisRemoteStoreRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisRemoteStore(nil, "hm:cart"); err == nil {
		t.Fatal("expected error for nil client")
	}
}
