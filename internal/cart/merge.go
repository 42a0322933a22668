package cart

import "time"

// RemoteCart is the payload shape held per identity in the remote store. The
// items are the same line-item shape the local slot persists.
type RemoteCart struct {
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Merge reconciles a locally held cart with a remotely stored one. The map is
// seeded with remote items first; local items then overlay it. A slot present
// on both sides keeps one line item with the quantities summed, so neither
// side's additions are silently discarded. Slots unique to either side carry
// through unchanged.
//
// Order is deterministic: remote items in their original order, then local
// items that introduced new slots, in theirs.
func Merge(local, remote []LineItem) []LineItem {
	merged := make([]LineItem, 0, len(local)+len(remote))
	index := make(map[string]int, len(remote))

	for _, item := range remote {
		index[item.Slot()] = len(merged)
		merged = append(merged, item)
	}

	for _, item := range local {
		if at, ok := index[item.Slot()]; ok {
			merged[at].Quantity += item.Quantity
			continue
		}
		index[item.Slot()] = len(merged)
		merged = append(merged, item)
	}

	return merged
}
