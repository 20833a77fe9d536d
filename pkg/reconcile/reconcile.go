// Package reconcile merges the local item map with a freshly fetched pair of
// remote sub-lists. The merge is additive and overwriting, never
// subtractive: remote truth wins for every item present in the pull, while
// local-only items (added locally but not yet confirmed by a remote fetch)
// are left in place until an explicit clear removes them.
package reconcile

import (
	"github.com/cartsync/cartsync/pkg/items"
)

// Result summarizes one merge pass.
type Result struct {
	// Items is the new unified local item map.
	Items map[string]items.Item

	// Added is the number of local ids the pull introduced.
	Added int

	// Updated is the number of existing entries the pull overwrote with a
	// different value.
	Updated int
}

// HasChanges reports whether the merge changed the map.
func (r *Result) HasChanges() bool {
	return r.Added > 0 || r.Updated > 0
}

// Merge produces the new local item map from the existing map and the remote
// pending and bought sub-lists. Remote items are resolved against the
// existing map so local identities survive re-syncs. Pending entries merge
// first and bought entries second: a remote item that somehow appears in
// both groups ends up bought.
func Merge(existing map[string]items.Item, pending, bought []items.RemoteItem) *Result {
	merged := make(map[string]items.Item, len(existing)+len(pending)+len(bought))
	for id, itm := range existing {
		merged[id] = itm
	}

	result := &Result{Items: merged}
	upsert(result, existing, pending, false)
	upsert(result, existing, bought, true)
	return result
}

// upsert resolves each remote item to a local id against the original map
// and overwrites the merged entry. Resolution deliberately runs against the
// pre-merge map: ids assigned during this pass must not capture unrelated
// remote items.
func upsert(result *Result, existing map[string]items.Item, remotes []items.RemoteItem, bought bool) {
	for _, remote := range remotes {
		id := items.ResolveLocalID(remote, existing)
		resolved := items.Item{
			Name:      remote.Name,
			ID:        id,
			GroceryID: remote.GroceryID,
			Bought:    bought,
			Amount:    remote.Amount,
		}
		prev, existed := result.Items[id]
		result.Items[id] = resolved
		if !existed {
			result.Added++
		} else if prev != resolved {
			result.Updated++
		}
	}
}
