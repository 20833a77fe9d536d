// Package list implements the authoritative local shopping list: an
// in-memory item map owned exclusively by the Store, kept in sync with the
// remote provider after every mutation and persisted through an opaque blob
// store.
//
// Every mutating operation follows the same sequence: apply the local
// change, push the corresponding state to the remote (fire-and-forget),
// pull remote truth back in through a reconciliation pass, then persist.
// Remote truth wins for items present in a pull; local-only items survive
// until an explicit clear removes them.
package list

import (
	"context"
	"sort"
	"sync"

	"github.com/cartsync/cartsync/internal/storage"
	"github.com/cartsync/cartsync/pkg/errors"
	"github.com/cartsync/cartsync/pkg/items"
	"github.com/cartsync/cartsync/pkg/logging"
	"github.com/cartsync/cartsync/pkg/reconcile"
)

// Remote is the subset of provider operations the store drives. Satisfied
// by *grosh.Client; faked in tests.
type Remote interface {
	// SelectList makes the named remote list active for subsequent calls.
	SelectList(ctx context.Context, name string) error

	// FetchItems returns the active list partitioned into pending and bought.
	FetchItems(ctx context.Context) (pending, bought []items.RemoteItem, err error)

	// Purchase pushes an item onto the remote pending list.
	Purchase(ctx context.Context, item items.Item) error

	// Bought marks an item bought remotely.
	Bought(ctx context.Context, item items.Item) error

	// Remove removes an item from the remote list entirely.
	Remove(ctx context.Context, item items.Item) error
}

// Store owns the local item map. A per-store mutex serializes each
// operation's fetch-merge-persist sequence, so interleaved calls cannot
// produce lost updates.
type Store struct {
	mu     sync.Mutex
	remote Remote
	blob   storage.Store
	items  map[string]items.Item

	hookMu sync.RWMutex
	hooks  []ChangedHook
}

// New creates a store over the given remote and persistence handle.
func New(remote Remote, blob storage.Store) *Store {
	return &Store{
		remote: remote,
		blob:   blob,
		items:  make(map[string]items.Item),
	}
}

// Load reads the persisted blob, rebuilds the item map via the reverse
// display transform, and reconciles once against remote to catch any drift
// that occurred while offline. Missing or corrupt blobs start empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.blob.Load()
	if err != nil {
		// Persistence read failures degrade to an empty start, never fatal.
		logging.Warn().Err(err).Msg("Could not load persisted list; starting empty")
		records = nil
	}

	s.items = make(map[string]items.Item, len(records))
	for _, rec := range records {
		itm := rec.Item()
		s.items[itm.ID] = itm
	}

	s.reconcileLocked(ctx)
	s.notify(Event{Action: ActionSync})
	return nil
}

// Add inserts a new item by display name, pushes it to the remote pending
// list, reconciles, persists, and returns the stored record. An empty or
// malformed name fails with ValidationError; remote push failures are not
// surfaced.
func (s *Store) Add(ctx context.Context, displayName string) (items.Item, error) {
	if err := items.ValidateName(displayName); err != nil {
		return items.Item{}, err
	}
	name, groceryID := items.SplitDisplayName(displayName)

	s.mu.Lock()
	itm := items.Item{
		Name:      name,
		ID:        name,
		GroceryID: groceryID,
		Bought:    false,
	}
	s.items[itm.ID] = itm

	s.push(ctx, "purchase", itm, s.remote.Purchase)
	s.reconcileLocked(ctx)
	if stored, ok := s.items[itm.ID]; ok {
		itm = stored
	}
	err := s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		return items.Item{}, err
	}
	s.notify(Event{Action: ActionAdd, Item: &itm})
	return itm, nil
}

// Update applies a single-field patch to the identified item. Flipping the
// bought flag pushes the matching remote state; renaming removes the old
// remote identity and recreates it under the new name, re-keying the local
// entry. Unknown ids fail with NotFoundError.
func (s *Store) Update(ctx context.Context, id string, patch items.Patch) (items.Item, error) {
	if err := patch.Validate(); err != nil {
		return items.Item{}, err
	}

	s.mu.Lock()
	itm, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return items.Item{}, errors.NewNotFoundError("item", id)
	}

	switch {
	case patch.Bought != nil:
		itm.Bought = *patch.Bought
	case patch.Name != nil:
		// The provider cannot rename in place: drop the old remote
		// identity, then recreate under the new name below.
		s.push(ctx, "remove", itm, s.remote.Remove)
		name, groceryID := items.SplitDisplayName(*patch.Name)
		delete(s.items, id)
		itm.Name = name
		itm.GroceryID = groceryID
		itm.ID = name
	}
	s.items[itm.ID] = itm

	if itm.Bought {
		s.push(ctx, "bought", itm, s.remote.Bought)
	} else {
		s.push(ctx, "purchase", itm, s.remote.Purchase)
	}
	s.reconcileLocked(ctx)
	if stored, ok := s.items[itm.ID]; ok {
		itm = stored
	}
	err := s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		return items.Item{}, err
	}
	s.notify(Event{Action: ActionUpdate, Item: &itm})
	return itm, nil
}

// ClearCompleted removes every bought entry, issuing a remote remove for
// each. Removal is keyed by local id. This is the only operation that
// deletes local entries.
func (s *Store) ClearCompleted(ctx context.Context) error {
	s.mu.Lock()
	for id, itm := range s.items {
		if !itm.Bought {
			continue
		}
		s.push(ctx, "remove", itm, s.remote.Remove)
		delete(s.items, id)
	}
	s.reconcileLocked(ctx)
	err := s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Event{Action: ActionClear})
	return nil
}

// SwitchList discards the entire local item map — a list switch is a hard
// boundary, not a merge, because item ids are scoped to one remote list —
// selects the named remote list, reconciles, and persists.
func (s *Store) SwitchList(ctx context.Context, name string) error {
	s.mu.Lock()
	s.items = make(map[string]items.Item)
	if err := s.remote.SelectList(ctx, name); err != nil {
		s.mu.Unlock()
		return err
	}
	s.reconcileLocked(ctx)
	err := s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	logging.Info().Str("list", name).Msg("Switched active list")
	s.notify(Event{Action: ActionSwitch})
	return nil
}

// Sync runs an explicit reconciliation pass and persists the result. Unlike
// the implicit pass after each mutation, a fetch failure here is surfaced:
// the caller asked for a sync and should know it did not happen.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	pending, bought, err := s.remote.FetchItems(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.mergeLocked(pending, bought)
	err = s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Event{Action: ActionSync})
	return nil
}

// Items returns the caller-facing view: every entry rendered through its
// display transform, sorted by local id for deterministic output.
func (s *Store) Items() []items.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]items.Record, 0, len(s.items))
	for _, itm := range s.items {
		records = append(records, itm.Record())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// Len returns the number of items in the map.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// push issues a fire-and-forget remote mutation. Failures are logged, not
// surfaced: the operation is locally successful and the next reconciliation
// pass re-derives remote truth.
func (s *Store) push(ctx context.Context, op string, itm items.Item, fn func(context.Context, items.Item) error) {
	if err := fn(ctx, itm); err != nil {
		logging.Warn().
			Err(err).
			Str("op", op).
			Str("item", itm.ID).
			Msg("Remote push failed; next sync will re-align")
	}
}

// reconcileLocked pulls remote truth and merges it into the map. Callers
// hold the mutex. A fetch failure is logged and the merge skipped — the
// local mutation stands and the divergence heals on the next pass.
func (s *Store) reconcileLocked(ctx context.Context) {
	pending, bought, err := s.remote.FetchItems(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Remote fetch failed; skipping reconciliation pass")
		return
	}
	s.mergeLocked(pending, bought)
}

// mergeLocked merges fetched sub-lists into the map. Callers hold the mutex.
func (s *Store) mergeLocked(pending, bought []items.RemoteItem) {
	result := reconcile.Merge(s.items, pending, bought)
	s.items = result.Items
	if result.HasChanges() {
		logging.Debug().
			Int("added", result.Added).
			Int("updated", result.Updated).
			Msg("Reconciliation changed local items")
	}
}

// persistLocked writes the current map to the blob store as an ordered
// record sequence. Callers hold the mutex.
func (s *Store) persistLocked() error {
	records := make([]items.Record, 0, len(s.items))
	for _, itm := range s.items {
		records = append(records, itm.Record())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return s.blob.Save(records)
}
