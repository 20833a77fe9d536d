package list

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartsync/cartsync/internal/storage"
	"github.com/cartsync/cartsync/pkg/errors"
	"github.com/cartsync/cartsync/pkg/items"
)

// fakeRemote is an in-memory provider double. It keeps real pending/bought
// sub-lists so reconciliation passes see the effect of earlier pushes.
type fakeRemote struct {
	mu      sync.Mutex
	pending []items.RemoteItem
	bought  []items.RemoteItem
	calls   []string

	// Sub-lists installed when SelectList succeeds.
	nextPending []items.RemoteItem
	nextBought  []items.RemoteItem

	selectErr error
	fetchErr  error
	pushErr   error
}

func (f *fakeRemote) SelectList(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "select:"+name)
	if f.selectErr != nil {
		return f.selectErr
	}
	f.pending = append([]items.RemoteItem(nil), f.nextPending...)
	f.bought = append([]items.RemoteItem(nil), f.nextBought...)
	return nil
}

func (f *fakeRemote) FetchItems(_ context.Context) ([]items.RemoteItem, []items.RemoteItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, nil, f.fetchErr
	}
	pending := append([]items.RemoteItem(nil), f.pending...)
	bought := append([]items.RemoteItem(nil), f.bought...)
	return pending, bought, nil
}

func (f *fakeRemote) Purchase(_ context.Context, itm items.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "purchase:"+itm.Name)
	if f.pushErr != nil {
		return f.pushErr
	}
	f.dropLocked(itm.Name)
	f.pending = append(f.pending, items.RemoteItem{Name: itm.Name, GroceryID: itm.GroceryID, Amount: itm.Amount})
	return nil
}

func (f *fakeRemote) Bought(_ context.Context, itm items.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "bought:"+itm.Name)
	if f.pushErr != nil {
		return f.pushErr
	}
	f.dropLocked(itm.Name)
	f.bought = append(f.bought, items.RemoteItem{Name: itm.Name, GroceryID: itm.GroceryID, Amount: itm.Amount})
	return nil
}

func (f *fakeRemote) Remove(_ context.Context, itm items.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "remove:"+itm.Name)
	if f.pushErr != nil {
		return f.pushErr
	}
	f.dropLocked(itm.Name)
	return nil
}

func (f *fakeRemote) dropLocked(name string) {
	keep := func(list []items.RemoteItem) []items.RemoteItem {
		out := list[:0]
		for _, ri := range list {
			if ri.Name != name {
				out = append(out, ri)
			}
		}
		return out
	}
	f.pending = keep(f.pending)
	f.bought = keep(f.bought)
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestStore(t *testing.T) (*Store, *fakeRemote) {
	t.Helper()
	remote := &fakeRemote{}
	return New(remote, storage.NewMemory()), remote
}

func TestStoreAdd(t *testing.T) {
	store, remote := newTestStore(t)

	itm, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)
	assert.Equal(t, "Milk", itm.ID)
	assert.Equal(t, "Milk", itm.Name)
	assert.False(t, itm.Bought)

	records := store.Items()
	require.Len(t, records, 1)
	assert.Equal(t, "Milk", records[0].Name)
	assert.False(t, records[0].Complete)
	assert.Contains(t, remote.callLog(), "purchase:Milk")
}

func TestStoreAddLinked(t *testing.T) {
	store, _ := newTestStore(t)

	itm, err := store.Add(context.Background(), "Milk [g7]")
	require.NoError(t, err)
	assert.Equal(t, "Milk", itm.ID)
	assert.Equal(t, "g7", itm.GroceryID)

	records := store.Items()
	require.Len(t, records, 1)
	assert.Equal(t, "Milk [g7]", records[0].Name)
}

func TestStoreAddInvalidName(t *testing.T) {
	store, remote := newTestStore(t)

	for _, name := range []string{"", "   ", " [g7]"} {
		_, err := store.Add(context.Background(), name)
		assert.True(t, errors.IsValidation(err), "name %q should be rejected", name)
	}
	assert.Empty(t, remote.callLog())
	assert.Zero(t, store.Len())
}

func TestStoreUpdateBought(t *testing.T) {
	store, remote := newTestStore(t)
	_, err := store.Add(context.Background(), "Eggs")
	require.NoError(t, err)

	bought := true
	itm, err := store.Update(context.Background(), "Eggs", items.Patch{Bought: &bought})
	require.NoError(t, err)
	assert.True(t, itm.Bought)
	assert.Contains(t, remote.callLog(), "bought:Eggs")

	records := store.Items()
	require.Len(t, records, 1)
	assert.True(t, records[0].Complete)
}

func TestStoreUpdateRename(t *testing.T) {
	store, remote := newTestStore(t)
	_, err := store.Add(context.Background(), "Jam")
	require.NoError(t, err)

	name := "Marmalade"
	itm, err := store.Update(context.Background(), "Jam", items.Patch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Marmalade", itm.ID)

	records := store.Items()
	require.Len(t, records, 1)
	assert.Equal(t, "Marmalade", records[0].ID)

	log := remote.callLog()
	assert.Contains(t, log, "remove:Jam")
	assert.Contains(t, log, "purchase:Marmalade")
}

func TestStoreUpdateUnknownID(t *testing.T) {
	store, _ := newTestStore(t)

	bought := true
	_, err := store.Update(context.Background(), "ghost", items.Patch{Bought: &bought})
	assert.True(t, errors.IsNotFound(err))
}

func TestStoreUpdateEmptyPatch(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)

	_, err = store.Update(context.Background(), "Milk", items.Patch{})
	assert.True(t, errors.IsValidation(err))
}

func TestStoreSyncPullsRemoteItems(t *testing.T) {
	store, remote := newTestStore(t)
	remote.pending = []items.RemoteItem{{Name: "Eggs", GroceryID: "r1"}}

	require.NoError(t, store.Sync(context.Background()))

	records := store.Items()
	require.Len(t, records, 1)
	assert.Equal(t, "Eggs", records[0].ID)
	assert.Equal(t, "Eggs [r1]", records[0].Name)
	assert.False(t, records[0].Complete)
}

func TestStoreSyncRemoteFlagWins(t *testing.T) {
	store, remote := newTestStore(t)
	_, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)

	// Someone marked it bought from another device.
	remote.mu.Lock()
	remote.dropLocked("Milk")
	remote.bought = append(remote.bought, items.RemoteItem{Name: "Milk"})
	remote.mu.Unlock()

	require.NoError(t, store.Sync(context.Background()))

	records := store.Items()
	require.Len(t, records, 1)
	assert.True(t, records[0].Complete)
}

func TestStoreSyncFetchErrorSurfaced(t *testing.T) {
	store, remote := newTestStore(t)
	remote.fetchErr = errors.WrapTransport("gr/households", fmt.Errorf("connection refused"))

	err := store.Sync(context.Background())
	assert.True(t, errors.IsTransport(err))
}

func TestStoreClearCompleted(t *testing.T) {
	store, remote := newTestStore(t)
	_, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)
	_, err = store.Add(context.Background(), "Eggs")
	require.NoError(t, err)

	bought := true
	_, err = store.Update(context.Background(), "Milk", items.Patch{Bought: &bought})
	require.NoError(t, err)

	require.NoError(t, store.ClearCompleted(context.Background()))

	records := store.Items()
	require.Len(t, records, 1)
	assert.Equal(t, "Eggs", records[0].ID)
	assert.Contains(t, remote.callLog(), "remove:Milk")
}

func TestStoreSwitchList(t *testing.T) {
	store, remote := newTestStore(t)
	_, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)

	remote.nextPending = []items.RemoteItem{{Name: "Bread"}}
	require.NoError(t, store.SwitchList(context.Background(), "Weekly"))

	records := store.Items()
	require.Len(t, records, 1)
	assert.Equal(t, "Bread", records[0].ID)
	assert.Contains(t, remote.callLog(), "select:Weekly")
}

func TestStoreSwitchListUnknown(t *testing.T) {
	store, remote := newTestStore(t)
	_, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)

	remote.selectErr = errors.NewNotFoundError("list", "Nope")
	err = store.SwitchList(context.Background(), "Nope")
	assert.True(t, errors.IsNotFound(err))

	// The switch boundary clears local state before selection.
	assert.Zero(t, store.Len())
}

func TestStorePushFailureNotSurfaced(t *testing.T) {
	store, remote := newTestStore(t)
	remote.pushErr = errors.WrapTransport("gr/bought", fmt.Errorf("timeout"))

	itm, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)
	assert.Equal(t, "Milk", itm.ID)
	assert.Equal(t, 1, store.Len())
}

func TestStoreLoadRestoresBlob(t *testing.T) {
	blob := storage.NewMemory()
	require.NoError(t, blob.Save([]items.Record{
		{Name: "Eggs [r1]", ID: "Eggs", Complete: false},
		{Name: "Milk", ID: "Milk", Complete: true},
	}))

	store := New(&fakeRemote{}, blob)
	require.NoError(t, store.Load(context.Background()))

	records := store.Items()
	require.Len(t, records, 2)
	assert.Equal(t, "Eggs [r1]", records[0].Name)
	assert.True(t, records[1].Complete)
}

func TestStoreLoadReconcilesDrift(t *testing.T) {
	blob := storage.NewMemory()
	require.NoError(t, blob.Save([]items.Record{{Name: "Milk", ID: "Milk"}}))

	remote := &fakeRemote{pending: []items.RemoteItem{{Name: "Butter"}}}
	store := New(remote, blob)
	require.NoError(t, store.Load(context.Background()))

	records := store.Items()
	require.Len(t, records, 2)
	assert.Equal(t, "Butter", records[0].ID)
	assert.Equal(t, "Milk", records[1].ID)
}

func TestStoreHooks(t *testing.T) {
	store, _ := newTestStore(t)

	var events []Event
	store.OnChanged(func(e Event) { events = append(events, e) })

	_, err := store.Add(context.Background(), "Milk")
	require.NoError(t, err)
	require.NoError(t, store.ClearCompleted(context.Background()))

	require.Len(t, events, 2)
	assert.Equal(t, ActionAdd, events[0].Action)
	require.NotNil(t, events[0].Item)
	assert.Equal(t, "Milk", events[0].Item.ID)
	assert.Equal(t, ActionClear, events[1].Action)
	assert.Nil(t, events[1].Item)
}
