// Package cartsync keeps a local shopping list synchronized with a remote
// Grosh household list. The local list is authoritative for reads; every
// mutation is pushed to the remote and followed by a reconciliation pass
// that pulls remote truth back in.
package cartsync

import (
	"context"
	"sync"
	"time"

	"github.com/cartsync/cartsync/internal/grosh"
	"github.com/cartsync/cartsync/internal/storage"
	"github.com/cartsync/cartsync/pkg/errors"
	"github.com/cartsync/cartsync/pkg/items"
	"github.com/cartsync/cartsync/pkg/list"
	"github.com/cartsync/cartsync/pkg/logging"
)

// Remote is the provider surface the facade drives. The default
// implementation talks to a Grosh server; tests inject fakes.
type Remote interface {
	list.Remote

	// Login verifies the configured credentials.
	Login(ctx context.Context) error

	// LoadCatalog fetches the provider's grocery catalog.
	LoadCatalog(ctx context.Context) error

	// ListNames returns the names of all lists visible to the account.
	ListNames(ctx context.Context) ([]string, error)

	// ActiveList returns the id and name of the currently selected list.
	ActiveList() (id, name string)
}

// CartSync manages a synchronized shopping list with change hooks and
// optional periodic background sync.
type CartSync interface {
	// Items returns the current list in caller-facing form, sorted by id.
	Items() []items.Record

	// Add inserts a new item by display name and pushes it remotely.
	Add(ctx context.Context, name string) (items.Item, error)

	// Update applies a single-field patch to the identified item.
	Update(ctx context.Context, id string, patch items.Patch) (items.Item, error)

	// ClearCompleted removes every bought item locally and remotely.
	ClearCompleted(ctx context.Context) error

	// SwitchList discards the local list and selects another remote list.
	SwitchList(ctx context.Context, name string) error

	// Sync runs an explicit reconciliation pass against the remote.
	Sync(ctx context.Context) error

	// Lists returns the names of all remote lists visible to the account.
	Lists(ctx context.Context) ([]string, error)

	// ActiveList returns the name of the currently selected remote list.
	ActiveList() string

	// AutoSyncOn begins periodic background sync if an interval is configured.
	AutoSyncOn() error

	// AutoSyncOff stops periodic background sync.
	AutoSyncOff() error

	// OnListChanged registers a hook invoked after each successful change.
	OnListChanged(list.ChangedHook)

	// Close stops background work. The local blob is already persisted
	// after every mutation, so Close has nothing to flush.
	Close() error
}

// cartSync is the internal implementation of the CartSync interface.
type cartSync struct {
	config *config
	remote Remote
	store  *list.Store

	mu         sync.Mutex
	syncTicker *time.Ticker
	stopCh     chan struct{}
	stopped    bool
}

// New creates a CartSync instance, verifies credentials against the remote,
// selects the configured list, and loads any persisted local state. An
// authentication failure is fatal; a missing catalog is not.
func New(ctx context.Context, opts ...Option) (CartSync, error) {
	cs := &cartSync{
		config: newConfig(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(cs.config); err != nil {
			return nil, err
		}
	}

	cs.remote = cs.config.remote
	if cs.remote == nil {
		if cs.config.username == "" || cs.config.password == "" {
			return nil, errors.NewConfigError("cartsync", "username and password are required", nil)
		}
		client := grosh.NewClient(cs.config.baseURL, cs.config.username, cs.config.password, cs.config.locale)
		if cs.config.httpClient != nil {
			client.WithHTTPClient(cs.config.httpClient)
		}
		cs.remote = client
	}

	if err := cs.remote.Login(ctx); err != nil {
		return nil, err
	}

	// A missing catalog only disables name canonicalization.
	if err := cs.remote.LoadCatalog(ctx); err != nil {
		logging.Warn().Err(err).Msg("Could not load grocery catalog; item names pass through unresolved")
	}

	if err := cs.selectInitialList(ctx); err != nil {
		return nil, err
	}

	blob := cs.config.store
	if blob == nil {
		blob = storage.NewFile(cs.config.storagePath)
	}

	cs.store = list.New(cs.remote, blob)
	if err := cs.store.Load(ctx); err != nil {
		return nil, err
	}

	if cs.config.autoSyncInterval > 0 {
		if err := cs.AutoSyncOn(); err != nil {
			return nil, err
		}
	}

	return cs, nil
}

// selectInitialList activates the configured list, or the account's first
// list when none was configured. An account without any remote list is
// usable for neither reads nor writes, so that is fatal too.
func (cs *cartSync) selectInitialList(ctx context.Context) error {
	name := cs.config.listName
	if name == "" {
		if _, active := cs.remote.ActiveList(); active != "" {
			return nil
		}
		names, err := cs.remote.ListNames(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return errors.NewNotFoundError("list", "any")
		}
		name = names[0]
	}
	return cs.remote.SelectList(ctx, name)
}

func (cs *cartSync) Items() []items.Record {
	return cs.store.Items()
}

func (cs *cartSync) Add(ctx context.Context, name string) (items.Item, error) {
	return cs.store.Add(ctx, name)
}

func (cs *cartSync) Update(ctx context.Context, id string, patch items.Patch) (items.Item, error) {
	return cs.store.Update(ctx, id, patch)
}

func (cs *cartSync) ClearCompleted(ctx context.Context) error {
	return cs.store.ClearCompleted(ctx)
}

func (cs *cartSync) SwitchList(ctx context.Context, name string) error {
	return cs.store.SwitchList(ctx, name)
}

func (cs *cartSync) Sync(ctx context.Context) error {
	return cs.store.Sync(ctx)
}

func (cs *cartSync) Lists(ctx context.Context) ([]string, error) {
	return cs.remote.ListNames(ctx)
}

func (cs *cartSync) ActiveList() string {
	_, name := cs.remote.ActiveList()
	return name
}

func (cs *cartSync) OnListChanged(fn list.ChangedHook) {
	cs.store.OnChanged(fn)
}

func (cs *cartSync) Close() error {
	return cs.AutoSyncOff()
}
