package list

import "github.com/cartsync/cartsync/pkg/items"

// Action tags a change notification with the operation that produced it.
type Action string

// Change actions emitted by the store.
const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionClear  Action = "clear"
	ActionSwitch Action = "switch"
	ActionSync   Action = "sync"
)

// Event describes a completed change to the local list. Item is set for
// single-item operations and nil for list-wide ones.
type Event struct {
	Action Action
	Item   *items.Item
}

// ChangedHook is invoked synchronously after each successful operation.
// Hooks must not call back into the store.
type ChangedHook func(Event)

// OnChanged registers a hook for change notifications. Hooks run in
// registration order.
func (s *Store) OnChanged(fn ChangedHook) {
	if fn == nil {
		return
	}
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) notify(event Event) {
	s.hookMu.RLock()
	hooks := make([]ChangedHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.hookMu.RUnlock()

	for _, fn := range hooks {
		fn(event)
	}
}
