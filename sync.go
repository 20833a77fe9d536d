package cartsync

import (
	"context"
	"time"

	"github.com/cartsync/cartsync/pkg/errors"
	"github.com/cartsync/cartsync/pkg/logging"
)

// AutoSyncOn begins periodic background reconciliation. The interval comes
// from WithAutoSync; calling this without one configured is an error.
func (cs *cartSync) AutoSyncOn() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.config.autoSyncInterval <= 0 {
		return errors.NewConfigError("cartsync", "auto-sync interval must be positive", nil)
	}
	if cs.syncTicker != nil {
		return nil
	}

	// Recreate stopCh if a previous AutoSyncOff closed it.
	if cs.stopped {
		cs.stopCh = make(chan struct{})
		cs.stopped = false
	}

	cs.syncTicker = time.NewTicker(cs.config.autoSyncInterval)
	go cs.autoSyncLoop(cs.syncTicker, cs.stopCh)
	return nil
}

// AutoSyncOff stops periodic background reconciliation. Safe to call more
// than once.
func (cs *cartSync) AutoSyncOff() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.syncTicker != nil {
		cs.syncTicker.Stop()
		cs.syncTicker = nil
	}
	if !cs.stopped {
		cs.stopped = true
		close(cs.stopCh)
	}
	return nil
}

// autoSyncLoop watches the ticker and stop channel it was started with, so
// a later off/on cycle cannot strand it on a recreated channel.
func (cs *cartSync) autoSyncLoop(ticker *time.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-ticker.C:
			if err := cs.Sync(context.Background()); err != nil {
				logging.Warn().Err(err).Msg("Background sync failed")
			}
		case <-stop:
			return
		}
	}
}
