package cartsync

import (
	"net/http"
	"time"

	"github.com/cartsync/cartsync/internal/grosh"
	"github.com/cartsync/cartsync/internal/storage"
	"github.com/cartsync/cartsync/pkg/errors"
)

// config holds the assembled facade configuration.
type config struct {
	username string
	password string
	baseURL  string
	listName string
	locale   string

	storagePath      string
	autoSyncInterval time.Duration

	httpClient *http.Client
	remote     Remote
	store      storage.Store
}

func newConfig() *config {
	return &config{
		baseURL: grosh.DefaultBaseURL,
	}
}

// Option is a function that configures a CartSync instance
type Option func(*config) error

// WithCredentials configures the provider account. Required unless a
// custom Remote is injected.
func WithCredentials(username, password string) Option {
	return func(c *config) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithBaseURL overrides the provider endpoint, e.g. for a self-hosted
// instance or a test server.
func WithBaseURL(url string) Option {
	return func(c *config) error {
		if url == "" {
			return errors.NewConfigError("cartsync", "base URL must not be empty", nil)
		}
		c.baseURL = url
		return nil
	}
}

// WithListName selects the named remote list during construction instead
// of whichever list the account last used.
func WithListName(name string) Option {
	return func(c *config) error {
		c.listName = name
		return nil
	}
}

// WithLocale sets the locale used for catalog name folding, e.g. "de-DE".
func WithLocale(locale string) Option {
	return func(c *config) error {
		c.locale = locale
		return nil
	}
}

// WithStoragePath sets the path of the persisted list blob. Defaults to
// ".shopping_list.json" in the working directory.
func WithStoragePath(path string) Option {
	return func(c *config) error {
		c.storagePath = path
		return nil
	}
}

// WithAutoSync enables periodic background reconciliation at the given
// interval.
func WithAutoSync(interval time.Duration) Option {
	return func(c *config) error {
		if interval <= 0 {
			return errors.NewConfigError("cartsync", "auto-sync interval must be positive", nil)
		}
		c.autoSyncInterval = interval
		return nil
	}
}

// WithHTTPClient overrides the HTTP client used for provider calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithRemote injects a custom Remote, bypassing the Grosh client entirely.
func WithRemote(remote Remote) Option {
	return func(c *config) error {
		c.remote = remote
		return nil
	}
}

// WithStorage injects a custom persistence handle, bypassing the file blob.
func WithStorage(store storage.Store) Option {
	return func(c *config) error {
		c.store = store
		return nil
	}
}
