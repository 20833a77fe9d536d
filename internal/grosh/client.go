// Package grosh provides a client for the Grosh shopping list API.
//
// This unofficial implementation is based on communication with the Grosh
// team; see groshapp.com. All calls run over one authenticated session bound
// to a single username/password pair and, after SelectList, one active
// household list.
package grosh

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/cartsync/cartsync/internal/transport"
	"github.com/cartsync/cartsync/pkg/errors"
	"github.com/cartsync/cartsync/pkg/items"
)

// DefaultBaseURL is the production Grosh edge endpoint.
const DefaultBaseURL = "https://gr1.compellingsoftware.com/edge"

// List is one household list available to the account.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// category is one group in the /current response; the union of all groups'
// groceries is the full list content.
type category struct {
	Category  string    `json:"category"`
	Groceries []grocery `json:"groceries"`
}

// grocery is a single entry within a category.
type grocery struct {
	Name      string `json:"name"`
	GroceryID string `json:"groceryId"`
	Amount    string `json:"amount,omitempty"`
	Bought    bool   `json:"bought"`
}

// CatalogEntry is one row of the localized grocery catalog.
type CatalogEntry struct {
	Name      string `json:"name"`
	Canonical string `json:"canonicalName,omitempty"`
	GroceryID string `json:"groceryId,omitempty"`
}

// Client talks to the Grosh API. Mutating calls are fire-and-forget: no
// retries, and a failure leaves remote state to be re-derived by the next
// fetch.
type Client struct {
	transport *transport.Client
	baseURL   string
	locale    string

	mu       sync.RWMutex
	listID   string
	listName string
	catalog  *items.Catalog
	logged   bool
}

// NewClient creates a Grosh client for the given credentials. An empty
// baseURL selects the production endpoint.
func NewClient(baseURL, username, password, locale string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		transport: transport.New(&transport.BasicAuth{Username: username, Password: password}),
		baseURL:   strings.TrimRight(baseURL, "/"),
		locale:    locale,
	}
}

// WithHTTPClient replaces the underlying HTTP client (test injection).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.transport.WithHTTPClient(hc)
	return c
}

// Login establishes the session by probing the bare edge endpoint.
// Rejected credentials surface as AuthenticationError; a malformed target
// or network failure as TransportError.
func (c *Client) Login(ctx context.Context) error {
	endpoint := "/"
	resp, err := c.transport.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return err
	}
	if err := transport.Discard(resp, endpoint); err != nil {
		return err
	}
	c.mu.Lock()
	c.logged = true
	c.mu.Unlock()
	return nil
}

// Lists fetches all household lists available to the account.
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	endpoint := "/users/me/households"
	resp, err := c.transport.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return nil, err
	}
	var lists []List
	if err := transport.DecodeResponse(resp, endpoint, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListNames returns just the names of the household lists, in the order
// the provider reports them.
func (c *Client) ListNames(ctx context.Context) ([]string, error) {
	lists, err := c.Lists(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(lists))
	for i, l := range lists {
		names[i] = l.Name
	}
	return names, nil
}

// SelectList makes the named household list active for all subsequent
// calls. The match is exact, first match wins.
func (c *Client) SelectList(ctx context.Context, name string) error {
	lists, err := c.Lists(ctx)
	if err != nil {
		return err
	}
	for _, l := range lists {
		if l.Name == name {
			c.mu.Lock()
			c.listID = l.ID
			c.listName = l.Name
			c.mu.Unlock()
			return nil
		}
	}
	return errors.NewNotFoundError("list", name)
}

// ActiveList returns the id and name of the currently selected list.
func (c *Client) ActiveList() (id, name string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listID, c.listName
}

// FetchItems retrieves the active list's contents, flattened across the
// provider's category grouping and partitioned into pending and bought.
func (c *Client) FetchItems(ctx context.Context) (pending, bought []items.RemoteItem, err error) {
	listID, err := c.activeListID()
	if err != nil {
		return nil, nil, err
	}
	endpoint := fmt.Sprintf("/households/%s/current", url.PathEscape(listID))
	resp, err := c.transport.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return nil, nil, err
	}
	var categories []category
	if err := transport.DecodeResponse(resp, endpoint, &categories); err != nil {
		return nil, nil, err
	}

	for _, cat := range categories {
		for _, g := range cat.Groceries {
			remote := items.RemoteItem{Name: g.Name, GroceryID: g.GroceryID, Amount: g.Amount}
			if g.Bought {
				bought = append(bought, remote)
			} else {
				pending = append(pending, remote)
			}
		}
	}
	return pending, bought, nil
}

// MarkPurchased puts the identified item on the list. In Grosh's model
// bought is the terminal state and purchase/bought share one endpoint.
func (c *Client) MarkPurchased(ctx context.Context, itemID string) error {
	return c.putItem(ctx, "bought", itemID)
}

// MarkBought marks the identified item bought. Same underlying call as
// MarkPurchased.
func (c *Client) MarkBought(ctx context.Context, itemID string) error {
	return c.putItem(ctx, "bought", itemID)
}

// RemoveItem removes the identified item from the active list entirely.
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	return c.putItem(ctx, "remove", itemID)
}

// putItem issues one of the provider's path-addressed mutations.
func (c *Client) putItem(ctx context.Context, action, itemID string) error {
	listID, err := c.activeListID()
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/households/%s/%s/%s", url.PathEscape(listID), action, url.PathEscape(itemID))
	resp, err := c.transport.Put(ctx, c.baseURL+endpoint)
	if err != nil {
		return err
	}
	return transport.Discard(resp, endpoint)
}

// LoadCatalog fetches the localized grocery catalog and builds the display
// name to canonical name mapping. Loaded once after login and again on a
// locale change.
func (c *Client) LoadCatalog(ctx context.Context) error {
	endpoint := "/groceries"
	resp, err := c.transport.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return err
	}
	var entries []CatalogEntry
	if err := transport.DecodeResponse(resp, endpoint, &entries); err != nil {
		return err
	}

	names := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name != "" && e.Canonical != "" {
			names[e.Name] = e.Canonical
		}
	}
	c.mu.Lock()
	c.catalog = items.NewCatalog(names, c.locale)
	c.mu.Unlock()
	return nil
}

// Catalog returns the currently loaded catalog, nil before LoadCatalog.
func (c *Client) Catalog() *items.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// SearchItem scans the catalog endpoint for an entry whose name matches
// case-insensitively, nil when nothing matches.
func (c *Client) SearchItem(ctx context.Context, name string) (*CatalogEntry, error) {
	endpoint := "/groceries"
	resp, err := c.transport.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return nil, err
	}
	var entries []CatalogEntry
	if err := transport.DecodeResponse(resp, endpoint, &entries); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

// Purchase pushes an item onto the remote pending list, addressing it by
// grocery id when linked and by catalog-resolved name otherwise.
func (c *Client) Purchase(ctx context.Context, item items.Item) error {
	return c.MarkPurchased(ctx, c.remoteID(item))
}

// Bought marks an item bought remotely.
func (c *Client) Bought(ctx context.Context, item items.Item) error {
	return c.MarkBought(ctx, c.remoteID(item))
}

// Remove removes an item remotely.
func (c *Client) Remove(ctx context.Context, item items.Item) error {
	return c.RemoveItem(ctx, c.remoteID(item))
}

// remoteID picks the identifier the provider knows the item by.
func (c *Client) remoteID(item items.Item) string {
	if item.GroceryID != "" {
		return item.GroceryID
	}
	c.mu.RLock()
	catalog := c.catalog
	c.mu.RUnlock()
	return catalog.CanonicalName(item.Name)
}

// activeListID returns the selected list id or a ConfigError when no list
// has been selected yet.
func (c *Client) activeListID() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.listID == "" {
		return "", &errors.ConfigError{
			Component: "grosh",
			Message:   "no active list selected",
		}
	}
	return c.listID, nil
}
