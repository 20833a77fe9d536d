// Package items defines the shopping list item types and the identity rules
// that map between the local representation and the remote provider's.
//
// A local item carries its remote identity in two explicit fields (Name,
// GroceryID). The externally-facing flat string form encodes that identity
// as a bracketed suffix, "Milk [g42]"; SplitDisplayName and JoinDisplayName
// are the only functions that read or write that encoding.
package items

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cartsync/cartsync/pkg/errors"
)

// displayMarker separates the plain name from the remote grocery id in the
// flat display form. Any user-entered name containing it collides with the
// encoding, so ValidateName rejects anything the split cannot round-trip.
const displayMarker = " ["

// Item is the local-facing shopping list item.
type Item struct {
	// Name is the plain item name without any bracketed suffix.
	Name string `json:"name"`

	// ID is the local identifier callers use to address the item. For
	// remote-linked items it is derived from the name; otherwise it is a
	// generated token.
	ID string `json:"id"`

	// GroceryID is the provider's identifier for this item within the
	// active list. Empty when the item has not been linked to a remote
	// entry yet.
	GroceryID string `json:"groceryId,omitempty"`

	// Bought reports whether the item has been purchased. The external
	// surface calls this "complete".
	Bought bool `json:"bought"`

	// Amount is an optional free-form quantity ("2", "500g").
	Amount string `json:"amount,omitempty"`
}

// RemoteItem is an item as the remote provider represents it. Whether it is
// pending or bought is conveyed by the sub-list it was fetched from.
type RemoteItem struct {
	Name      string `json:"name"`
	GroceryID string `json:"groceryId"`
	Amount    string `json:"amount,omitempty"`
}

// Record is the flat shape exposed to external callers and written to the
// persistence blob: the display name carries the remote identity, and the
// bought flag travels under the external "complete" key.
type Record struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Complete bool   `json:"complete"`
	Amount   string `json:"amount,omitempty"`
}

// DisplayName renders the externally-facing name, re-suffixed with the
// remote grocery id when the item is linked.
func (i Item) DisplayName() string {
	if i.GroceryID == "" {
		return i.Name
	}
	return JoinDisplayName(i.Name, i.GroceryID)
}

// Record converts the item to its external flat form.
func (i Item) Record() Record {
	return Record{
		Name:     i.DisplayName(),
		ID:       i.ID,
		Complete: i.Bought,
		Amount:   i.Amount,
	}
}

// Item converts a flat record back to an Item via the reverse display
// transform. Records with no id (hand-edited blobs) get a generated one.
func (r Record) Item() Item {
	name, groceryID := SplitDisplayName(r.Name)
	id := r.ID
	if id == "" {
		id = NewID()
	}
	return Item{
		Name:      name,
		ID:        id,
		GroceryID: groceryID,
		Bought:    r.Complete,
		Amount:    r.Amount,
	}
}

// JoinDisplayName encodes a plain name and remote grocery id into the flat
// display form.
func JoinDisplayName(name, groceryID string) string {
	return name + displayMarker + groceryID + "]"
}

// SplitDisplayName decodes the flat display form back into a plain name and
// remote grocery id. A string without the marker (or without the closing
// bracket) is all name, with an empty grocery id.
func SplitDisplayName(display string) (name, groceryID string) {
	idx := strings.Index(display, displayMarker)
	if idx < 0 || !strings.HasSuffix(display, "]") {
		return display, ""
	}
	return display[:idx], display[idx+len(displayMarker) : len(display)-1]
}

// ValidateName checks a user-entered display name. Empty names are invalid,
// as are names whose bracket encoding would not survive a split/join round
// trip (a stray marker or bracket inside either part).
func ValidateName(display string) error {
	if strings.TrimSpace(display) == "" {
		return errors.NewValidationError("name", display, "cannot be empty")
	}
	name, groceryID := SplitDisplayName(display)
	if strings.TrimSpace(name) == "" {
		return errors.NewValidationError("name", display, "cannot be only a remote id suffix")
	}
	if strings.ContainsAny(groceryID, "[]") || strings.Contains(name, "]") {
		return errors.NewValidationError("name", display, `cannot contain a stray " [" or "]"`)
	}
	return nil
}

// ResolveLocalID maps a remote item to a local id. An existing entry with
// the same (name, grocery id) pair keeps its id across re-syncs; a
// first-seen remote item is keyed by its plain name. Linear scan — shopping
// lists are small.
func ResolveLocalID(remote RemoteItem, existing map[string]Item) string {
	for id, itm := range existing {
		if itm.Name == remote.Name && itm.GroceryID == remote.GroceryID {
			return id
		}
	}
	return remote.Name
}

// NewID returns a generated opaque local id for items that have no
// name-derived identity.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Catalog maps a localized display grocery name to the provider's canonical
// name. Lookups fall back to a locale-aware case-folded match, then to the
// input name unchanged.
type Catalog struct {
	names  map[string]string
	folded map[string]string
	lower  cases.Caser
}

// NewCatalog builds a catalog for the given BCP-47 locale ("de-DE",
// "fr-FR"). An unparseable locale degrades to und rather than failing.
func NewCatalog(names map[string]string, locale string) *Catalog {
	lower := cases.Lower(language.Make(locale))
	folded := make(map[string]string, len(names))
	for k, v := range names {
		folded[lower.String(k)] = v
	}
	return &Catalog{names: names, folded: folded, lower: lower}
}

// CanonicalName resolves a display name to the provider's canonical name,
// returning the input unchanged when the catalog has no mapping.
func (c *Catalog) CanonicalName(name string) string {
	if c == nil {
		return name
	}
	if canonical, ok := c.names[name]; ok && canonical != "" {
		return canonical
	}
	if canonical, ok := c.folded[c.lower.String(name)]; ok && canonical != "" {
		return canonical
	}
	return name
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}
