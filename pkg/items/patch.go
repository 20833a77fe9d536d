package items

import (
	"bytes"
	"encoding/json"

	"github.com/cartsync/cartsync/pkg/errors"
)

// Patch is the update payload for a single item. Exactly one field may be
// set per call: flipping the bought state and renaming are separate remote
// operations with different push semantics.
type Patch struct {
	Name   *string `json:"name,omitempty"`
	Bought *bool   `json:"complete,omitempty"`
}

// Validate enforces the single-field-at-a-time contract and checks any new
// name against the display-name encoding rules.
func (p Patch) Validate() error {
	set := 0
	if p.Name != nil {
		set++
	}
	if p.Bought != nil {
		set++
	}
	switch set {
	case 0:
		return errors.NewValidationError("patch", p, "sets no fields")
	case 1:
		// ok
	default:
		return errors.NewValidationError("patch", p, "sets more than one field")
	}
	if p.Name != nil {
		return ValidateName(*p.Name)
	}
	return nil
}

// ParsePatch decodes a JSON patch payload, rejecting unknown keys.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Patch{}, errors.NewValidationError("patch", string(data), err.Error())
	}
	if err := p.Validate(); err != nil {
		return Patch{}, err
	}
	return p, nil
}
