package toggle

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Document is the on-disk form of a flag set.
//
//	flags:
//	  - name: dark-mode
//	    enabled: true
//	    description: Dark colour scheme for the dashboard
//	  - name: new-checkout
//	    enabled: false
type Document struct {
	Flags []Flag `json:"flags" yaml:"flags" validate:"unique=Name,dive"`
}

// Flag is a single entry in a Document.
type Flag struct {
	Name        string `json:"name" yaml:"name" validate:"required,max=256"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Values returns the document's flags keyed by name.
func (d Document) Values() map[string]bool {
	values := make(map[string]bool, len(d.Flags))
	for _, f := range d.Flags {
		values[f.Name] = f.Enabled
	}
	return values
}

// EncodeStringFlags renders string-valued flags as a JSON Document.
//
// Values accepted by strconv.ParseBool ("1", "t", "TRUE", "false", ...) are
// encoded as booleans. Any other value is kept as a JSON string, which makes
// the document fail to decode in a Loader rather than silently dropping or
// guessing the flag.
func EncodeStringFlags(values map[string]string) ([]byte, error) {
	type entry struct {
		Name    string          `json:"name"`
		Enabled json.RawMessage `json:"enabled"`
	}

	entries := make([]entry, 0, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		raw := values[name]
		var enabled json.RawMessage
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			enabled = json.RawMessage(strconv.FormatBool(b))
		} else {
			quoted, err := json.Marshal(raw)
			if err != nil {
				return nil, err
			}
			enabled = quoted
		}
		entries = append(entries, entry{Name: name, Enabled: enabled})
	}

	return json.Marshal(struct {
		Flags []entry `json:"flags"`
	}{Flags: entries})
}
