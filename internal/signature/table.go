package signature

import (
	"fmt"
	"slices"

	"github.com/ErikKalkoken/go-set"
	"github.com/hashicorp/go-version"
)

// LegacyKey is the dictionary name written by renderer version 1.05.
const LegacyKey = "{DD17A615-9867-4806-8F46-B37031D7F153}"

// Entry maps a renderer version to the dictionary name it writes.
type Entry struct {
	Version *version.Version
	// Key is empty when the version's dictionary name is not known.
	Key string
}

// Resolved reports whether the entry has a key.
func (e Entry) Resolved() bool {
	return e.Key != ""
}

// Table is an ordered, immutable set of signature entries.
type Table struct {
	entries []Entry
	keys    set.Set[string]
}

// Spec is the configuration form of an entry.
type Spec struct {
	Version string `yaml:"version" json:"version" validate:"required"`
	Key     string `yaml:"key" json:"key"`
}

// DefaultSpecs returns the built-in table: the legacy 1.05 key and the
// 1.48 entry whose key has not been resolved yet.
func DefaultSpecs() []Spec {
	return []Spec{
		{Version: "1.05", Key: LegacyKey},
		{Version: "1.48"},
	}
}

// Default returns the table built from DefaultSpecs.
func Default() *Table {
	t, err := New(DefaultSpecs())
	if err != nil {
		panic(err) // built-in specs are valid
	}
	return t
}

// New builds a table from specs, sorted by ascending version.
// Invalid versions and duplicated versions or keys are rejected.
func New(specs []Spec) (*Table, error) {
	t := &Table{}
	var versions set.Set[string]
	for _, s := range specs {
		v, err := version.NewVersion(s.Version)
		if err != nil {
			return nil, fmt.Errorf("signature table: invalid version %q: %w", s.Version, err)
		}
		canonical := v.String()
		if versions.Contains(canonical) {
			return nil, fmt.Errorf("signature table: duplicate version %s", canonical)
		}
		versions.Add(canonical)
		if s.Key != "" {
			if t.keys.Contains(s.Key) {
				return nil, fmt.Errorf("signature table: key %q listed for more than one version", s.Key)
			}
			t.keys.Add(s.Key)
		}
		t.entries = append(t.entries, Entry{Version: v, Key: s.Key})
	}
	slices.SortFunc(t.entries, func(a, b Entry) int {
		return a.Version.Compare(b.Version)
	})
	return t, nil
}

// Merge returns a new table with specs added to t. A spec for a version
// already in t replaces that entry, which is how configuration fills in an
// unresolved key.
func (t *Table) Merge(specs []Spec) (*Table, error) {
	byVersion := make(map[string]Spec, len(t.entries)+len(specs))
	var order []string
	add := func(s Spec) error {
		v, err := version.NewVersion(s.Version)
		if err != nil {
			return fmt.Errorf("signature table: invalid version %q: %w", s.Version, err)
		}
		k := v.String()
		if _, ok := byVersion[k]; !ok {
			order = append(order, k)
		}
		byVersion[k] = s
		return nil
	}
	for _, e := range t.entries {
		if err := add(Spec{Version: e.Version.Original(), Key: e.Key}); err != nil {
			return nil, err
		}
	}
	for _, s := range specs {
		if err := add(s); err != nil {
			return nil, err
		}
	}
	merged := make([]Spec, 0, len(order))
	for _, k := range order {
		merged = append(merged, byVersion[k])
	}
	return New(merged)
}

// Entries returns a copy of all entries in version order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Keys returns the resolved keys in version order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Resolved() {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Unresolved returns the entries without a key.
func (t *Table) Unresolved() []Entry {
	var out []Entry
	for _, e := range t.entries {
		if !e.Resolved() {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether key is a known signature.
func (t *Table) Contains(key string) bool {
	return t.keys.Contains(key)
}

// Len returns the number of entries, resolved or not.
func (t *Table) Len() int {
	return len(t.entries)
}
