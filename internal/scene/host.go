package scene

import (
	"fmt"
	"maps"

	"github.com/shinji-kodama/render-tools/internal/purge"
)

// ID satisfies purge.Entity.
func (e *Entity) ID() string {
	return e.EntityID
}

// Dictionary satisfies purge.Entity.
func (e *Entity) Dictionary(name string) (purge.Dictionary, bool) {
	a, ok := e.Dictionaries[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// DeleteDictionary satisfies purge.Entity. It fails with ErrLocked on a
// locked entity and is a no-op for a missing dictionary.
func (e *Entity) DeleteDictionary(name string) error {
	if e.Locked {
		return ErrLocked
	}
	delete(e.Dictionaries, name)
	return nil
}

// IsImage satisfies purge.Definition.
func (d *Definition) IsImage() bool {
	return d.Image
}

// Instances satisfies purge.Definition.
func (d *Definition) Instances() []purge.Entity {
	out := make([]purge.Entity, len(d.Placements))
	for i, p := range d.Placements {
		out[i] = p
	}
	return out
}

// undoEntry records the dictionaries of every entity before a committed
// transaction.
type undoEntry struct {
	name     string
	snapshot map[*Entity]map[string]Attributes
}

// Host exposes a Document as a purge.Scene.
type Host struct {
	doc *Document
}

// Host returns the purge view of the document.
func (d *Document) Host() *Host {
	return &Host{doc: d}
}

// Model satisfies purge.Scene.
func (h *Host) Model() purge.Entity {
	return h.doc.Root
}

// Definitions satisfies purge.Scene.
func (h *Host) Definitions() []purge.Definition {
	out := make([]purge.Definition, len(h.doc.Definitions))
	for i, d := range h.doc.Definitions {
		out[i] = d
	}
	return out
}

// Materials satisfies purge.Scene. The returned slice holds handles; it is
// not affected by later changes to the collection.
func (h *Host) Materials() []purge.Entity {
	out := make([]purge.Entity, len(h.doc.Materials))
	for i, m := range h.doc.Materials {
		out[i] = m
	}
	return out
}

// Transaction satisfies purge.Scene. The dictionaries of every entity are
// snapshotted before fn runs; on error they are restored, on success the
// snapshot is pushed on the undo stack.
func (h *Host) Transaction(name string, fn func() error) error {
	snap := h.doc.snapshot()
	if err := fn(); err != nil {
		h.doc.restore(snap)
		return fmt.Errorf("%s aborted: %w", name, err)
	}
	h.doc.undo = append(h.doc.undo, undoEntry{name: name, snapshot: snap})
	return nil
}

// Undo reverts the last committed transaction and returns its name.
func (d *Document) Undo() (string, error) {
	if len(d.undo) == 0 {
		return "", fmt.Errorf("nothing to undo")
	}
	last := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.restore(last.snapshot)
	return last.name, nil
}

func (d *Document) snapshot() map[*Entity]map[string]Attributes {
	snap := make(map[*Entity]map[string]Attributes)
	d.each(func(e *Entity) {
		if e == nil {
			return
		}
		dicts := make(map[string]Attributes, len(e.Dictionaries))
		for k, a := range e.Dictionaries {
			dicts[k] = maps.Clone(a)
		}
		if e.Dictionaries == nil {
			dicts = nil
		}
		snap[e] = dicts
	})
	return snap
}

func (d *Document) restore(snap map[*Entity]map[string]Attributes) {
	for e, dicts := range snap {
		e.Dictionaries = dicts
	}
}
