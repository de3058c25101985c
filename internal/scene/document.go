package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ErikKalkoken/go-set"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/render-tools/internal/model"
)

// ErrLocked is returned when deleting a dictionary from a locked entity.
var ErrLocked = errors.New("entity is locked")

// Format is the on-disk encoding of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q (valid: .yaml, .yml, .json, .jsonc)", filepath.Ext(path))
	}
}

// Attributes is one attribute dictionary: a named key/value store.
type Attributes map[string]any

// Values returns every value in the dictionary.
func (a Attributes) Values() []any {
	out := make([]any, 0, len(a))
	for _, v := range a {
		out = append(out, v)
	}
	return out
}

// Entity is a scene element carrying attribute dictionaries.
type Entity struct {
	EntityID string `yaml:"id" json:"id"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`

	// Locked entities refuse dictionary deletion.
	Locked bool `yaml:"locked,omitempty" json:"locked,omitempty"`

	Dictionaries map[string]Attributes `yaml:"dictionaries,omitempty" json:"dictionaries,omitempty"`
}

// Definition is a reusable geometry block and its placements.
type Definition struct {
	Entity `yaml:",inline"`

	// Image marks an embedded image definition.
	Image bool `yaml:"image,omitempty" json:"image,omitempty"`

	Placements []*Entity `yaml:"instances,omitempty" json:"instances,omitempty"`
}

// Document is a scene loaded from disk.
type Document struct {
	Camera      *model.CameraState `yaml:"camera,omitempty" json:"camera,omitempty"`
	Root        *Entity            `yaml:"model" json:"model"`
	Definitions []*Definition      `yaml:"definitions,omitempty" json:"definitions,omitempty"`
	Materials   []*Entity          `yaml:"materials,omitempty" json:"materials,omitempty"`

	path   string
	format Format
	undo   []undoEntry
}

// Load reads a document from path, choosing the decoder from the extension.
//
// Returns a CLIError with ExitDocumentNotFound if the file does not exist.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitDocumentNotFound,
				fmt.Sprintf("scene document not found: %s", path), err)
		}
		return nil, fmt.Errorf("failed to read scene document: %w", err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene document at %s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// Parse decodes a document from data.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatJSON:
		// Strip comments and trailing commas before decoding.
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	doc.format = format
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that the document has a model, that every entity has an
// ID and that IDs are unique.
func (d *Document) Validate() error {
	if d.Root == nil {
		return fmt.Errorf("document has no model")
	}
	var ids set.Set[string]
	var err error
	d.each(func(e *Entity) {
		if err != nil {
			return
		}
		switch {
		case e == nil:
			err = fmt.Errorf("document contains an empty entity")
		case e.EntityID == "":
			err = fmt.Errorf("entity %q has no id", e.Name)
		case ids.Contains(e.EntityID):
			err = fmt.Errorf("duplicate entity id %q", e.EntityID)
		default:
			ids.Add(e.EntityID)
		}
	})
	if err != nil {
		return err
	}
	if d.Camera != nil {
		if err := d.Camera.Validate(); err != nil {
			return fmt.Errorf("invalid camera: %w", err)
		}
	}
	return nil
}

// each calls fn for every entity in traversal order, including image
// definitions and their instances.
func (d *Document) each(fn func(*Entity)) {
	fn(d.Root)
	for _, def := range d.Definitions {
		if def == nil {
			fn(nil)
			continue
		}
		fn(&def.Entity)
		for _, inst := range def.Placements {
			fn(inst)
		}
	}
	for _, m := range d.Materials {
		fn(m)
	}
}

// Lookup returns the entity with the given ID.
func (d *Document) Lookup(id string) (*Entity, bool) {
	var found *Entity
	d.each(func(e *Entity) {
		if found == nil && e != nil && e.EntityID == id {
			found = e
		}
	})
	return found, found != nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Format returns the encoding the document was parsed from.
func (d *Document) Format() Format {
	return d.format
}

// Marshal encodes the document in format.
func (d *Document) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Save writes the document to path, or back to the file it was loaded from
// when path is empty. The format follows the target extension. Comments of
// a JSONC source are not preserved.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return fmt.Errorf("document has no path to save to")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := d.Marshal(format)
	if err != nil {
		return fmt.Errorf("failed to encode scene document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene document %s: %w", path, err)
	}
	return nil
}
