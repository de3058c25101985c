package purge

// Dictionary is a named key/value store attached to an entity.
type Dictionary interface {
	// Values returns every value stored in the dictionary.
	Values() []any
}

// Entity is anything in the scene that carries attribute dictionaries.
type Entity interface {
	// ID returns an identity that is stable for the lifetime of the scene
	// and unique across all entities.
	ID() string

	// Dictionary looks up a dictionary by its exact name.
	Dictionary(name string) (Dictionary, bool)

	// DeleteDictionary removes the named dictionary and keeps the entity.
	DeleteDictionary(name string) error
}

// Definition is a reusable block of geometry.
type Definition interface {
	Entity

	// IsImage reports whether the definition is an embedded image.
	// Image definitions and their instances are not traversed.
	IsImage() bool

	// Instances returns the placements of the definition.
	Instances() []Entity
}

// Scene is the host document as seen by the purge engine.
type Scene interface {
	// Model returns the root entity.
	Model() Entity

	// Definitions returns every definition in the document.
	Definitions() []Definition

	// Materials returns handles to every material. Handles stay valid when
	// the host reorders the collection.
	Materials() []Entity

	// Transaction runs fn as one undoable operation named name. When fn
	// returns an error, every change fn made is rolled back and the error is
	// returned.
	Transaction(name string, fn func() error) error
}
