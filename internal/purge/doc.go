// Package purge implements the metadata purge engine.
//
// The engine walks the scene containment hierarchy of the host:
//
//	model
//	  definitions (embedded images are skipped)
//	    instances
//	  materials
//
// On each visited entity it looks up every resolved signature key from the
// signature table. A dictionary stored under such a key is foreign renderer
// metadata: the serialized length of its values is added to the running
// total and the dictionary is removed.
//
// The whole purge runs inside a single host transaction. Deletions are only
// committed once every planned deletion succeeded; any failure aborts the
// transaction and the host restores the scene, so callers never observe a
// partial purge.
package purge
