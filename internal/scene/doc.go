// Package scene is the file-backed stand-in for the host document.
//
// A scene document stores the camera, the root model, the definitions with
// their instances and the materials, each with named attribute dictionaries.
// Documents are read from YAML (.yaml, .yml) via gopkg.in/yaml.v3 or from
// JSON with comments (.json, .jsonc) via github.com/tidwall/jsonc. Save picks
// the encoding from the target extension.
//
// Host exposes a document to the purge engine, including the undoable
// transaction boundary, and CameraAdapter exposes its camera to the
// propagation controller.
package scene
