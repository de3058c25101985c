// Package signature holds the versioned table of dictionary names that
// identify third-party renderer metadata.
//
// Keys are opaque strings compared for equality; they are never parsed as
// GUIDs. Each key is tied to the renderer version that introduced it. A
// version whose key is not known is kept in the table as an unresolved
// entry so the gap stays visible in configuration and logs instead of being
// filled with an invented value.
package signature
