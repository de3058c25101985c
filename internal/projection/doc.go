// Package projection implements the camera projection engine.
//
// Every function is pure. The core relation converts a field of view on one
// axis to the other axis given the horizontal/vertical extent ratio:
//
//	h = 2·atan(tan(v/2)·ratio)
//
// ComputeAspectAdjustment decides how a requested camera aspect ratio is
// applied while keeping the visible framing stable: when the constrained
// camera is wider than the viewport it zooms out to keep the previously
// visible vertical extent, otherwise it applies the ratio directly.
package projection
