// Package model defines the domain types for the render-tools CLI.
//
// All entities in this package represent the core data structures shared by
// the projection engine, the propagation controller and the purge engine.
// These types are used throughout the application for passing data between
// components.
package model

import (
	"fmt"
	"math"
	"strings"
)

// FOVBasis identifies which axis the host reports the camera field of view on.
//
// Hosts differ here: some always report a vertical FOV, others switch to the
// horizontal axis once an aspect ratio is set on the camera. The basis is
// therefore carried explicitly with the camera state instead of being assumed.
type FOVBasis string

const (
	// BasisVertical means the reported FOV spans the vertical extent.
	BasisVertical FOVBasis = "vertical"

	// BasisHorizontal means the reported FOV spans the horizontal extent
	// whenever the camera is constrained by an aspect ratio.
	BasisHorizontal FOVBasis = "horizontal"
)

// String returns the string representation of FOVBasis.
func (b FOVBasis) String() string {
	return string(b)
}

// IsValid checks whether the FOVBasis value is one of the predefined bases.
// The empty value is accepted and treated as vertical.
func (b FOVBasis) IsValid() bool {
	switch b {
	case "", BasisVertical, BasisHorizontal:
		return true
	default:
		return false
	}
}

// ParseFOVBasis converts a string to an FOVBasis.
// Returns an error if the string does not match any valid basis.
func ParseFOVBasis(s string) (FOVBasis, error) {
	basis := FOVBasis(strings.ToLower(s))
	if basis == "" || !basis.IsValid() {
		return "", fmt.Errorf("invalid FOV basis: %q (valid: vertical, horizontal)", s)
	}
	return basis, nil
}

// CameraState is the projection state of the host camera.
//
// Invariant: either AspectRatio is 0 (unconstrained, the camera follows the
// viewport) or it holds the constrained ratio. The horizontal FOV is always
// derived from VerticalFOV and the effective ratio, never stored.
type CameraState struct {
	// VerticalFOV is the field of view reported by the host, in degrees.
	// Must be in the open interval (0, 180). See FOVBasis for the axis.
	VerticalFOV float64 `json:"fov" yaml:"fov"`

	// FOVBasis tells which axis VerticalFOV was measured on.
	FOVBasis FOVBasis `json:"fovBasis,omitempty" yaml:"fovBasis,omitempty"`

	// ViewportWidth is the width of the on-screen rendering surface in pixels.
	ViewportWidth int `json:"viewportWidth" yaml:"viewportWidth"`

	// ViewportHeight is the height of the on-screen rendering surface in pixels.
	ViewportHeight int `json:"viewportHeight" yaml:"viewportHeight"`

	// AspectRatio is the constrained horizontal/vertical ratio of the camera.
	// 0 means unconstrained.
	AspectRatio float64 `json:"aspectRatio" yaml:"aspectRatio"`
}

// Constrained reports whether an aspect ratio is set on the camera.
func (c CameraState) Constrained() bool {
	return c.AspectRatio > 0
}

// ViewportRatio returns viewport width divided by viewport height.
// Returns a DomainError if either dimension is not positive.
func (c CameraState) ViewportRatio() (float64, error) {
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return 0, NewDomainError("viewport ratio",
			fmt.Sprintf("viewport dimensions must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight))
	}
	return float64(c.ViewportWidth) / float64(c.ViewportHeight), nil
}

// EffectiveRatio returns the ratio that currently governs the camera framing:
// the constrained aspect ratio when set, otherwise the live viewport ratio.
func (c CameraState) EffectiveRatio() (float64, error) {
	if c.Constrained() {
		return c.AspectRatio, nil
	}
	return c.ViewportRatio()
}

// Validate checks all fields of the camera state and returns the first
// violation as a DomainError.
func (c CameraState) Validate() error {
	if !(c.VerticalFOV > 0 && c.VerticalFOV < 180) {
		return NewDomainError("camera", fmt.Sprintf("field of view %v out of range (0-180)", c.VerticalFOV))
	}
	if !c.FOVBasis.IsValid() {
		return NewDomainError("camera", fmt.Sprintf("invalid FOV basis %q", c.FOVBasis))
	}
	if _, err := c.ViewportRatio(); err != nil {
		return err
	}
	if c.AspectRatio < 0 || math.IsNaN(c.AspectRatio) || math.IsInf(c.AspectRatio, 0) {
		return NewDomainError("camera", fmt.Sprintf("aspect ratio %v must be finite and non-negative", c.AspectRatio))
	}
	return nil
}

// DefaultCompression is the image compression passed to the capture
// primitive when the caller does not choose one.
const DefaultCompression = 0.9

// ExportRequest describes a single image export handed to the host's
// image-capture primitive. It is created per export action and has no
// persistent identity.
type ExportRequest struct {
	// Filename is the destination chosen by the user.
	Filename string `json:"filename" validate:"required"`

	// Width and Height are the output dimensions in pixels.
	Width  int `json:"width" validate:"gt=0"`
	Height int `json:"height" validate:"gt=0"`

	Antialias   bool `json:"antialias"`
	Transparent bool `json:"transparent"`

	// Compression is the image compression factor in [0, 1].
	Compression float64 `json:"compression" validate:"gte=0,lte=1"`
}

// PurgeScope determines which parts of the scene hierarchy a purge traverses.
type PurgeScope string

const (
	// ScopeAllData visits the model, every non-image definition with its
	// instances, and every material.
	ScopeAllData PurgeScope = "all"

	// ScopeSettingsAndMaterials visits the model and the materials only.
	ScopeSettingsAndMaterials PurgeScope = "settings-and-materials"

	// ScopeMaterialsOnly visits the materials only.
	ScopeMaterialsOnly PurgeScope = "materials"
)

// String returns the string representation of PurgeScope.
func (s PurgeScope) String() string {
	return string(s)
}

// IsValid checks whether the PurgeScope value is one of the predefined scopes.
func (s PurgeScope) IsValid() bool {
	switch s {
	case ScopeAllData, ScopeSettingsAndMaterials, ScopeMaterialsOnly:
		return true
	default:
		return false
	}
}

// IncludesModel reports whether the scope visits the root model.
func (s PurgeScope) IncludesModel() bool {
	return s == ScopeAllData || s == ScopeSettingsAndMaterials
}

// IncludesDefinitions reports whether the scope visits definitions and
// their instances.
func (s PurgeScope) IncludesDefinitions() bool {
	return s == ScopeAllData
}

// ParsePurgeScope converts a string to a PurgeScope.
// Returns an error if the string does not match any valid scope.
func ParsePurgeScope(s string) (PurgeScope, error) {
	scope := PurgeScope(strings.ToLower(s))
	if !scope.IsValid() {
		return "", fmt.Errorf("invalid purge scope: %q (valid: all, settings-and-materials, materials)", s)
	}
	return scope, nil
}

// PurgeResult is the outcome of one purge invocation. It is never persisted.
type PurgeResult struct {
	// TotalBytes is the sum of the serialized length of every value in every
	// removed dictionary.
	TotalBytes int64 `json:"totalBytes"`

	// DictionariesRemoved counts the tagged dictionaries that were deleted.
	DictionariesRemoved int `json:"dictionariesRemoved"`
}

// Add folds another result into r.
func (r *PurgeResult) Add(other PurgeResult) {
	r.TotalBytes += other.TotalBytes
	r.DictionariesRemoved += other.DictionariesRemoved
}
