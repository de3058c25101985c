package projection

import (
	"fmt"
	"math"

	"github.com/shinji-kodama/render-tools/internal/model"
)

// Mode names the branch ComputeAspectAdjustment took.
type Mode string

const (
	// ModeReset clears the aspect ratio; the camera follows the viewport again.
	ModeReset Mode = "reset"

	// ModeZoomOut applies a ratio wider than the viewport and zooms out to
	// keep the previously visible vertical extent.
	ModeZoomOut Mode = "zoom-out"

	// ModeDirect applies a ratio at most as wide as the viewport and zooms
	// by 1/ratio. This is an approximation for the under-constrained case.
	ModeDirect Mode = "direct"
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	return string(m)
}

// Adjustment is the result of applying a requested aspect ratio to a camera.
type Adjustment struct {
	// Mode is the branch that produced this adjustment.
	Mode Mode `json:"mode"`

	// AspectRatio is the ratio to set on the camera; 0 clears it.
	AspectRatio float64 `json:"aspectRatio"`

	// ZoomFactor is the zoom to apply; values below 1 zoom out.
	ZoomFactor float64 `json:"zoomFactor"`

	// VerticalFOV is the vertical field of view after the zoom.
	VerticalFOV float64 `json:"fov"`
}

// Apply returns cam with the adjustment written into it. The FOV is stored
// on the camera's own basis.
func (a Adjustment) Apply(cam model.CameraState) (model.CameraState, error) {
	out := cam
	out.AspectRatio = a.AspectRatio
	out.VerticalFOV = a.VerticalFOV
	if out.FOVBasis == model.BasisHorizontal && out.Constrained() {
		h, err := HorizontalFOV(a.VerticalFOV, out.AspectRatio)
		if err != nil {
			return cam, err
		}
		out.VerticalFOV = h
	}
	return out, nil
}

// ComputeAspectAdjustment determines how to apply desiredRatio to cam while
// keeping the visible framing stable.
//
//   - desiredRatio == 0 resets to unconstrained mode without zooming.
//   - desiredRatio wider than the viewport zooms out by v/h, where h is the
//     horizontal FOV at the viewport ratio.
//   - anything else applies the ratio directly and zooms by 1/desiredRatio.
//
// Returns a DomainError for non-positive viewport dimensions, an invalid
// field of view, or a negative or non-finite desiredRatio.
func ComputeAspectAdjustment(cam model.CameraState, desiredRatio float64) (Adjustment, error) {
	if desiredRatio < 0 || math.IsNaN(desiredRatio) || math.IsInf(desiredRatio, 0) {
		return Adjustment{}, model.NewDomainError("aspect adjustment",
			fmt.Sprintf("desired ratio %v must be finite and non-negative", desiredRatio))
	}
	viewportRatio, err := cam.ViewportRatio()
	if err != nil {
		return Adjustment{}, err
	}
	v, err := VerticalFromCamera(cam)
	if err != nil {
		return Adjustment{}, err
	}

	if desiredRatio == 0 {
		return Adjustment{Mode: ModeReset, AspectRatio: 0, ZoomFactor: 1, VerticalFOV: v}, nil
	}

	var adj Adjustment
	if desiredRatio > viewportRatio && !AlmostEqual(desiredRatio, viewportRatio) {
		h, err := HorizontalFOV(v, viewportRatio)
		if err != nil {
			return Adjustment{}, err
		}
		adj = Adjustment{Mode: ModeZoomOut, AspectRatio: desiredRatio, ZoomFactor: v / h}
	} else {
		adj = Adjustment{Mode: ModeDirect, AspectRatio: desiredRatio, ZoomFactor: 1 / desiredRatio}
	}

	adj.VerticalFOV, err = ApplyZoom(v, adj.ZoomFactor)
	if err != nil {
		return Adjustment{}, err
	}
	return adj, nil
}
