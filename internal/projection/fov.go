package projection

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/shinji-kodama/render-tools/internal/model"
)

const (
	// minFOV and maxFOV bound the open interval of valid field of view values.
	minFOV = 0.0
	maxFOV = 180.0

	// Tolerance is the absolute tolerance used when comparing angles.
	Tolerance = 1e-9
)

func checkFOV(op string, fov float64) error {
	if !(fov > minFOV && fov < maxFOV) {
		return model.NewDomainError(op, fmt.Sprintf("field of view %v out of range (0-180)", fov))
	}
	return nil
}

func checkRatio(op string, ratio float64) error {
	if !(ratio > 0) || math.IsInf(ratio, 1) {
		return model.NewDomainError(op, fmt.Sprintf("ratio %v must be positive and finite", ratio))
	}
	return nil
}

// convert maps a field of view across axes: 2·atan(tan(fov/2)·ratio).
// atan keeps the result inside (0, 180) for every positive finite ratio.
func convert(fov, ratio float64) float64 {
	half := mgl64.DegToRad(fov) / 2
	return mgl64.RadToDeg(2 * math.Atan(math.Tan(half)*ratio))
}

// HorizontalFOV returns the horizontal field of view, in degrees, for a
// vertical field of view and a horizontal/vertical extent ratio.
//
// HorizontalFOV(v, 1) == v, and the result grows monotonically with ratio.
// Returns a DomainError when verticalDeg is outside (0, 180) or ratio is not
// a positive finite number.
func HorizontalFOV(verticalDeg, ratio float64) (float64, error) {
	if err := checkFOV("horizontal fov", verticalDeg); err != nil {
		return 0, err
	}
	if err := checkRatio("horizontal fov", ratio); err != nil {
		return 0, err
	}
	return convert(verticalDeg, ratio), nil
}

// VerticalFOV is the inverse of HorizontalFOV: it returns the vertical field
// of view for a horizontal one, given the same horizontal/vertical ratio.
func VerticalFOV(horizontalDeg, ratio float64) (float64, error) {
	if err := checkFOV("vertical fov", horizontalDeg); err != nil {
		return 0, err
	}
	if err := checkRatio("vertical fov", ratio); err != nil {
		return 0, err
	}
	return convert(horizontalDeg, 1/ratio), nil
}

// ApplyZoom returns the field of view after zooming in by factor.
// A factor below 1 zooms out. The result stays inside (0, 180).
func ApplyZoom(fovDeg, factor float64) (float64, error) {
	if err := checkFOV("zoom", fovDeg); err != nil {
		return 0, err
	}
	if err := checkRatio("zoom", factor); err != nil {
		return 0, err
	}
	return convert(fovDeg, 1/factor), nil
}

// ViewportRatio returns width/height for a viewport in pixels.
func ViewportRatio(width, height int) (float64, error) {
	return model.CameraState{ViewportWidth: width, ViewportHeight: height}.ViewportRatio()
}

// VerticalFromCamera returns the camera FOV normalized to the vertical axis.
//
// A host reporting on a horizontal basis does so only while the camera is
// constrained; the reported value is then converted with the active aspect
// ratio. Unconstrained cameras and vertical-basis hosts are returned as is.
func VerticalFromCamera(cam model.CameraState) (float64, error) {
	if err := checkFOV("camera", cam.VerticalFOV); err != nil {
		return 0, err
	}
	if cam.FOVBasis == model.BasisHorizontal && cam.Constrained() {
		return VerticalFOV(cam.VerticalFOV, cam.AspectRatio)
	}
	return cam.VerticalFOV, nil
}

// AlmostEqual compares two angles within Tolerance.
func AlmostEqual(a, b float64) bool {
	return mgl64.FloatEqualThreshold(a, b, Tolerance)
}
