package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/render-tools/internal/model"
)

// TestHorizontalFOV_Identity verifies that a ratio of 1 leaves the FOV unchanged.
func TestHorizontalFOV_Identity(t *testing.T) {
	for _, v := range []float64{0.001, 1, 35, 60, 90, 120, 179.5} {
		h, err := HorizontalFOV(v, 1)
		require.NoError(t, err)
		assert.InDelta(t, v, h, 1e-9, "v=%v", v)
	}
}

// TestHorizontalFOV_Known checks the formula against hand-computed values.
func TestHorizontalFOV_Known(t *testing.T) {
	// tan(45°) = 1, so a 90° vertical FOV at ratio r gives 2·atan(r).
	h, err := HorizontalFOV(90, math.Sqrt(3))
	require.NoError(t, err)
	assert.InDelta(t, 120.0, h, 1e-9)

	h, err = HorizontalFOV(90, 1/math.Sqrt(3))
	require.NoError(t, err)
	assert.InDelta(t, 60.0, h, 1e-9)
}

// TestHorizontalFOV_Monotonic verifies the result grows strictly with the
// ratio for a fixed vertical FOV.
func TestHorizontalFOV_Monotonic(t *testing.T) {
	ratios := []float64{0.01, 0.25, 0.5, 0.75, 1, 1.333, 1.777, 2, 4, 10, 100}
	for _, v := range []float64{1, 30, 60, 90, 150, 179} {
		prev := 0.0
		for _, r := range ratios {
			h, err := HorizontalFOV(v, r)
			require.NoError(t, err)
			assert.Greater(t, h, prev, "v=%v r=%v", v, r)
			assert.Less(t, h, 180.0)
			prev = h
		}
	}
}

// TestFOV_RoundTrip converts vertical to horizontal at r and back at 1/r.
func TestFOV_RoundTrip(t *testing.T) {
	for _, v := range []float64{0.5, 10, 35, 45, 60, 90, 120, 170} {
		for _, r := range []float64{0.2, 0.75, 1, 4.0 / 3.0, 16.0 / 9.0, 2.35, 5} {
			h, err := HorizontalFOV(v, r)
			require.NoError(t, err)

			back, err := HorizontalFOV(h, 1/r)
			require.NoError(t, err)
			assert.InDelta(t, v, back, 1e-9, "v=%v r=%v", v, r)

			inv, err := VerticalFOV(h, r)
			require.NoError(t, err)
			assert.InDelta(t, v, inv, 1e-9, "v=%v r=%v", v, r)
		}
	}
}

// TestHorizontalFOV_Domain verifies out-of-domain inputs return a DomainError.
func TestHorizontalFOV_Domain(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		ratio float64
	}{
		{"zero fov", 0, 1},
		{"negative fov", -10, 1},
		{"fov 180", 180, 1},
		{"fov above 180", 200, 1},
		{"nan fov", math.NaN(), 1},
		{"zero ratio", 60, 0},
		{"negative ratio", 60, -1},
		{"nan ratio", 60, math.NaN()},
		{"infinite ratio", 60, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HorizontalFOV(tt.v, tt.ratio)
			var de *model.DomainError
			assert.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
		})
	}
}

// TestApplyZoom verifies zoom factors narrow or widen the field of view.
func TestApplyZoom(t *testing.T) {
	same, err := ApplyZoom(60, 1)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, same, 1e-9)

	in, err := ApplyZoom(60, 2)
	require.NoError(t, err)
	assert.Less(t, in, 60.0)

	out, err := ApplyZoom(60, 0.5)
	require.NoError(t, err)
	assert.Greater(t, out, 60.0)
	assert.Less(t, out, 180.0)

	_, err = ApplyZoom(60, 0)
	assert.Error(t, err)
}

// TestVerticalFromCamera makes the FOV basis an explicit input: a horizontal
// basis only applies while the camera is constrained.
func TestVerticalFromCamera(t *testing.T) {
	cam := model.CameraState{VerticalFOV: 60, ViewportWidth: 800, ViewportHeight: 600}

	v, err := VerticalFromCamera(cam)
	require.NoError(t, err)
	assert.Equal(t, 60.0, v)

	cam.FOVBasis = model.BasisHorizontal
	v, err = VerticalFromCamera(cam)
	require.NoError(t, err)
	assert.Equal(t, 60.0, v, "unconstrained camera reports vertical FOV on either basis")

	cam.AspectRatio = 2
	v, err = VerticalFromCamera(cam)
	require.NoError(t, err)
	want, err := VerticalFOV(60, 2)
	require.NoError(t, err)
	assert.InDelta(t, want, v, 1e-12)
	assert.Less(t, v, 60.0)
}
