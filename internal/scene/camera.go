package scene

import (
	"fmt"

	"github.com/shinji-kodama/render-tools/internal/model"
)

// CameraAdapter exposes the document camera to the propagation controller.
// Every accepted edit is written straight into the document.
type CameraAdapter struct {
	doc *Document
}

// CameraAdapter returns the camera view of the document, or an error when
// the document has no camera.
func (d *Document) CameraAdapter() (*CameraAdapter, error) {
	if d.Camera == nil {
		return nil, fmt.Errorf("document has no camera")
	}
	return &CameraAdapter{doc: d}, nil
}

// State returns the current camera state.
func (c *CameraAdapter) State() model.CameraState {
	return *c.doc.Camera
}

// SetState validates and stores a new camera state.
func (c *CameraAdapter) SetState(s model.CameraState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	*c.doc.Camera = s
	return nil
}
