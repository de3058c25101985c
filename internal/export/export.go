package export

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shinji-kodama/render-tools/internal/command"
	"github.com/shinji-kodama/render-tools/internal/model"
)

// ErrNoWriter is returned when no capture command is configured.
var ErrNoWriter = errors.New("no image writer configured")

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewRequest returns a validated request with the default compression.
func NewRequest(filename string, width, height int, antialias, transparent bool) (model.ExportRequest, error) {
	req := model.ExportRequest{
		Filename:    filename,
		Width:       width,
		Height:      height,
		Antialias:   antialias,
		Transparent: transparent,
		Compression: model.DefaultCompression,
	}
	if err := Validate(req); err != nil {
		return model.ExportRequest{}, err
	}
	return req, nil
}

// Validate checks the field constraints of req.
func Validate(req model.ExportRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", strings.ToLower(fe.Field()), constraint(fe)))
	}
	return model.NewCLIError(model.ExitInvalidInput, "invalid export request: "+strings.Join(msgs, ", "))
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Dimensions resolves the output size for cam. With neither dimension set
// it uses the viewport width; a missing dimension is derived from the other
// through the camera's effective ratio.
func Dimensions(cam model.CameraState, width, height int) (int, int, error) {
	if width > 0 && height > 0 {
		return width, height, nil
	}
	if width < 0 || height < 0 {
		return 0, 0, model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("output dimensions must be positive, got %dx%d", width, height))
	}
	ratio, err := cam.EffectiveRatio()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case width == 0 && height == 0:
		width = cam.ViewportWidth
		height = max(1, int(math.Round(float64(width)/ratio)))
	case height == 0:
		height = max(1, int(math.Round(float64(width)/ratio)))
	default:
		width = max(1, int(math.Round(float64(height)*ratio)))
	}
	return width, height, nil
}

// Writer is the image-capture primitive.
type Writer interface {
	Capture(ctx context.Context, req model.ExportRequest) error
}

// CommandWriter captures by running an external command with Args followed
// by filename, width, height, antialias, transparent and compression.
type CommandWriter struct {
	Command string
	Args    []string
}

// Capture satisfies Writer.
func (w CommandWriter) Capture(ctx context.Context, req model.ExportRequest) error {
	if w.Command == "" {
		return ErrNoWriter
	}
	if err := Validate(req); err != nil {
		return err
	}
	args := append(append([]string{}, w.Args...),
		req.Filename,
		strconv.Itoa(req.Width),
		strconv.Itoa(req.Height),
		strconv.FormatBool(req.Antialias),
		strconv.FormatBool(req.Transparent),
		strconv.FormatFloat(req.Compression, 'f', -1, 64),
	)
	if _, err := command.Run(ctx, model.ExitCaptureFailed, w.Command, args...); err != nil {
		if errors.Is(err, command.ErrNotFound) {
			return model.WrapCLIError(model.ExitCaptureFailed, "capture command is not installed", err)
		}
		return err
	}
	return nil
}
