package propagation

import (
	"fmt"
	"math"
	"time"

	"github.com/shinji-kodama/render-tools/internal/debounce"
	"github.com/shinji-kodama/render-tools/internal/locale"
	"github.com/shinji-kodama/render-tools/internal/log"
	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/projection"
)

// RatioDigits is the number of fraction digits shown in the ratio field.
const RatioDigits = 3

// Camera is the host camera the controller reads from and writes back to.
type Camera interface {
	State() model.CameraState
	SetState(model.CameraState) error
}

// View receives the values the controller derives.
type View interface {
	SetWidth(int)
	SetHeight(int)
	SetAspectRatioText(string)
}

// Field names one of the three edited fields.
type Field string

const (
	FieldWidth       Field = "width"
	FieldHeight      Field = "height"
	FieldAspectRatio Field = "aspectRatio"
)

// ErrorHandler is told about every rejected edit, once.
type ErrorHandler func(field Field, err error)

// Options configures a Controller. The zero value is usable.
type Options struct {
	// Interval is the quiet period of each field. 0 means
	// debounce.DefaultInterval.
	Interval time.Duration

	// Locale parses and formats the ratio text. nil means English.
	Locale *locale.Decimal

	Logger  *log.Logger
	OnError ErrorHandler
}

// Fields is a snapshot of the controller's values.
type Fields struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	AspectRatioText string `json:"aspectRatio"`
}

// Controller owns the three fields. All methods must be called from the
// goroutine that runs the scheduler's callbacks.
type Controller struct {
	camera  Camera
	view    View
	decimal *locale.Decimal
	logger  *log.Logger
	onError ErrorHandler

	fields  Fields
	writing bool

	width  *debounce.Debouncer[int]
	height *debounce.Debouncer[int]
	ratio  *debounce.Debouncer[string]
}

// NewController reads the camera and seeds the fields with the viewport
// width, the height that width implies and the camera's aspect ratio, then
// pushes them to the view.
func NewController(cam Camera, view View, s debounce.Scheduler, opts Options) (*Controller, error) {
	state := cam.State()
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera: %w", err)
	}
	if opts.Interval <= 0 {
		opts.Interval = debounce.DefaultInterval
	}
	if opts.Locale == nil {
		opts.Locale = locale.Parse("")
	}

	c := &Controller{
		camera:  cam,
		view:    view,
		decimal: opts.Locale,
		logger:  log.OrNop(opts.Logger),
		onError: opts.OnError,
	}
	c.width = debounce.New(s, opts.Interval, c.applyWidth)
	c.height = debounce.New(s, opts.Interval, c.applyHeight)
	c.ratio = debounce.New(s, opts.Interval, c.applyRatio)

	ratio, err := state.EffectiveRatio()
	if err != nil {
		return nil, err
	}
	c.fields = Fields{
		Width:           state.ViewportWidth,
		Height:          derive(float64(state.ViewportWidth) / ratio),
		AspectRatioText: c.decimal.Format(state.AspectRatio, RatioDigits),
	}
	c.write(func() {
		c.view.SetWidth(c.fields.Width)
		c.view.SetHeight(c.fields.Height)
		c.view.SetAspectRatioText(c.fields.AspectRatioText)
	})
	return c, nil
}

// Fields returns the current field values.
func (c *Controller) Fields() Fields {
	return c.fields
}

// OnWidthChanged schedules a height recomputation for w.
func (c *Controller) OnWidthChanged(w int) {
	if c.writing {
		return
	}
	c.width.Trigger(w)
}

// OnHeightChanged schedules a width recomputation for h.
func (c *Controller) OnHeightChanged(h int) {
	if c.writing {
		return
	}
	c.height.Trigger(h)
}

// OnAspectRatioChanged schedules parsing and applying text.
func (c *Controller) OnAspectRatioChanged(text string) {
	if c.writing {
		return
	}
	c.ratio.Trigger(text)
}

// Cancel drops every pending edit.
func (c *Controller) Cancel() {
	c.width.Cancel()
	c.height.Cancel()
	c.ratio.Cancel()
}

func (c *Controller) applyWidth(w int) {
	if w <= 0 {
		c.reject(FieldWidth, fmt.Errorf("width must be positive, got %d", w), func() {
			c.view.SetWidth(c.fields.Width)
		})
		return
	}
	ratio, err := c.camera.State().EffectiveRatio()
	if err != nil {
		c.reject(FieldWidth, err, func() { c.view.SetWidth(c.fields.Width) })
		return
	}
	c.fields.Width = w
	c.fields.Height = derive(float64(w) / ratio)
	c.logger.Debugw("width changed", "width", w, "height", c.fields.Height, "ratio", ratio)
	c.write(func() { c.view.SetHeight(c.fields.Height) })
}

func (c *Controller) applyHeight(h int) {
	if h <= 0 {
		c.reject(FieldHeight, fmt.Errorf("height must be positive, got %d", h), func() {
			c.view.SetHeight(c.fields.Height)
		})
		return
	}
	ratio, err := c.camera.State().EffectiveRatio()
	if err != nil {
		c.reject(FieldHeight, err, func() { c.view.SetHeight(c.fields.Height) })
		return
	}
	c.fields.Height = h
	c.fields.Width = derive(float64(h) * ratio)
	c.logger.Debugw("height changed", "height", h, "width", c.fields.Width, "ratio", ratio)
	c.write(func() { c.view.SetWidth(c.fields.Width) })
}

func (c *Controller) applyRatio(text string) {
	revert := func() { c.view.SetAspectRatioText(c.fields.AspectRatioText) }

	desired, err := c.decimal.ParseFloat(text)
	if err != nil {
		c.reject(FieldAspectRatio, err, revert)
		return
	}
	state := c.camera.State()
	adj, err := projection.ComputeAspectAdjustment(state, desired)
	if err != nil {
		c.reject(FieldAspectRatio, err, revert)
		return
	}
	next, err := adj.Apply(state)
	if err != nil {
		c.reject(FieldAspectRatio, err, revert)
		return
	}
	if err := c.camera.SetState(next); err != nil {
		c.reject(FieldAspectRatio, err, revert)
		return
	}

	ratio, err := next.EffectiveRatio()
	if err != nil {
		// SetState accepted a state without a usable ratio; keep the
		// dimensions as they are.
		c.fields.AspectRatioText = text
		return
	}
	c.fields.AspectRatioText = text
	c.fields.Height = derive(float64(c.fields.Width) / ratio)
	c.logger.Debugw("aspect ratio changed",
		"ratio", desired, "mode", adj.Mode, "zoom", adj.ZoomFactor, "fov", adj.VerticalFOV, "height", c.fields.Height)
	c.write(func() { c.view.SetHeight(c.fields.Height) })
}

// reject restores the view and reports err once.
func (c *Controller) reject(field Field, err error, revert func()) {
	c.logger.Debugw("edit rejected", "field", field, "error", err)
	c.write(revert)
	if c.onError != nil {
		c.onError(field, err)
	}
}

// write runs fn with change notifications suppressed.
func (c *Controller) write(fn func()) {
	c.writing = true
	defer func() { c.writing = false }()
	fn()
}

// derive rounds a computed dimension to whole pixels, never below one.
func derive(v float64) int {
	return max(1, int(math.Round(v)))
}
