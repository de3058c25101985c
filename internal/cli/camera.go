// Package cli: camera.go implements the "render-tools camera" command group.
//
// Subcommands:
//   - fov:    convert a field of view between the vertical and horizontal axes
//   - aspect: apply an aspect ratio to a document camera, keeping the framing
//   - edit:   drive the dialog controller with width, height and ratio edits
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/render-tools/internal/eventloop"
	"github.com/shinji-kodama/render-tools/internal/locale"
	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/projection"
	"github.com/shinji-kodama/render-tools/internal/propagation"
	"github.com/shinji-kodama/render-tools/internal/scene"
)

// NewCameraCommand creates the "camera" command group.
func NewCameraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Camera projection tools",
	}
	cmd.AddCommand(newCameraFOVCommand())
	cmd.AddCommand(newCameraAspectCommand())
	cmd.AddCommand(newCameraEditCommand())
	return cmd
}

// decimalFor returns the locale given on the command line, falling back to
// the configured one.
func decimalFor(name string) *locale.Decimal {
	if name == "" {
		name = currentConfig().Locale
	}
	return locale.Parse(name)
}

// invalidInput wraps domain errors so they exit with ExitInvalidInput.
func invalidInput(message string, err error) error {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return model.WrapCLIError(model.ExitInvalidInput, message, err)
	}
	return err
}

// --- camera fov ---

type cameraFOVFlags struct {
	fov   float64
	ratio float64
	to    string
}

func newCameraFOVCommand() *cobra.Command {
	flags := &cameraFOVFlags{}

	cmd := &cobra.Command{
		Use:   "fov",
		Short: "Convert a field of view between axes",
		Long: `Convert a field of view between the vertical and horizontal axes for a
given aspect ratio (horizontal extent / vertical extent).

Examples:
  render-tools camera fov --fov 35 --ratio 1.7778
  render-tools camera fov --fov 90 --ratio 2 --to vertical`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCameraFOV(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().Float64Var(&flags.fov, "fov", 0, "Field of view in degrees, on the axis opposite to --to")
	cmd.Flags().Float64Var(&flags.ratio, "ratio", 0, "Aspect ratio, horizontal / vertical")
	cmd.Flags().StringVar(&flags.to, "to", string(model.BasisHorizontal), "Target axis: horizontal, vertical")
	_ = cmd.MarkFlagRequired("fov")
	_ = cmd.MarkFlagRequired("ratio")

	return cmd
}

type fovResultJSON struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Input  float64 `json:"input"`
	Ratio  float64 `json:"ratio"`
	Result float64 `json:"result"`
}

func runCameraFOV(w io.Writer, flags *cameraFOVFlags) error {
	to, err := model.ParseFOVBasis(flags.to)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid --to", err)
	}

	var result float64
	from := model.BasisVertical
	if to == model.BasisHorizontal {
		result, err = projection.HorizontalFOV(flags.fov, flags.ratio)
	} else {
		from = model.BasisHorizontal
		result, err = projection.VerticalFOV(flags.fov, flags.ratio)
	}
	if err != nil {
		return invalidInput("cannot convert field of view", err)
	}

	if IsJSONOutput() {
		return printJSON(w, fovResultJSON{From: from.String(), To: to.String(), Input: flags.fov, Ratio: flags.ratio, Result: result})
	}
	_, err = fmt.Fprintf(w, "%s FOV %.4f° at ratio %.4f = %s FOV %.4f°\n", from, flags.fov, flags.ratio, to, result)
	return err
}

// --- camera aspect ---

type cameraAspectFlags struct {
	ratio  string
	locale string
	out    string
}

func newCameraAspectCommand() *cobra.Command {
	flags := &cameraAspectFlags{}

	cmd := &cobra.Command{
		Use:   "aspect <document>",
		Short: "Apply an aspect ratio to the document camera",
		Long: `Apply an aspect ratio to the camera of a scene document while keeping the
visible framing stable, then save the document.

A ratio wider than the viewport zooms out to keep the vertical extent; any
other ratio is applied directly. A ratio of 0 releases the constraint.
The ratio is parsed with the decimal separator of --locale.

Examples:
  render-tools camera aspect --ratio 2.35 scene.yaml
  render-tools camera aspect --ratio 1,5 --locale de scene.yaml
  render-tools camera aspect --ratio 0 scene.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCameraAspect(cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.ratio, "ratio", "", "Aspect ratio text, e.g. 1.7778 (0 releases the constraint)")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "Locale of the ratio text (default from config)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the document to this path instead of in place")
	_ = cmd.MarkFlagRequired("ratio")

	return cmd
}

type aspectResultJSON struct {
	projection.Adjustment
	Camera model.CameraState `json:"camera"`
}

func runCameraAspect(w io.Writer, path string, flags *cameraAspectFlags) error {
	desired, err := decimalFor(flags.locale).ParseFloat(flags.ratio)
	if err != nil {
		return invalidInput("invalid --ratio", err)
	}

	doc, err := scene.Load(path)
	if err != nil {
		return err
	}
	cam, err := doc.CameraAdapter()
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "cannot adjust aspect ratio", err)
	}

	state := cam.State()
	adj, err := projection.ComputeAspectAdjustment(state, desired)
	if err != nil {
		return invalidInput("cannot apply aspect ratio", err)
	}
	next, err := adj.Apply(state)
	if err != nil {
		return invalidInput("cannot apply aspect ratio", err)
	}
	if err := cam.SetState(next); err != nil {
		return invalidInput("cannot apply aspect ratio", err)
	}
	VerboseLog("Aspect adjustment: mode=%s zoom=%.6f fov=%.6f", adj.Mode, adj.ZoomFactor, adj.VerticalFOV)

	if err := doc.Save(flags.out); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, aspectResultJSON{Adjustment: adj, Camera: next})
	}
	_, err = fmt.Fprintln(w, FormatAdjustment(adj))
	return err
}

// FormatAdjustment renders an adjustment for humans.
//
// Example:
//
//	zoom-out, ratio 2 → "Aspect ratio 2.0000 applied (zoom-out, zoom 0.8140, vertical FOV 42.5210°)"
func FormatAdjustment(adj projection.Adjustment) string {
	if adj.Mode == projection.ModeReset {
		return fmt.Sprintf("Aspect ratio released (vertical FOV %.4f°)", adj.VerticalFOV)
	}
	return fmt.Sprintf("Aspect ratio %.4f applied (%s, zoom %.4f, vertical FOV %.4f°)",
		adj.AspectRatio, adj.Mode, adj.ZoomFactor, adj.VerticalFOV)
}

// --- camera edit ---

type cameraEditFlags struct {
	width  int
	height int
	ratio  string
	locale string
	out    string
}

func newCameraEditCommand() *cobra.Command {
	flags := &cameraEditFlags{}

	cmd := &cobra.Command{
		Use:   "edit <document>",
		Short: "Edit width, height and aspect ratio as the camera dialog does",
		Long: `Feed edits to the camera dialog controller and print the resulting fields.

Edits are applied in the order ratio, width, height, each after its debounce
interval, exactly as if typed into the dialog. Editing the width derives
the height from the camera's effective ratio and vice versa; editing the
ratio adjusts the camera and derives the height from the width.

If any edit is rejected nothing is saved.

Examples:
  render-tools camera edit --width 1920 scene.yaml
  render-tools camera edit --ratio 2.35 --width 2048 scene.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCameraEdit(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.width, "width", 0, "New width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 0, "New height in pixels")
	cmd.Flags().StringVar(&flags.ratio, "ratio", "", "New aspect ratio text")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "Locale of the ratio text (default from config)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the document to this path instead of in place")

	return cmd
}

// fieldView mirrors what a dialog would display.
type fieldView struct {
	fields propagation.Fields
}

func (v *fieldView) SetWidth(w int)              { v.fields.Width = w }
func (v *fieldView) SetHeight(h int)             { v.fields.Height = h }
func (v *fieldView) SetAspectRatioText(s string) { v.fields.AspectRatioText = s }

type editResultJSON struct {
	Fields propagation.Fields `json:"fields"`
	Camera model.CameraState  `json:"camera"`
}

func runCameraEdit(ctx context.Context, w io.Writer, path string, flags *cameraEditFlags) error {
	doc, err := scene.Load(path)
	if err != nil {
		return err
	}
	cam, err := doc.CameraAdapter()
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "cannot edit camera", err)
	}

	loop := eventloop.New()
	runCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan error, 1)
	go func() { stopped <- loop.Run(runCtx) }()
	defer func() {
		cancel()
		<-stopped
		loop.Close()
	}()

	// Everything below touching ctrl or view runs on the loop goroutine;
	// Wait orders those writes before the reads that follow it.
	var (
		ctrl     *propagation.Controller
		initErr  error
		rejected []error
		view     = &fieldView{}
	)
	loop.Post(func() {
		ctrl, initErr = propagation.NewController(cam, view, loop, propagation.Options{
			Interval: currentConfig().Debounce,
			Locale:   decimalFor(flags.locale),
			Logger:   currentLogger(),
			OnError: func(field propagation.Field, err error) {
				rejected = append(rejected, fmt.Errorf("%s: %w", field, err))
			},
		})
	})
	loop.Wait()
	if initErr != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "cannot edit camera", initErr)
	}

	var edits []func()
	if flags.ratio != "" {
		edits = append(edits, func() { ctrl.OnAspectRatioChanged(flags.ratio) })
	}
	if flags.width != 0 {
		edits = append(edits, func() { ctrl.OnWidthChanged(flags.width) })
	}
	if flags.height != 0 {
		edits = append(edits, func() { ctrl.OnHeightChanged(flags.height) })
	}
	for _, edit := range edits {
		loop.Post(edit)
		loop.Wait()
	}

	if len(rejected) > 0 {
		return model.WrapCLIError(model.ExitInvalidInput, "edit rejected, document not saved", errors.Join(rejected...))
	}

	var fields propagation.Fields
	loop.Post(func() { fields = ctrl.Fields() })
	loop.Wait()

	if flags.ratio != "" {
		if err := doc.Save(flags.out); err != nil {
			return err
		}
		VerboseLog("Saved camera to %s", doc.Path())
	}

	if IsJSONOutput() {
		return printJSON(w, editResultJSON{Fields: fields, Camera: *doc.Camera})
	}
	_, err = fmt.Fprintf(w, "Width: %d\nHeight: %d\nAspect ratio: %s\n", fields.Width, fields.Height, fields.AspectRatioText)
	return err
}
