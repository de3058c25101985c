// Package cli: export.go implements the "render-tools export" command.
//
// The export command sizes an image from the document camera and hands the
// request to the configured capture command. It does not render anything
// itself.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/render-tools/internal/export"
	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/scene"
)

// exportFlags holds the flag values for the export command.
type exportFlags struct {
	out         string
	width       int
	height      int
	antialias   bool
	transparent bool
	compression float64
}

// NewExportCommand creates the "export" cobra command.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Export an image of the document camera",
		Long: `Export an image of the document camera through the capture command
(export.command in the config file or RENDER_TOOLS_CAPTURE_COMMAND).

Without --width and --height the viewport width is used; a missing
dimension is derived from the other through the camera's aspect ratio.

Examples:
  render-tools export --out shot.png scene.yaml
  render-tools export --out shot.png --width 3840 --antialias scene.yaml`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.compression = -1
			if cmd.Flags().Changed("compression") {
				flags.compression, _ = cmd.Flags().GetFloat64("compression")
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Image file to write")
	cmd.Flags().IntVar(&flags.width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Image height in pixels")
	cmd.Flags().BoolVar(&flags.antialias, "antialias", false, "Antialias the image")
	cmd.Flags().BoolVar(&flags.transparent, "transparent", false, "Transparent background")
	cmd.Flags().Float64("compression", model.DefaultCompression, "Image compression in [0, 1] (default from config)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// runExport is the main logic function for the export command. A negative
// flags.compression means the configured compression.
func runExport(ctx context.Context, w io.Writer, path string, flags *exportFlags) error {
	doc, err := scene.Load(path)
	if err != nil {
		return err
	}
	if doc.Camera == nil {
		return model.NewCLIError(model.ExitInvalidInput, "document has no camera to export")
	}

	width, height, err := export.Dimensions(*doc.Camera, flags.width, flags.height)
	if err != nil {
		return invalidInput("cannot size export", err)
	}
	req, err := export.NewRequest(flags.out, width, height, flags.antialias, flags.transparent)
	if err != nil {
		return err
	}

	cfg := currentConfig()
	req.Compression = cfg.Export.Compression
	if flags.compression >= 0 {
		req.Compression = flags.compression
	}
	if err := export.Validate(req); err != nil {
		return err
	}

	writer := export.CommandWriter{Command: cfg.Export.Command, Args: cfg.Export.Args}
	VerboseLog("Capturing %dx%d to %s", req.Width, req.Height, req.Filename)
	if err := writer.Capture(ctx, req); err != nil {
		if errors.Is(err, export.ErrNoWriter) {
			return model.WrapCLIError(model.ExitCaptureFailed,
				"no capture command configured (set export.command or RENDER_TOOLS_CAPTURE_COMMAND)", err)
		}
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, map[string]any{"exported": true, "request": req})
	}
	_, err = fmt.Fprintf(w, "Exported %dx%d image to %s\n", req.Width, req.Height, req.Filename)
	return err
}
