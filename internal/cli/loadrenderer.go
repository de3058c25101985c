// Package cli: loadrenderer.go implements the "render-tools load-renderer"
// command, which delegates to the configured renderer loader.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/render-tools/internal/renderer"
)

// loadRendererFlags holds the flag values for the load-renderer command.
type loadRendererFlags struct {
	force bool
}

// NewLoadRendererCommand creates the "load-renderer" cobra command.
func NewLoadRendererCommand() *cobra.Command {
	flags := &loadRendererFlags{}

	cmd := &cobra.Command{
		Use:   "load-renderer",
		Short: "Load the external renderer",
		Long: `Run the configured renderer loader (renderer.loader in the config file or
RENDER_TOOLS_RENDERER_LOADER).

A successful load is recorded in renderer.stateFile. Later runs report the
earlier load instead of loading again, unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadRenderer(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Run the loader even if it already ran")

	return cmd
}

func runLoadRenderer(ctx context.Context, w io.Writer, flags *loadRendererFlags) error {
	cfg := currentConfig()
	loader := renderer.Loader{
		Command:   cfg.Renderer.Loader,
		Args:      cfg.Renderer.Args,
		Logger:    currentLogger(),
		StateFile: cfg.RendererStateFile(),
		Force:     flags.force,
	}
	res, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	VerboseLog("Renderer state file: %s", loader.StateFile)
	if IsJSONOutput() {
		return printJSON(w, res)
	}
	if res.AlreadyLoaded {
		_, err = fmt.Fprintf(w, "Renderer already loaded (%s).\n", humanize.Time(res.LoadedAt))
		return err
	}
	_, err = fmt.Fprintln(w, "Renderer loaded.")
	return err
}
