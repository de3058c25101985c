// Package cli: purge.go implements the "render-tools purge" command.
//
// The purge command removes every renderer metadata dictionary within the
// chosen scope from a scene document as one transaction, then writes the
// document back (or to --out). With --dry-run it only reports what would be
// removed.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/purge"
	"github.com/shinji-kodama/render-tools/internal/scene"
)

// purgeFlags holds the flag values for the purge command.
type purgeFlags struct {
	// scope selects which parts of the scene are visited.
	scope string

	// dryRun reports findings without changing the document.
	dryRun bool

	// out is the path to write the purged document to. Empty means in place.
	out string
}

// NewPurgeCommand creates the "purge" cobra command.
func NewPurgeCommand() *cobra.Command {
	flags := &purgeFlags{}

	cmd := &cobra.Command{
		Use:   "purge <document>",
		Short: "Remove renderer metadata from a scene document",
		Long: `Remove every renderer metadata dictionary from a scene document.

Scopes:
  all                     model, definitions with their instances, materials
  settings-and-materials  model and materials
  materials               materials only

Image definitions are never touched. Either every dictionary in scope is
removed or, if any removal fails, none is.

Examples:
  render-tools purge scene.yaml
  render-tools purge --scope materials scene.jsonc
  render-tools purge --dry-run --json scene.yaml
  render-tools purge --out clean.yaml scene.yaml`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.scope, "scope", string(model.ScopeAllData),
		"Purge scope: all, settings-and-materials, materials")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report what would be removed without changing the document")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the purged document to this path instead of in place")

	return cmd
}

// runPurge is the main logic function for the purge command.
func runPurge(_ context.Context, w io.Writer, path string, flags *purgeFlags) error {
	scope, err := model.ParsePurgeScope(flags.scope)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid --scope", err)
	}

	doc, engine, err := openForPurge(path)
	if err != nil {
		return err
	}

	if flags.dryRun {
		report, err := engine.Scan(scope, doc.Host())
		if err != nil {
			return model.WrapCLIError(model.ExitPurgeFailed, "scan failed", err)
		}
		return printScanResult(w, report)
	}

	result, err := engine.Purge(scope, doc.Host())
	if err != nil {
		return model.WrapCLIError(model.ExitPurgeFailed, "purge failed, document left unchanged", err)
	}
	VerboseLog("Purged %d dictionaries (%d bytes)", result.DictionariesRemoved, result.TotalBytes)

	target := flags.out
	if target == "" {
		target = doc.Path()
	}
	if result.DictionariesRemoved > 0 || flags.out != "" {
		if err := doc.Save(target); err != nil {
			return err
		}
		VerboseLog("Saved document to %s", target)
	}

	return printPurgeResult(w, scope, result, target)
}

// openForPurge loads the document and builds an engine from the
// configured signature table.
func openForPurge(path string) (*scene.Document, *purge.Engine, error) {
	doc, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	table, err := currentConfig().SignatureTable()
	if err != nil {
		return nil, nil, model.WrapCLIError(model.ExitInvalidInput, "invalid signature table", err)
	}
	return doc, purge.NewEngine(table, currentLogger()), nil
}

// purgeResultJSON is the JSON output structure of the purge command.
type purgeResultJSON struct {
	Scope        string `json:"scope"`
	Bytes        int64  `json:"bytes"`
	Dictionaries int    `json:"dictionaries"`
	Document     string `json:"document"`
}

func printPurgeResult(w io.Writer, scope model.PurgeScope, result model.PurgeResult, target string) error {
	if IsJSONOutput() {
		return printJSON(w, purgeResultJSON{
			Scope:        scope.String(),
			Bytes:        result.TotalBytes,
			Dictionaries: result.DictionariesRemoved,
			Document:     target,
		})
	}
	_, err := fmt.Fprintln(w, FormatPurgeMessage(result))
	return err
}

// FormatPurgeMessage renders the human-readable purge summary.
//
// Example:
//
//	{TotalBytes: 1536, DictionariesRemoved: 3} → "Purged model for 1,536 bytes of renderer data (1.5 kB in 3 dictionaries)"
func FormatPurgeMessage(result model.PurgeResult) string {
	if result.DictionariesRemoved == 0 {
		return "No renderer data found."
	}
	return fmt.Sprintf("Purged model for %s bytes of renderer data (%s in %s)",
		humanize.Comma(result.TotalBytes),
		humanize.Bytes(uint64(result.TotalBytes)),
		pluralDictionaries(result.DictionariesRemoved))
}

func pluralDictionaries(n int) string {
	if n == 1 {
		return "1 dictionary"
	}
	return fmt.Sprintf("%s dictionaries", humanize.Comma(int64(n)))
}
