// Package cli: signatures.go implements the "render-tools signatures" command.
//
// The command prints the signature table in effect: the built-in entries
// merged with the configured ones. Entries without a key are the
// configuration gaps a purge cannot act on.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/signature"
)

// NewSignaturesCommand creates the "signatures" cobra command.
func NewSignaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signatures",
		Short: "Show the renderer metadata keys a purge looks for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := currentConfig().SignatureTable()
			if err != nil {
				return model.WrapCLIError(model.ExitInvalidInput, "invalid signature table", err)
			}
			return printSignatures(cmd.OutOrStdout(), table)
		},
	}
}

type signatureJSON struct {
	Version  string `json:"version"`
	Key      string `json:"key,omitempty"`
	Resolved bool   `json:"resolved"`
}

func printSignatures(w io.Writer, table *signature.Table) error {
	entries := table.Entries()
	if IsJSONOutput() {
		out := make([]signatureJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, signatureJSON{Version: e.Version.Original(), Key: e.Key, Resolved: e.Resolved()})
		}
		return printJSON(w, map[string]any{"signatures": out})
	}

	fmt.Fprintf(w, "%-10s %s\n", "VERSION", "KEY")
	for _, e := range entries {
		key := e.Key
		if !e.Resolved() {
			key = "(unresolved, set in config)"
		}
		fmt.Fprintf(w, "%-10s %s\n", e.Version.Original(), key)
	}
	return nil
}
