// Package cmdutil provides shared flags and helpers for alekit commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/pkg/errors"
)

// DocumentFlags holds the flags of commands that produce a document.
type DocumentFlags struct {
	Out    string
	Report string
	Limit  int
}

// AddDocumentFlags adds --out, --report and --limit to a command.
func AddDocumentFlags(cmd *cobra.Command) *DocumentFlags {
	flags := &DocumentFlags{}

	cmd.Flags().StringVarP(&flags.Out, "out", "O", "",
		"Write the resulting ALE file to this path")
	cmd.Flags().StringVar(&flags.Report, "report", "",
		"Write a Markdown reconciliation report to this path")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 20,
		"Rows to preview when no output file is given (0 for all)")

	return flags
}

// AddMacroFlag adds --macro to a command.
func AddMacroFlag(cmd *cobra.Command, target *string, required bool) {
	cmd.Flags().StringVarP(target, "macro", "m", "",
		"Macro to apply: a preset name or a path to a .csv/.yaml file")
	if required {
		_ = cmd.MarkFlagRequired("macro")
	}
}

// AddKeysFlag adds --keys to a command.
func AddKeysFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringSliceVarP(target, "keys", "k", nil,
		"Key columns to match rows on (default from config, Tape,Start)")
}

// Keys returns the explicit keys, or the configured ones.
func Keys(app appcontext.Interface, explicit []string) []string {
	var keys []string
	for _, k := range explicit {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		return keys
	}
	return app.KeyColumns()
}

// Format returns the validated output format of the app.
func Format(app appcontext.Interface) (output.Format, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return "", errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	return format, nil
}
