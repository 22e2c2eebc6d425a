// Package run implements the run command.
package run

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/internal/cmd/table"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/macro"
)

// NewCommand creates the run command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		macroRef string
		steps    bool
		docFlags *cmdutil.DocumentFlags
	)

	cmd := &cobra.Command{
		Use:     "run --macro MACRO FILE",
		GroupID: "core",
		Short:   "Apply a macro to an ALE file",
		Long: `Run applies a macro to one ALE file.

Rules run in order. A rule that cannot apply (an unknown keyword, a
missing column, a bad pattern) is reported and skipped; the remaining
rules still run. The result is saved with --out or previewed.`,
		Example: `  alekit run -m "Camera Cleanup" A001.ale -O A001-clean.ale
  alekit run -m presets/cleanup.yaml A001.ale --steps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cmdutil.LoadMacro(app, macroRef)
			if err != nil {
				return err
			}
			doc, err := ale.Load(args[0])
			if err != nil {
				return err
			}

			result, err := macro.Run(m, doc, macro.WithLogger(app.Logger()))
			if err != nil {
				return err
			}
			if err := cmdutil.Alerts(cmd, app).WriteAlert(alerts.FromResult(result)); err != nil {
				return err
			}

			if steps {
				if docFlags.Out != "" {
					if err := doc.Save(docFlags.Out); err != nil {
						return err
					}
				}
				format, err := cmdutil.Format(app)
				if err != nil {
					return err
				}
				return output.Write(cmd.OutOrStdout(), format, result, table.ResultToTableData(result))
			}
			return cmdutil.Finish(cmd, app, doc, nil, docFlags)
		},
	}

	cmdutil.AddMacroFlag(cmd, &macroRef, true)
	docFlags = cmdutil.AddDocumentFlags(cmd)
	cmd.Flags().BoolVar(&steps, "steps", false, "Print the outcome of every rule instead of the document")
	_ = cmd.Flags().MarkHidden("report")

	return cmd
}
