// Package merge implements the merge command.
package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/internal/cmd/table"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// NewCommand creates the merge command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		keys     []string
		docFlags *cmdutil.DocumentFlags
	)

	cmd := &cobra.Command{
		Use:     "merge LEFT RIGHT",
		GroupID: "core",
		Short:   "Join two ALE files on key columns",
		Long: `Merge joins two ALE files on key columns (Tape and Start by default).

Every row of both files is kept. Rows with equal keys are combined; rows
without a partner are listed as unmatched. A non-key column present in
both files is kept twice, the right file's copy renamed with a _2 suffix.
The table preview shows where each row came from.`,
		Example: `  alekit merge DR.ale SS.ale -O merged.ale --report merge.md
  alekit merge A.ale B.ale --keys Tape,Start,Clip`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := ale.LoadAll(args...)
			if err != nil {
				return err
			}

			doc, diag := reconcile.Merge(docs[0], docs[1], cmdutil.Keys(app, keys)...)
			if err := cmdutil.Alerts(cmd, app).WriteAlert(alerts.FromDiagnostics(diag)); err != nil {
				return err
			}

			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			if docFlags.Out == "" && format == output.FormatTable {
				if docFlags.Report != "" {
					if err := cmdutil.WriteReport(docFlags.Report, diag); err != nil {
						return err
					}
				}
				return output.NewFormatter(format).Format(cmd.OutOrStdout(),
					table.MergeToTableData(doc, diag, docFlags.Limit))
			}
			return cmdutil.Finish(cmd, app, doc, diag, docFlags)
		},
	}

	cmdutil.AddKeysFlag(cmd, &keys)
	docFlags = cmdutil.AddDocumentFlags(cmd)

	return cmd
}
