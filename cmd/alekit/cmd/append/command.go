// Package append implements the append command.
package append

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// NewCommand creates the append command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dir      string
		docFlags *cmdutil.DocumentFlags
	)

	cmd := &cobra.Command{
		Use:     "append FILE... [--dir DIR]",
		GroupID: "core",
		Short:   "Stack the rows of several ALE files",
		Long: `Append stacks the rows of ALE files in the order given.

The result has every column of every file; cells a file does not have are
left empty. Columns missing from some files are reported. The heading of
the first file is kept.`,
		Example: `  alekit append A001.ale A002.ale -O day01.ale
  alekit append --dir DR/ -O dr.ale --report dr.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if dir != "" {
				found, err := ale.ListDir(dir)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}
			if len(paths) == 0 {
				return errors.NewValidationError("files", nil, "no ALE files to append")
			}

			docs, err := ale.LoadAll(paths...)
			if err != nil {
				return err
			}
			doc, diag := reconcile.AppendAll(docs...)
			app.Logger().Debug().Strs("sources", diag.Sources).Msg(diag.Summary())

			if err := cmdutil.Alerts(cmd, app).WriteAlert(alerts.FromDiagnostics(diag)); err != nil {
				return err
			}
			return cmdutil.Finish(cmd, app, doc, diag, docFlags)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Also append every ALE file in this folder")
	docFlags = cmdutil.AddDocumentFlags(cmd)

	return cmd
}
