// Package export implements the export command.
package export

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/pkg/ale"
)

// NewCommand creates the export command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "export FILE OUT",
		GroupID: "core",
		Short:   "Write an ALE file's table as plain tab-separated text",
		Long: `Export writes the column row and data rows of an ALE file to OUT as
tab-separated text, without the heading block, for spreadsheets and
scripts.`,
		Example: `  alekit export A001.ale A001.tsv`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ale.Load(args[0])
			if err != nil {
				return err
			}
			if err := doc.ExportTable(args[1]); err != nil {
				return err
			}
			app.Logger().Debug().Str("source", args[0]).Int("rows", doc.Table.Len()).Msg("Exported table")
			return cmdutil.Alerts(cmd, app).WriteAlert(alerts.NewSuccess("exported " + args[1]))
		},
	}
}
